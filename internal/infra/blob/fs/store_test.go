package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"wavecore/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func putDeck(t *testing.T, store *Store, key string) core.Info {
	t.Helper()
	info, err := store.Put(context.Background(), key, bytes.NewReader([]byte("slide deck")), core.PutOptions{
		ContentType: "application/pdf",
		Metadata:    map[string]string{"session_id": "sess-1"},
	})
	if err != nil {
		t.Fatalf("put %s: %v", key, err)
	}
	return info
}

func TestResourceLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)

	info := putDeck(t, store, "sessions/sess-1/deck.pdf")
	if info.Key != "sessions/sess-1/deck.pdf" || info.Size != int64(len("slide deck")) {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "sessions/sess-1/deck.pdf", bytes.NewReader([]byte("other")), core.PutOptions{}); err == nil {
		t.Fatal("second put on the same key must fail")
	}

	head, err := store.Head(ctx, "sessions/sess-1/deck.pdf")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	got, rc, err := store.Get(ctx, "sessions/sess-1/deck.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	payload, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(payload) != "slide deck" {
		t.Fatalf("payload mismatch: %q", payload)
	}
	if got.ETag == "" || got.ETag != head.ETag {
		t.Fatalf("etag mismatch: get=%q head=%q", got.ETag, head.ETag)
	}
	if got.Metadata["session_id"] != "sess-1" {
		t.Fatalf("metadata lost: %v", got.Metadata)
	}

	ok, err := store.Delete(ctx, "sessions/sess-1/deck.pdf")
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if ok, err = store.Delete(ctx, "sessions/sess-1/deck.pdf"); err != nil || ok {
		t.Fatalf("repeat delete must report absence: ok=%v err=%v", ok, err)
	}
}

func TestKeysStayUnderRoot(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"", "../outside.pdf", "/etc/deck.pdf", "sessions/../../escape"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), core.PutOptions{}); err == nil {
			t.Fatalf("key %q must be rejected", key)
		}
		if _, err := sanitizeKey(key); err == nil {
			t.Fatalf("sanitizeKey must reject %q", key)
		}
	}
}

func TestSidecarCarriesContentType(t *testing.T) {
	store := newTempStore(t)
	putDeck(t, store, "sessions/sess-1/agenda.pdf")

	dataPath, metaPath, err := store.pathFor("sessions/sess-1/agenda.pdf")
	if err != nil {
		t.Fatalf("pathFor: %v", err)
	}
	if _, err := os.Stat(dataPath); err != nil {
		t.Fatalf("payload missing: %v", err)
	}
	raw, err := os.ReadFile(metaPath)
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	if !bytes.Contains(raw, []byte("application/pdf")) {
		t.Fatalf("sidecar must record the content type: %s", raw)
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("stream cut") }

func TestFailedUploadLeavesNoObject(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "sessions/sess-1/recording.mp4", brokenReader{}, core.PutOptions{}); err == nil {
		t.Fatal("expected copy error")
	}
	if _, err := store.Head(ctx, "sessions/sess-1/recording.mp4"); err == nil {
		t.Fatal("aborted upload must not leave a readable resource")
	}
}

func TestListOrdersKeysUnderPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"sessions/sess-1/worksheet.xlsx", "sessions/sess-1/deck.pdf", "sessions/sess-2/deck.pdf"} {
		putDeck(t, store, key)
	}
	list, err := store.List(ctx, "sessions/sess-1/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Key != "sessions/sess-1/deck.pdf" || list[1].Key != "sessions/sess-1/worksheet.xlsx" {
		t.Fatalf("unexpected listing %+v", list)
	}
	if _, err := store.List(ctx, ""); err != nil {
		t.Fatalf("root list: %v", err)
	}
}

func TestMissingSidecarSurfacesAsError(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	putDeck(t, store, "sessions/sess-1/deck.pdf")

	_, metaPath, _ := store.pathFor("sessions/sess-1/deck.pdf")
	if err := os.Remove(metaPath); err != nil {
		t.Fatalf("remove sidecar: %v", err)
	}
	if _, _, err := store.Get(ctx, "sessions/sess-1/deck.pdf"); err == nil {
		t.Fatal("get without sidecar must fail")
	}
	if _, err := store.Head(ctx, "sessions/sess-1/deck.pdf"); err == nil {
		t.Fatal("head without sidecar must fail")
	}
}

func TestCorruptSidecarFailsList(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stray.bin"), []byte("data"), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stray.bin.meta"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	if _, err := store.List(context.Background(), ""); err == nil {
		t.Fatal("corrupt sidecar must fail the walk")
	}
}

func TestPresignIsGetOnly(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	putDeck(t, store, "sessions/sess-1/deck.pdf")

	url, err := store.PresignURL(ctx, "sessions/sess-1/deck.pdf", core.SignedURLOptions{Method: "get"})
	if err != nil || url == "" {
		t.Fatalf("presign get: %v %q", err, url)
	}
	if _, err := store.PresignURL(ctx, "sessions/sess-1/deck.pdf", core.SignedURLOptions{Method: "PUT"}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("presign put must be unsupported, got %v", err)
	}
	if store.localURL("a/b.pdf") != "http://local.resources/a/b.pdf" {
		t.Fatalf("unexpected local url %q", store.localURL("a/b.pdf"))
	}
}

func TestCloneMetadataIsolation(t *testing.T) {
	if cloneMetadata(nil) != nil {
		t.Fatal("nil metadata passes through")
	}
	src := map[string]string{"session_id": "sess-1"}
	cp := cloneMetadata(src)
	src["session_id"] = "sess-2"
	if cp["session_id"] != "sess-1" {
		t.Fatalf("clone must be isolated from the source: %v", cp)
	}
}

func TestTimestampsAreUTC(t *testing.T) {
	store := newTempStore(t)
	info := putDeck(t, store, "sessions/sess-1/deck.pdf")
	if !info.LastModified.Equal(info.LastModified.UTC()) {
		t.Fatal("sidecar timestamps must be UTC")
	}
}
