package dashboard_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wavecore/internal/adapters/dashboard"
	"wavecore/internal/blob"
	"wavecore/internal/core"
	memory "wavecore/internal/infra/persistence/memory"
	"wavecore/pkg/domain"
)

func newTestHandler(t *testing.T) *dashboard.Handler {
	t.Helper()
	store := memory.NewStore(core.NewDefaultRulesEngine())
	svc := core.NewService(store, core.WithResourceStore(blob.NewMemory()))
	gate := core.NewGate(store)
	return dashboard.NewHandler(svc, gate)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
}

func login(t *testing.T, h http.Handler) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/auth/login", map[string]string{"password": core.DefaultAdminSecret})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestAuthFlow(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/api/v1/auth/session", nil)
	var session struct {
		Admin bool `json:"admin"`
	}
	decode(t, rec, &session)
	if session.Admin {
		t.Fatal("fresh gate must not report admin")
	}

	rec = do(t, h, http.MethodPost, "/api/v1/auth/login", map[string]string{"password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d", rec.Code)
	}

	login(t, h)
	rec = do(t, h, http.MethodGet, "/api/v1/auth/session", nil)
	decode(t, rec, &session)
	if !session.Admin {
		t.Fatal("session must report admin after login")
	}

	rec = do(t, h, http.MethodPost, "/api/v1/auth/logout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: status %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/api/v1/auth/session", nil)
	decode(t, rec, &session)
	if session.Admin {
		t.Fatal("session must report non-admin after logout")
	}
}

func TestMutationsRejectedWithoutLogin(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodPost, "/api/v1/programs", domain.Program{WaveTitle: "Wave 9"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body %s", rec.Code, rec.Body.String())
	}
	if got := do(t, h, http.MethodGet, "/api/v1/programs", nil); got.Code != http.StatusOK {
		t.Fatalf("reads stay open, got %d", got.Code)
	}
}

func TestProgramCRUDOverHTTP(t *testing.T) {
	h := newTestHandler(t)
	login(t, h)

	rec := do(t, h, http.MethodPost, "/api/v1/programs", domain.Program{WaveTitle: "Wave 9", DaysOfWeek: []string{"Monday"}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Program domain.Program `json:"program"`
	}
	decode(t, rec, &created)
	if created.Program.ID == "" || created.Program.Status != domain.ProgramUpcoming {
		t.Fatalf("unexpected created program %+v", created.Program)
	}

	rec = do(t, h, http.MethodPatch, "/api/v1/programs/"+created.Program.ID, map[string]string{"status": "active"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status %d body %s", rec.Code, rec.Body.String())
	}
	var patched struct {
		Program domain.Program `json:"program"`
	}
	decode(t, rec, &patched)
	if patched.Program.Status != domain.ProgramActive {
		t.Fatalf("status not applied: %+v", patched.Program)
	}
	if patched.Program.WaveTitle != "Wave 9" {
		t.Fatalf("unset fields must survive patch: %+v", patched.Program)
	}

	if rec = do(t, h, http.MethodPatch, "/api/v1/programs/missing", map[string]string{"status": "active"}); rec.Code != http.StatusNotFound {
		t.Fatalf("patch unknown: status %d", rec.Code)
	}

	rec = do(t, h, http.MethodDelete, "/api/v1/programs/"+created.Program.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}
	var deleted struct {
		Deleted bool `json:"deleted"`
	}
	decode(t, rec, &deleted)
	if !deleted.Deleted {
		t.Fatal("expected deleted true")
	}
	if rec = do(t, h, http.MethodGet, "/api/v1/programs/"+created.Program.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d", rec.Code)
	}
}

func TestSessionRoutesAndDayFilter(t *testing.T) {
	h := newTestHandler(t)
	login(t, h)

	rec := do(t, h, http.MethodPost, "/api/v1/programs", domain.Program{WaveTitle: "Wave 9"})
	var created struct {
		Program domain.Program `json:"program"`
	}
	decode(t, rec, &created)
	waveID := created.Program.ID

	for _, s := range []domain.Session{
		{Day: "Monday", TimeStart: "1:00 PM", Training: "Afternoon", Type: domain.SessionLive},
		{Day: "Monday", TimeStart: "9:00 AM", Training: "Morning", Type: domain.SessionLive},
		{Day: "Friday", TimeStart: "9:00 AM", Training: "Wrap", Type: domain.SessionUpskill},
	} {
		if rec := do(t, h, http.MethodPost, "/api/v1/sessions?active_wave="+waveID, s); rec.Code != http.StatusCreated {
			t.Fatalf("create session: status %d body %s", rec.Code, rec.Body.String())
		}
	}

	rec = do(t, h, http.MethodGet, "/api/v1/programs/"+waveID+"/sessions?day=Monday", nil)
	var listed struct {
		Sessions []domain.Session `json:"sessions"`
	}
	decode(t, rec, &listed)
	if len(listed.Sessions) != 2 || listed.Sessions[0].Training != "Morning" {
		t.Fatalf("unexpected monday schedule %+v", listed.Sessions)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/programs/"+waveID+"/stats", nil)
	var stats struct {
		TypeCounts map[string]int `json:"type_counts"`
	}
	decode(t, rec, &stats)
	if stats.TypeCounts["live"] != 2 || stats.TypeCounts["upskilling"] != 1 {
		t.Fatalf("unexpected type counts %v", stats.TypeCounts)
	}
}

func TestSessionResourceUploadAndDownload(t *testing.T) {
	h := newTestHandler(t)
	login(t, h)

	rec := do(t, h, http.MethodPost, "/api/v1/programs", domain.Program{WaveTitle: "Wave 9"})
	var created struct {
		Program domain.Program `json:"program"`
	}
	decode(t, rec, &created)
	rec = do(t, h, http.MethodPost, "/api/v1/sessions?active_wave="+created.Program.ID, domain.Session{Day: "Monday", Training: "Kickoff", Type: domain.SessionLive})
	var sess struct {
		Session domain.Session `json:"session"`
	}
	decode(t, rec, &sess)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sess.Session.ID+"/resources?name=deck.pdf", strings.NewReader("slides"))
	req.Header.Set("Content-Type", "application/pdf")
	upload := httptest.NewRecorder()
	h.ServeHTTP(upload, req)
	if upload.Code != http.StatusCreated {
		t.Fatalf("upload: status %d body %s", upload.Code, upload.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/v1/sessions/"+sess.Session.ID+"/resources/deck.pdf", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "slides" {
		t.Fatalf("download: status %d body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type not echoed, got %q", ct)
	}
}

func TestOwnerRemovalConflictsOverHTTP(t *testing.T) {
	h := newTestHandler(t)
	login(t, h)

	rec := do(t, h, http.MethodDelete, "/api/v1/admins/"+domain.OwnerAdminID, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, rec, &resp)
	if !strings.Contains(resp.Error, domain.OwnerAdminID) {
		t.Fatalf("rejection must name the owner, got %q", resp.Error)
	}
}

func TestStatsCapacityAndActivityEndpoints(t *testing.T) {
	h := newTestHandler(t)
	login(t, h)

	do(t, h, http.MethodPost, "/api/v1/smes", domain.SME{Name: "Dana Whitfield", Location: "Bogota", Vendors: []string{"TP Bogota"}})
	do(t, h, http.MethodPost, "/api/v1/smes", domain.SME{Name: "Priya Nair", Location: "Manila", Vendors: []string{"Concentrix Manila"}})

	rec := do(t, h, http.MethodGet, "/api/v1/stats", nil)
	var stats struct {
		SMEsByLocation map[string]int `json:"smes_by_location"`
	}
	decode(t, rec, &stats)
	if stats.SMEsByLocation["Bogota"] != 1 || stats.SMEsByLocation["Manila"] != 1 {
		t.Fatalf("unexpected stats %v", stats.SMEsByLocation)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/capacity", map[string]any{
		"pairs": []core.VendorLocation{{Vendor: "TP Colombia", Location: "Bogota"}},
	})
	var capacity struct {
		Matrix []core.VendorCapacity `json:"matrix"`
	}
	decode(t, rec, &capacity)
	if len(capacity.Matrix) != 1 || capacity.Matrix[0].SMECount != 1 {
		t.Fatalf("unexpected matrix %+v", capacity.Matrix)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/activity?limit=1", nil)
	var activity struct {
		Activity []core.ActivityEntry `json:"activity"`
	}
	decode(t, rec, &activity)
	if len(activity.Activity) != 1 || activity.Activity[0].Action != "Added SME" {
		t.Fatalf("unexpected activity %+v", activity.Activity)
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/activity?limit=nope", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: status %d", rec.Code)
	}
}
