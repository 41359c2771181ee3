package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"wavecore/internal/blob"
	"wavecore/pkg/domain"
)

// ErrNoResourceStore is returned when attachment operations are invoked
// without a configured blob backend.
var ErrNoResourceStore = errors.New("no resource store configured")

// ErrSessionNotFound is returned by attachment operations targeting an
// unknown session.
var ErrSessionNotFound = errors.New("session not found")

func sessionResourceKey(sessionID, name string) string {
	return path.Join("sessions", sessionID, name)
}

// AttachSessionResource stores a training material for a session and
// appends its key to the session's resource list.
func (s *Service) AttachSessionResource(ctx context.Context, cap Capability, sessionID, name string, r io.Reader, contentType string) (blob.Info, error) {
	op := "attach_session_resource"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return blob.Info{}, err
	}
	if s.resources == nil {
		err = ErrNoResourceStore
		return blob.Info{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		err = fmt.Errorf("resource name required")
		return blob.Info{}, err
	}
	session, ok := s.store.GetSession(sessionID)
	if !ok {
		err = ErrSessionNotFound
		return blob.Info{}, err
	}

	key := sessionResourceKey(sessionID, name)
	info, err := s.resources.Put(ctx, key, r, blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"session_id": sessionID},
	})
	if err != nil {
		return blob.Info{}, err
	}

	resources := append(append([]string(nil), session.Resources...), key)
	_, found, _, txErr := s.UpdateSession(ctx, cap, sessionID, domain.SessionPatch{Resources: &resources})
	if txErr != nil || !found {
		// roll the orphaned blob back so store and bucket stay aligned
		_, _ = s.resources.Delete(ctx, key)
		if txErr == nil {
			txErr = ErrSessionNotFound
		}
		err = txErr
		return blob.Info{}, err
	}
	return info, nil
}

// OpenSessionResource streams a previously attached material back.
func (s *Service) OpenSessionResource(ctx context.Context, sessionID, name string) (blob.Info, io.ReadCloser, error) {
	if s.resources == nil {
		return blob.Info{}, nil, ErrNoResourceStore
	}
	return s.resources.Get(ctx, sessionResourceKey(sessionID, name))
}

// ListSessionResources returns attachment metadata for one session.
func (s *Service) ListSessionResources(ctx context.Context, sessionID string) ([]blob.Info, error) {
	if s.resources == nil {
		return nil, ErrNoResourceStore
	}
	return s.resources.List(ctx, sessionResourceKey(sessionID, "")+"/")
}
