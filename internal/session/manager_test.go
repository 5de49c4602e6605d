package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"aimms/internal/core"
)

type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]*Session)}
}

func (f *fakeStore) CreateSession(_ context.Context, s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, id string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeStore) UpdateSessionDraft(_ context.Context, id, draft string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		s.Draft = draft
	}
	return nil
}

func (f *fakeStore) DeleteExpiredSessions(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.sessions {
		if s.IsExpired() {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

func TestCreateStoresAllIdentityFields(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, time.Hour)

	sess, err := m.Create(context.Background(), "tok", "42", "Ada", "ada@example.com", "ADMIN", "admin")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID == "" {
		t.Fatal("Create() returned empty session id")
	}

	got, err := m.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil after Create")
	}
	if got.Token != "tok" || got.UserID != "42" || got.UserName != "Ada" ||
		got.UserEmail != "ada@example.com" || got.RawRole != "ADMIN" || got.UserType != "admin" {
		t.Errorf("Get() = %+v, identity fields incomplete", got)
	}
	if got.Role() != core.RoleAdmin {
		t.Errorf("Role() = %v, want %v", got.Role(), core.RoleAdmin)
	}
	if !got.Authenticated() {
		t.Error("Authenticated() = false for a session with a token")
	}
}

func TestGetDeletesExpiredSession(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, time.Hour)

	store.sessions["old"] = &Session{
		ID:        "old",
		Token:     "tok",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	got, err := m.Get(context.Background(), "old")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil for expired session", got)
	}
	if _, ok := store.sessions["old"]; ok {
		t.Error("expired session not deleted on read")
	}
}

func TestGetMissingSession(t *testing.T) {
	m := NewManager(newFakeStore(), time.Hour)
	got, err := m.Get(context.Background(), "nope")
	if err != nil || got != nil {
		t.Errorf("Get() = %v, %v; want nil, nil", got, err)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, time.Hour)

	sess, err := m.Create(context.Background(), "tok", "42", "Ada", "ada@example.com", "USER", "user")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := m.SaveDraft(context.Background(), sess.ID, `{"step":3}`); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	got, _ := m.Get(context.Background(), sess.ID)
	if got.Draft != `{"step":3}` {
		t.Errorf("Draft = %q, want %q", got.Draft, `{"step":3}`)
	}

	if err := m.ClearDraft(context.Background(), sess.ID); err != nil {
		t.Fatalf("ClearDraft() error = %v", err)
	}
	got, _ = m.Get(context.Background(), sess.ID)
	if got.Draft != "" {
		t.Errorf("Draft after clear = %q, want empty", got.Draft)
	}
}

func TestNilSessionIsUnauthenticated(t *testing.T) {
	var sess *Session
	if sess.Authenticated() {
		t.Error("nil session reported authenticated")
	}
	if sess.Role() != core.RoleUser {
		t.Errorf("nil session Role() = %v, want %v", sess.Role(), core.RoleUser)
	}
}
