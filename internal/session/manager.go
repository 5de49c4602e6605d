package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// DefaultTTL bounds how long a browser session stays valid without a fresh
// login.
const DefaultTTL = 24 * time.Hour

// Manager handles session creation, lookup, and teardown.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager creates a session manager. A non-positive ttl falls back to
// DefaultTTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl}
}

// Create stores a new session for a successful login. All identity fields
// are persisted atomically in one insert.
func (m *Manager) Create(ctx context.Context, token, userID, userName, userEmail, role, userType string) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	now := time.Now()
	sess := &Session{
		ID:        id,
		Token:     token,
		UserID:    userID,
		UserName:  userName,
		UserEmail: userEmail,
		RawRole:   role,
		UserType:  userType,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Get returns the session for id, or nil when it does not exist or has
// expired. Expired rows are deleted on read.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := m.store.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}
	if sess.IsExpired() {
		_ = m.store.DeleteSession(ctx, id)
		return nil, nil
	}
	return sess, nil
}

// Delete removes a session (logout).
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.DeleteSession(ctx, id)
}

// SaveDraft persists the serialized onboarding draft on the session row so
// the wizard survives reloads mid-flow.
func (m *Manager) SaveDraft(ctx context.Context, id, draft string) error {
	return m.store.UpdateSessionDraft(ctx, id, draft)
}

// ClearDraft discards the onboarding draft after submit or cancel.
func (m *Manager) ClearDraft(ctx context.Context, id string) error {
	return m.store.UpdateSessionDraft(ctx, id, "")
}

// CleanupExpired removes all expired sessions and returns how many.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx)
}

func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "sess_" + hex.EncodeToString(b), nil
}
