// Package session is the single source of truth for "who is logged in and
// with what privileges". Sessions live in SQLite, referenced by an HttpOnly
// cookie, so they survive both page reloads and process restarts while
// staying scoped to one browser.
package session

import (
	"context"
	"time"

	"aimms/internal/core"
)

// Session is the client-held record of an authenticated identity. All fields
// are written together in a single insert; readers never observe a partially
// populated session.
type Session struct {
	ID        string
	Token     string
	UserID    string
	UserName  string
	UserEmail string
	RawRole   string
	UserType  string // "user" or "admin"
	// Draft holds the serialized onboarding draft while the wizard is in
	// progress; empty otherwise.
	Draft     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether the session carries a token. An empty token
// means unauthenticated regardless of any other field.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Role returns the session's role, defaulting to USER for empty or unknown
// values.
func (s *Session) Role() core.Role {
	if s == nil {
		return core.RoleUser
	}
	return core.ParseRole(s.RawRole)
}

// IsExpired reports whether the session has outlived its TTL.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Store is the persistence port the manager drives. internal/storage
// implements it on SQLite.
type Store interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
	UpdateSessionDraft(ctx context.Context, id, draft string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
