// Package storage persists the web client's local state in SQLite: browser
// sessions and the locally cached alert events the worker consumes. All
// remote finance data stays in the backend; nothing here duplicates it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aimms/internal/session"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed local store.
type Store struct {
	db *sql.DB
}

var _ session.Store = (*Store)(nil)

// Open opens (creating if needed) the database at dbPath and applies
// pending migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateSession inserts a session row. One statement, so a concurrent reader
// sees either the full session or none of it.
func (s *Store) CreateSession(ctx context.Context, sess *session.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token, user_id, user_name, user_email, role, user_type, draft, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Token, sess.UserID, sess.UserName, sess.UserEmail,
		sess.RawRole, sess.UserType, sess.Draft, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession fetches a session by id, or nil when absent.
func (s *Store) GetSession(ctx context.Context, id string) (*session.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, token, user_id, user_name, user_email, role, user_type, draft, created_at, expires_at
		FROM sessions WHERE id = ?`, id)

	var sess session.Session
	err := row.Scan(&sess.ID, &sess.Token, &sess.UserID, &sess.UserName, &sess.UserEmail,
		&sess.RawRole, &sess.UserType, &sess.Draft, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Store) UpdateSessionDraft(ctx context.Context, id, draft string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE sessions SET draft = ? WHERE id = ?`, draft, id); err != nil {
		return fmt.Errorf("update session draft: %w", err)
	}
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}

// Alert is a budget-alert event cached locally by the alerts worker.
type Alert struct {
	ID        int64
	UserID    string
	Category  string
	Level     string
	Percent   float64
	Message   string
	CreatedAt time.Time
}

// SaveAlert stores one alert event.
func (s *Store) SaveAlert(ctx context.Context, a Alert) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (user_id, category, level, percent, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Category, a.Level, a.Percent, a.Message, createdAt)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// ListAlerts returns the newest alerts for a user, up to limit.
func (s *Store) ListAlerts(ctx context.Context, userID string, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, level, percent, message, created_at
		FROM alerts WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select alerts: %w", err)
	}
	defer rows.Close()

	var out []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.Category, &a.Level, &a.Percent, &a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PruneAlerts deletes alerts older than the cutoff and returns how many.
func (s *Store) PruneAlerts(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("prune alerts: %w", err)
	}
	return res.RowsAffected()
}
