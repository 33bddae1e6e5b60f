package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore. The table holds at most one row.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Load returns the stored session, or an empty one.
func (s *sessionStore) Load(ctx context.Context) (*domain.Session, error) {
	var (
		sess      domain.Session
		createdAt int64
	)
	err := s.store.db.QueryRowContext(ctx, `
		SELECT token, active_event, user_name, user_email, method, created_at
		FROM session WHERE id = 1
	`).Scan(&sess.Token, &sess.ActiveEvent, &sess.User.Name, &sess.User.Email, &sess.Method, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if createdAt != 0 {
		sess.CreatedAt = time.Unix(0, createdAt).UTC()
	}
	return &sess, nil
}

// Save stores the session, replacing any previous one.
func (s *sessionStore) Save(ctx context.Context, session domain.Session) error {
	var createdAt int64
	if !session.CreatedAt.IsZero() {
		createdAt = session.CreatedAt.UnixNano()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO session (id, token, active_event, user_name, user_email, method, created_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			active_event = excluded.active_event,
			user_name = excluded.user_name,
			user_email = excluded.user_email,
			method = excluded.method,
			created_at = excluded.created_at
	`, session.Token, session.ActiveEvent, session.User.Name, session.User.Email, session.Method, createdAt)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear removes the stored session.
func (s *sessionStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
