package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kmareda/regdesk/internal/domain"
)

// SessionRepository implements domain.SessionRepository using SQLite.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SQLite-backed SessionRepository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db.SqlDB}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, is_admin, attempts, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.Token, session.IsAdmin, session.Attempts,
		formatTime(session.CreatedAt), formatTime(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	var (
		session   domain.Session
		createdAt string
		expiresAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT token, is_admin, attempts, created_at, expires_at
		 FROM sessions WHERE token = ?`, token,
	).Scan(&session.Token, &session.IsAdmin, &session.Attempts, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}

	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET is_admin = ?, attempts = ? WHERE token = ?",
		session.IsAdmin, session.Attempts, session.Token,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
