package domain

import (
	"context"
	"time"
)

// Session holds the server-side state for one browser session: whether the
// client has passed the admin gate and how many login attempts it has
// burned. The client only ever holds the opaque token.
type Session struct {
	Token     string
	IsAdmin   bool
	Attempts  int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// LoginMaxAttempts is the number of failed admin logins a session may make
// before it is locked out. Only a fresh session resets the counter.
const LoginMaxAttempts = 3

// SessionRepository defines persistence operations for sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, token string) error
}
