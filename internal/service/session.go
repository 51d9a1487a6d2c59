package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kmareda/regdesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// SessionService owns the admin gate: it mints and resolves session
// cookies, counts failed login attempts per session, and locks a session
// out after domain.LoginMaxAttempts failures. The cookie carries only a
// signed token; all state lives in the session store.
type SessionService struct {
	sessions      domain.SessionRepository
	secret        []byte
	maxAge        time.Duration
	adminUsername string
	adminHash     []byte
}

// NewSessionService creates a SessionService. The configured admin password
// is hashed once at startup so login compares bcrypt digests, never the
// plaintext.
func NewSessionService(sessions domain.SessionRepository, secret string, maxAge time.Duration, adminUsername, adminPassword string, bcryptCost int) (*SessionService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &SessionService{
		sessions:      sessions,
		secret:        []byte(secret),
		maxAge:        maxAge,
		adminUsername: adminUsername,
		adminHash:     hash,
	}, nil
}

// MaxAge returns the configured session lifetime, which is also the cookie
// max-age.
func (s *SessionService) MaxAge() time.Duration {
	return s.maxAge
}

// Start creates a fresh server-side session and returns it together with
// the signed cookie value the client should present.
func (s *SessionService) Start(ctx context.Context) (*domain.Session, string, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.maxAge),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	cookie, err := s.signToken(session.Token, now)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}
	return session, cookie, nil
}

// Resolve maps a cookie value back to its server-side session. An invalid
// signature, unknown token, or expired session yields ErrUnauthorized.
func (s *SessionService) Resolve(ctx context.Context, cookieValue string) (*domain.Session, error) {
	token, err := s.parseToken(cookieValue)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, session.Token)
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

// Login checks the submitted credentials against the configured admin
// secret. A locked-out session is rejected before any comparison and its
// counter is not incremented. On success the session becomes admin and the
// counter resets; on mismatch the counter increments.
func (s *SessionService) Login(ctx context.Context, session *domain.Session, username, password string) error {
	if session.Attempts >= domain.LoginMaxAttempts {
		return domain.ErrLockedOut
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passwordOK := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)) == nil

	if !usernameOK || !passwordOK {
		session.Attempts++
		if err := s.sessions.Update(ctx, session); err != nil {
			return fmt.Errorf("record failed attempt: %w", err)
		}
		return domain.ErrUnauthorized
	}

	session.IsAdmin = true
	session.Attempts = 0
	if err := s.sessions.Update(ctx, session); err != nil {
		return fmt.Errorf("promote session: %w", err)
	}
	return nil
}

// AttemptsLeft reports how many login attempts the session has remaining.
func (s *SessionService) AttemptsLeft(session *domain.Session) int {
	left := domain.LoginMaxAttempts - session.Attempts
	if left < 0 {
		return 0
	}
	return left
}

// Logout destroys the server-side session entirely.
func (s *SessionService) Logout(ctx context.Context, session *domain.Session) error {
	if err := s.sessions.Delete(ctx, session.Token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionService) signToken(token string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": token,
		"iat": now.Unix(),
		"exp": now.Add(s.maxAge).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *SessionService) parseToken(cookieValue string) (string, error) {
	token, err := jwt.Parse(cookieValue, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}
	return claims.GetSubject()
}
