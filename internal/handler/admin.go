package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kmareda/regdesk/internal/domain"
	"github.com/kmareda/regdesk/internal/service"
	"github.com/kmareda/regdesk/internal/view"
)

// AdminHandler serves the login and logout flows.
type AdminHandler struct {
	sessions     *service.SessionService
	cookieSecure bool
}

// NewAdminHandler creates a new AdminHandler. cookieSecure marks the
// session cookie Secure, for deployments behind TLS.
func NewAdminHandler(sessions *service.SessionService, cookieSecure bool) *AdminHandler {
	return &AdminHandler{sessions: sessions, cookieSecure: cookieSecure}
}

// HandleLoginForm renders the login page.
func (h *AdminHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	view.AdminLoginPage("").Render(r.Context(), w)
}

// HandleLogin processes a login attempt. The attempt counter is tied to
// the visitor's session, so a fresh session is minted for first-time
// visitors before the credentials are checked.
func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session := h.resolveSession(r)
	if session == nil {
		var cookieValue string
		var err error
		session, cookieValue, err = h.sessions.Start(ctx)
		if err != nil {
			slog.Error("start session", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			view.ErrorPage("An unexpected error occurred.").Render(ctx, w)
			return
		}
		h.setSessionCookie(w, cookieValue)
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	err := h.sessions.Login(ctx, session, username, password)
	switch {
	case err == nil:
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	case errors.Is(err, domain.ErrLockedOut):
		view.AdminLoginPage("Too many failed attempts. Please try again later.").Render(ctx, w)
	case errors.Is(err, domain.ErrUnauthorized):
		left := h.sessions.AttemptsLeft(session)
		msg := fmt.Sprintf("Invalid credentials. %d attempt(s) remaining.", left)
		if left == 0 {
			msg = "Too many failed attempts. Please try again later."
		}
		view.AdminLoginPage(msg).Render(ctx, w)
	default:
		slog.Error("login", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		view.ErrorPage("An unexpected error occurred.").Render(ctx, w)
	}
}

// HandleLogout destroys the session and clears the cookie. Safe to call
// without a session.
func (h *AdminHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if session := h.resolveSession(r); session != nil {
		if err := h.sessions.Logout(r.Context(), session); err != nil {
			slog.Error("logout", "error", err)
		}
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// resolveSession returns the request's session, or nil when the cookie is
// absent or invalid.
func (h *AdminHandler) resolveSession(r *http.Request) *domain.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	session, err := h.sessions.Resolve(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

func (h *AdminHandler) setSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.sessions.MaxAge().Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AdminHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
