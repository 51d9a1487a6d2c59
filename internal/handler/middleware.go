package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kmareda/regdesk/internal/domain"
	"github.com/kmareda/regdesk/internal/service"
	"github.com/kmareda/regdesk/internal/view"
	"github.com/mssola/useragent"
)

type contextKey string

const sessionContextKey contextKey = "session"

const sessionCookieName = "admin_session"

// SessionFromContext extracts the resolved session from the request
// context. Returns nil if the request carried no valid session.
func SessionFromContext(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionContextKey).(*domain.Session)
	return session
}

// RequireAdmin is middleware that protects the admin routes. It resolves
// the session cookie and injects the session into the request context.
// Any request without an admin session is redirected to the login page,
// never an error render, and never the protected content.
func RequireAdmin(sessions *service.SessionService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}

		session, err := sessions.Resolve(r.Context(), cookie.Value)
		if err != nil || !session.IsAdmin {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// Recover converts handler panics into a generic 500 page so internals
// never leak to the client.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic in handler", "path", r.URL.Path, "panic", rec)
				w.WriteHeader(http.StatusInternalServerError)
				view.ErrorPage("An unexpected error occurred.").Render(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Unwrap exposes the underlying writer to http.ResponseController so SSE
// handlers can still flush through the wrapper.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// AccessLog appends one line per request to the given writer: timestamp,
// client IP, method, path, status, duration, and the browser and OS parsed
// from the User-Agent header.
func AccessLog(out io.Writer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		ua := useragent.New(r.UserAgent())
		browser, version := ua.Browser()
		fmt.Fprintf(out, "%s %s %s %s %d %s %q %q\n",
			start.UTC().Format(time.RFC3339),
			clientIP(r),
			r.Method,
			r.URL.RequestURI(),
			rec.status,
			time.Since(start).Round(time.Millisecond),
			browser+"/"+version,
			ua.OS(),
		)
	})
}

// clientIP returns the originating client address: the first hop of
// X-Forwarded-For when present, otherwise the connection's remote host.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
