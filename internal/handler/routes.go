package handler

import (
	"net/http"

	"github.com/kmareda/regdesk/internal/service"
)

// RegisterRoutes wires every route into the mux. Everything past the
// public pages sits behind the admin session gate, the JSON mirror
// included.
func RegisterRoutes(
	mux *http.ServeMux,
	sessions *service.SessionService,
	users *service.UserService,
	dashboard *service.DashboardService,
	verifier *service.EmailVerifier,
	limiter *service.SlidingWindow,
	cookieSecure bool,
) {
	public := NewPublicHandler(users, verifier, limiter)
	admin := NewAdminHandler(sessions, cookieSecure)
	records := NewUsersHandler(users)
	charts := NewDashboardHandler(dashboard)
	api := NewAPIHandler(users)

	mux.HandleFunc("GET /{$}", public.HandleHome)
	mux.HandleFunc("POST /submit", public.HandleSubmit)
	mux.HandleFunc("GET /about", public.HandleAbout)
	mux.HandleFunc("GET /admin", admin.HandleLoginForm)
	mux.HandleFunc("POST /admin", admin.HandleLogin)
	mux.HandleFunc("GET /logout", admin.HandleLogout)
	mux.HandleFunc("GET /api/validate-email", public.HandleValidateEmail)
	mux.HandleFunc("GET /healthz", HandleHealthz)

	protect := func(fn http.HandlerFunc) http.Handler {
		return RequireAdmin(sessions, fn)
	}

	mux.Handle("GET /dashboard", protect(charts.HandleDashboard))
	mux.Handle("GET /users", protect(records.HandleList))
	mux.Handle("GET /users/search", protect(records.HandleSearch))
	mux.Handle("GET /create", protect(records.HandleCreateForm))
	mux.Handle("POST /create", protect(records.HandleCreate))
	mux.Handle("GET /edit/{id}", protect(records.HandleEditForm))
	mux.Handle("POST /update/{id}", protect(records.HandleUpdate))
	mux.Handle("GET /delete/{id}", protect(records.HandleDelete))
	mux.Handle("GET /delete-all", protect(records.HandleDeleteAll))
	mux.Handle("GET /export", protect(records.HandleExport))

	mux.Handle("GET /api/users", protect(api.HandleList))
	mux.Handle("GET /api/users/{id}", protect(api.HandleGet))
	mux.Handle("POST /api/users", protect(api.HandleCreate))
	mux.Handle("PUT /api/users/{id}", protect(api.HandleUpdate))
	mux.Handle("DELETE /api/users/{id}", protect(api.HandleDelete))
	mux.Handle("DELETE /api/users", protect(api.HandleDeleteAll))
}
