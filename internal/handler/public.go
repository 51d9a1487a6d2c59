package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kmareda/regdesk/internal/domain"
	"github.com/kmareda/regdesk/internal/service"
	"github.com/kmareda/regdesk/internal/view"
)

// PublicHandler serves the unauthenticated pages and the email validation
// endpoint.
type PublicHandler struct {
	users    *service.UserService
	verifier *service.EmailVerifier
	limiter  *service.SlidingWindow
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(users *service.UserService, verifier *service.EmailVerifier, limiter *service.SlidingWindow) *PublicHandler {
	return &PublicHandler{users: users, verifier: verifier, limiter: limiter}
}

// HandleHome renders the registration form.
func (h *PublicHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	view.HomePage(view.FormValues{}, "", "").Render(r.Context(), w)
}

// HandleAbout renders the static info page.
func (h *PublicHandler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	view.AboutPage().Render(r.Context(), w)
}

// HandleSubmit processes the public registration form. Failures re-render
// the form with the submitted values echoed back so nothing is retyped.
func (h *PublicHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	in := formInput(r)
	values := view.FormValues{
		Name:    in.Name,
		Email:   in.Email,
		DOB:     in.DOB,
		Contact: in.Contact,
		State:   in.State,
		Country: in.Country,
	}

	user, err := h.users.Submit(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput),
			errors.Is(err, domain.ErrEmailRejected),
			errors.Is(err, domain.ErrDuplicateEmail):
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.HomePage(values, displayMessage(err), "").Render(r.Context(), w)
		default:
			slog.Error("submit registration", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			view.ErrorPage("An unexpected error occurred.").Render(r.Context(), w)
		}
		return
	}

	slog.Info("registration saved", "id", user.ID, "email", user.Email)
	view.HomePage(view.FormValues{}, "", "Registration successful. Thank you, "+user.Name+"!").Render(r.Context(), w)
}

// HandleValidateEmail checks one address against the deliverability
// service. The verdict is always a 200 when an address is supplied; only a
// missing parameter or an exhausted rate limit is an error status.
func (h *PublicHandler) HandleValidateEmail(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "too many requests, please try again later")
		return
	}

	address := strings.TrimSpace(r.URL.Query().Get("email"))
	if address == "" {
		writeError(w, http.StatusBadRequest, "email parameter is required")
		return
	}

	result := h.verifier.Check(r.Context(), address)
	writeJSON(w, http.StatusOK, map[string]any{
		"isValid": result.Status == service.VerifyValid,
		"message": result.Message,
	})
}

// formInput collects the registration fields from a posted form.
func formInput(r *http.Request) service.UserInput {
	return service.UserInput{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		DOB:     r.PostFormValue("dob"),
		Contact: r.PostFormValue("contact"),
		State:   r.PostFormValue("state"),
		Country: r.PostFormValue("country"),
	}
}

// displayMessage strips the sentinel prefix from a service error so the
// page shows only the human-readable part.
func displayMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrInvalidInput, domain.ErrEmailRejected} {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			return rest
		}
	}
	if errors.Is(err, domain.ErrDuplicateEmail) {
		return "This email address is already registered."
	}
	return msg
}
