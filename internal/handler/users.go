package handler

import (
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kmareda/regdesk/internal/domain"
	"github.com/kmareda/regdesk/internal/service"
	"github.com/kmareda/regdesk/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

const listPageSize = 10

// UsersHandler serves the admin record management pages.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// HandleList renders one page of the user table.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	users, total, totalPages, err := h.users.List(r.Context(), page, listPageSize, "")
	if err != nil {
		slog.Error("list users", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		view.ErrorPage("An unexpected error occurred.").Render(r.Context(), w)
		return
	}
	if page < 1 {
		page = 1
	}
	view.UsersPage(users, page, totalPages, total).Render(r.Context(), w)
}

// HandleSearch patches the user table over SSE as the admin types. The
// query arrives as a datastar signal, not a form field.
func (h *UsersHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		Q string `json:"q"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		writeError(w, http.StatusBadRequest, "invalid signals")
		return
	}

	users, _, _, err := h.users.List(r.Context(), 1, listPageSize, signals.Q)
	if err != nil {
		slog.Error("search users", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(view.UsersTableFragment(users), datastar.WithSelectorID("users-table")); err != nil {
		slog.Error("patch users table", "error", err)
	}
}

// HandleCreateForm renders the admin create form.
func (h *UsersHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	view.CreatePage(view.FormValues{}, "").Render(r.Context(), w)
}

// HandleCreate processes the admin create form. Records created here go
// through the same deliverability check as public submissions.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in := formInput(r)
	values := view.FormValues{
		Name:    in.Name,
		Email:   in.Email,
		DOB:     in.DOB,
		Contact: in.Contact,
		State:   in.State,
		Country: in.Country,
	}

	if _, err := h.users.Submit(r.Context(), in); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput),
			errors.Is(err, domain.ErrEmailRejected),
			errors.Is(err, domain.ErrDuplicateEmail):
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.CreatePage(values, displayMessage(err)).Render(r.Context(), w)
		default:
			slog.Error("create user", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			view.ErrorPage("An unexpected error occurred.").Render(r.Context(), w)
		}
		return
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// HandleEditForm renders the edit form for one record. An unknown id sends
// the admin back to the list rather than erroring.
func (h *UsersHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Error("load user", "id", id, "error", err)
		}
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	view.EditPage(user, "").Render(r.Context(), w)
}

// HandleUpdate processes the edit form. A changed email goes back through
// the deliverability check before the record is saved.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	in := formInput(r)
	if _, err := h.users.Update(r.Context(), id, in, true); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.Redirect(w, r, "/users", http.StatusSeeOther)
		case errors.Is(err, domain.ErrInvalidInput),
			errors.Is(err, domain.ErrEmailRejected),
			errors.Is(err, domain.ErrDuplicateEmail):
			user, getErr := h.users.Get(r.Context(), id)
			if getErr != nil {
				http.Redirect(w, r, "/users", http.StatusSeeOther)
				return
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.EditPage(user, displayMessage(err)).Render(r.Context(), w)
		default:
			slog.Error("update user", "id", id, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			view.ErrorPage("An unexpected error occurred.").Render(r.Context(), w)
		}
		return
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// HandleDelete removes one record and returns to the list. Deleting an
// already-gone record is not an error.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err == nil {
		if err := h.users.Delete(r.Context(), id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			slog.Error("delete user", "id", id, "error", err)
		}
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// HandleDeleteAll wipes every record.
func (h *UsersHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteAll(r.Context()); err != nil {
		slog.Error("delete all users", "error", err)
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// HandleExport streams every record as a CSV attachment, one row at a
// time straight from the store.
func (h *UsersHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"name", "email", "dob", "contact", "state", "country", "createdAt", "validationStatus"})

	err := h.users.Each(r.Context(), func(u *domain.User) error {
		return cw.Write([]string{
			u.Name,
			u.Email,
			u.DOB.Format("2006-01-02"),
			u.Contact,
			u.State,
			u.Country,
			u.CreatedAt.UTC().Format(time.RFC3339),
			u.ValidationStatus,
		})
	})
	if err != nil {
		// Headers are already on the wire; log and cut the download short.
		slog.Error("stream CSV export", "error", err)
		return
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("write CSV export", "error", err)
	}
}
