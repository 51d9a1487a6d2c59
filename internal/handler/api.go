package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kmareda/regdesk/internal/domain"
	"github.com/kmareda/regdesk/internal/service"
)

const apiPageSize = 50

// APIHandler mirrors the admin CRUD over JSON. It sits behind the same
// session gate as the rendered pages.
type APIHandler struct {
	users *service.UserService
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(users *service.UserService) *APIHandler {
	return &APIHandler{users: users}
}

// HandleList returns one page of records.
func (h *APIHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = apiPageSize
	}

	users, total, totalPages, err := h.users.List(r.Context(), page, limit, q.Get("search"))
	if err != nil {
		slog.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if page < 1 {
		page = 1
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users":      toUserDTOs(users),
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
	})
}

// HandleGet returns one record by id.
func (h *APIHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Error("get user", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleCreate inserts a record. API creates skip the deliverability
// check; field validation still applies.
func (h *APIHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body userBody
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.users.Create(r.Context(), body.input())
	if err != nil {
		h.writeMutationError(w, err, "create user")
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// HandleUpdate applies a partial update. Absent fields keep their stored
// values.
func (h *APIHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var body userBody
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.users.Update(r.Context(), id, body.input(), false)
	if err != nil {
		h.writeMutationError(w, err, "update user")
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleDelete removes one record.
func (h *APIHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Error("delete user", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteAll wipes every record.
func (h *APIHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteAll(r.Context()); err != nil {
		slog.Error("delete all users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete users")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) writeMutationError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, displayMessage(err))
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already registered")
	default:
		slog.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
