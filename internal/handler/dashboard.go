package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kmareda/regdesk/internal/service"
	"github.com/kmareda/regdesk/internal/view"
)

// DashboardHandler serves the admin dashboard.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// HandleDashboard renders the aggregate charts. Any aggregation failure
// renders the error page; a half-populated dashboard is never shown.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Build(r.Context())
	if err != nil {
		slog.Error("build dashboard", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		view.ErrorPage("An unexpected error occurred.").Render(r.Context(), w)
		return
	}

	chartJSON, err := json.Marshal(stats)
	if err != nil {
		slog.Error("encode dashboard data", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		view.ErrorPage("An unexpected error occurred.").Render(r.Context(), w)
		return
	}

	view.DashboardPage(stats, string(chartJSON)).Render(r.Context(), w)
}
