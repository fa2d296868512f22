package handler

import (
	"net/http"

	"github.com/mcoot/pointsrummy/internal/services/dashboard"
	"github.com/mcoot/pointsrummy/internal/services/round"
	"github.com/mcoot/pointsrummy/internal/web/middleware"
	"github.com/mcoot/pointsrummy/internal/web/templates/pages"
)

// DashboardHandler renders the player dashboard
type DashboardHandler struct {
	dashboardService *dashboard.Service
	roundConfig      round.Config
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *dashboard.Service, roundConfig round.Config) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		roundConfig:      roundConfig,
	}
}

// View renders the dashboard for the signed-in user
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	stats, err := h.dashboardService.PlayerDashboard(r.Context(), user.ID)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Could not load your dashboard")
		return
	}

	render(w, r, http.StatusOK, pages.Dashboard(pages.DashboardData{
		PageData: pageData(r, "Dashboard"),
		Stats:    stats,
		EntryFee: h.roundConfig.EntryFee,
		Winnings: h.roundConfig.Winnings(),
	}))
}
