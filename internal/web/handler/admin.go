package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/pointsrummy/internal/api/apierr"
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/dashboard"
	"github.com/mcoot/pointsrummy/internal/services/ledger"
	"github.com/mcoot/pointsrummy/internal/web/middleware"
	"github.com/mcoot/pointsrummy/internal/web/templates/pages"
)

// AdminHandler renders the admin panel and applies coin adjustments
type AdminHandler struct {
	dashboardService *dashboard.Service
	ledgerService    *ledger.Service
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(dashboardService *dashboard.Service, ledgerService *ledger.Service) *AdminHandler {
	return &AdminHandler{
		dashboardService: dashboardService,
		ledgerService:    ledgerService,
	}
}

// View renders the overview and the player table
func (h *AdminHandler) View(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboardService.AdminOverview(r.Context())
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Could not load the overview")
		return
	}
	players, err := h.dashboardService.ListPlayers(r.Context())
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Could not load players")
		return
	}

	render(w, r, http.StatusOK, pages.Admin(pages.AdminData{
		PageData: pageData(r, "Admin"),
		Overview: overview,
		Players:  players,
	}))
}

// AdjustCoins gives or takes coins from a player depending on the action field
func (h *AdminHandler) AdjustCoins(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		redirect(w, r, "/admin")
		return
	}

	amount, err := strconv.Atoi(r.FormValue("amount"))
	if err != nil || amount <= 0 {
		middleware.SetFlash(w, "error", "Amount must be a positive number")
		redirect(w, r, "/admin")
		return
	}

	id := model.UserID(mux.Vars(r)["id"])
	var user *model.User
	switch r.FormValue("action") {
	case "give":
		user, err = h.ledgerService.AdminGrant(r.Context(), id, amount)
	case "take":
		user, err = h.ledgerService.AdminDeduct(r.Context(), id, amount)
	default:
		middleware.SetFlash(w, "error", "Unknown action")
		redirect(w, r, "/admin")
		return
	}
	if err != nil {
		middleware.SetFlash(w, "error", apierr.Message(err))
		redirect(w, r, "/admin")
		return
	}

	middleware.SetFlash(w, "success", user.Name+" now has "+strconv.Itoa(user.Coins)+" coins")
	redirect(w, r, "/admin")
}
