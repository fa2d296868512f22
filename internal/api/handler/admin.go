package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pointsrummy/internal/api/request"
	"github.com/mcoot/pointsrummy/internal/api/response"
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/dashboard"
	"github.com/mcoot/pointsrummy/internal/services/ledger"
)

// AdminHandler handles the admin panel endpoints
type AdminHandler struct {
	dashboardService *dashboard.Service
	ledgerService    *ledger.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(dashboardService *dashboard.Service, ledgerService *ledger.Service) *AdminHandler {
	return &AdminHandler{
		dashboardService: dashboardService,
		ledgerService:    ledgerService,
	}
}

// Overview handles GET /api/v1/admin/overview
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboardService.AdminOverview(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AdminOverviewFromService(overview))
}

// Players handles GET /api/v1/admin/players
func (h *AdminHandler) Players(w http.ResponseWriter, r *http.Request) {
	players, err := h.dashboardService.ListPlayers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerListFromModel(players))
}

// Give handles POST /api/v1/admin/players/{id}/give
func (h *AdminHandler) Give(w http.ResponseWriter, r *http.Request) {
	userID := model.UserID(mux.Vars(r)["id"])

	var req request.CoinAdjustmentRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.ledgerService.AdminGrant(r.Context(), userID, req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// Take handles POST /api/v1/admin/players/{id}/take
func (h *AdminHandler) Take(w http.ResponseWriter, r *http.Request) {
	userID := model.UserID(mux.Vars(r)["id"])

	var req request.CoinAdjustmentRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.ledgerService.AdminDeduct(r.Context(), userID, req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}
