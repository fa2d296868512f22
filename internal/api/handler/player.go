package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/pointsrummy/internal/api/middleware"
	"github.com/mcoot/pointsrummy/internal/api/request"
	"github.com/mcoot/pointsrummy/internal/api/response"
	"github.com/mcoot/pointsrummy/internal/services/auth"
	"github.com/mcoot/pointsrummy/internal/services/dashboard"
	"github.com/mcoot/pointsrummy/internal/services/ledger"
)

// PlayerHandler handles account and dashboard endpoints
type PlayerHandler struct {
	authService      *auth.Service
	ledgerService    *ledger.Service
	dashboardService *dashboard.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service, ledgerService *ledger.Service, dashboardService *dashboard.Service) *PlayerHandler {
	return &PlayerHandler{
		authService:      authService,
		ledgerService:    ledgerService,
		dashboardService: dashboardService,
	}
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, user, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session, user))
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session, user))
}

// Logout handles POST /api/v1/players/logout
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session != nil {
		h.authService.Logout(session.Token)
	}
	response.NoContent(w)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// Dashboard handles GET /api/v1/players/me/dashboard
func (h *PlayerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	dash, err := h.dashboardService.PlayerDashboard(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DashboardFromService(dash))
}

// Ledger handles GET /api/v1/players/me/ledger?limit=N
func (h *PlayerHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := h.ledgerService.History(r.Context(), user.ID, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LedgerResponse{Entries: response.LedgerEntriesFromModel(entries)})
}
