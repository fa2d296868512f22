package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pointsrummy/internal/api/handler"
	"github.com/mcoot/pointsrummy/internal/api/middleware"
	"github.com/mcoot/pointsrummy/internal/dependencies/clock"
	sharedmw "github.com/mcoot/pointsrummy/internal/middleware"
	"github.com/mcoot/pointsrummy/internal/services/auth"
	"github.com/mcoot/pointsrummy/internal/services/dashboard"
	"github.com/mcoot/pointsrummy/internal/services/ledger"
	"github.com/mcoot/pointsrummy/internal/services/round"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	Clock            clock.Clock
	AuthService      *auth.Service
	LedgerService    *ledger.Service
	DashboardService *dashboard.Service
	RoundController  *round.Controller
}

// RegisterRoutes mounts the API under /api/v1 on an existing router
func RegisterRoutes(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.LedgerService, cfg.DashboardService)
	roundHandler := handler.NewRoundHandler(cfg.RoundController, cfg.Clock)
	adminHandler := handler.NewAdminHandler(cfg.DashboardService, cfg.LedgerService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for registering/logging in)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/me/dashboard", playerHandler.Dashboard).Methods(http.MethodGet)
	playerProtected.HandleFunc("/me/ledger", playerHandler.Ledger).Methods(http.MethodGet)

	// Round routes (all require auth)
	rounds := api.PathPrefix("/rounds").Subrouter()
	rounds.Use(authMiddleware)
	rounds.HandleFunc("", roundHandler.Start).Methods(http.MethodPost)
	rounds.HandleFunc("/current", roundHandler.Get).Methods(http.MethodGet)
	rounds.HandleFunc("/current", roundHandler.Abandon).Methods(http.MethodDelete)
	rounds.HandleFunc("/current/draw", roundHandler.Draw).Methods(http.MethodPost)
	rounds.HandleFunc("/current/discard", roundHandler.Discard).Methods(http.MethodPost)
	rounds.HandleFunc("/current/end-turn", roundHandler.EndTurn).Methods(http.MethodPost)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware)
	admin.Use(middleware.AdminOnly)
	admin.HandleFunc("/overview", adminHandler.Overview).Methods(http.MethodGet)
	admin.HandleFunc("/players", adminHandler.Players).Methods(http.MethodGet)
	admin.HandleFunc("/players/{id}/give", adminHandler.Give).Methods(http.MethodPost)
	admin.HandleFunc("/players/{id}/take", adminHandler.Take).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	RegisterRoutes(r, cfg)
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
