package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pointsrummy/internal/dependencies/clock"
	"github.com/mcoot/pointsrummy/internal/services/auth"
	"github.com/mcoot/pointsrummy/internal/services/dashboard"
	"github.com/mcoot/pointsrummy/internal/services/ledger"
	"github.com/mcoot/pointsrummy/internal/services/round"
	"github.com/mcoot/pointsrummy/internal/web/handler"
	"github.com/mcoot/pointsrummy/internal/web/middleware"
	"github.com/mcoot/pointsrummy/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger           *slog.Logger
	Clock            clock.Clock
	AuthService      *auth.Service
	LedgerService    *ledger.Service
	DashboardService *dashboard.Service
	RoundController  *round.Controller
	HubManager       *sse.HubManager
	ShowDemoAccounts bool
	StaticDir        string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create SSE hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.ShowDemoAccounts)
	authHandler := handler.NewAuthHandler(cfg.AuthService, homeHandler)
	dashboardHandler := handler.NewDashboardHandler(cfg.DashboardService, cfg.RoundController.Config())
	gameHandler := handler.NewGameHandler(cfg.RoundController, cfg.Clock, hubManager, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.DashboardService, cfg.LedgerService)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Public routes (optional auth so signed-in users skip the forms)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	// Auth actions (no auth required)
	authRoutes := r.PathPrefix("/auth").Subrouter()
	authRoutes.Use(flashMiddleware)
	authRoutes.Use(optionalAuthMiddleware)
	authRoutes.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)

	protected.HandleFunc("/dashboard", dashboardHandler.View).Methods(http.MethodGet)

	// Game routes
	protected.HandleFunc("/game", gameHandler.View).Methods(http.MethodGet)
	protected.HandleFunc("/game/board", gameHandler.Board).Methods(http.MethodGet)
	protected.HandleFunc("/game/events", gameHandler.Events).Methods(http.MethodGet)
	protected.HandleFunc("/game/start", gameHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/game/draw", gameHandler.Draw).Methods(http.MethodPost)
	protected.HandleFunc("/game/discard", gameHandler.Discard).Methods(http.MethodPost)
	protected.HandleFunc("/game/end-turn", gameHandler.EndTurn).Methods(http.MethodPost)
	protected.HandleFunc("/game/abandon", gameHandler.Abandon).Methods(http.MethodPost)

	// Admin routes
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminOnly())
	admin.HandleFunc("", adminHandler.View).Methods(http.MethodGet)
	admin.HandleFunc("/players/{id}/coins", adminHandler.AdjustCoins).Methods(http.MethodPost)

	r.NotFoundHandler = flashMiddleware(optionalAuthMiddleware(http.HandlerFunc(handler.NotFound)))

	return r
}
