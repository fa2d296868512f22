package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/pointsrummy/internal/dependencies/clock"
	"github.com/mcoot/pointsrummy/internal/dependencies/random"
	"github.com/mcoot/pointsrummy/internal/services/auth"
	"github.com/mcoot/pointsrummy/internal/services/dashboard"
	"github.com/mcoot/pointsrummy/internal/services/deck"
	"github.com/mcoot/pointsrummy/internal/services/ledger"
	"github.com/mcoot/pointsrummy/internal/services/opponent"
	"github.com/mcoot/pointsrummy/internal/services/round"
	"github.com/mcoot/pointsrummy/internal/services/seed"
	"github.com/mcoot/pointsrummy/internal/storage"
	"github.com/mcoot/pointsrummy/internal/storage/memory"
	redisstorage "github.com/mcoot/pointsrummy/internal/storage/redis"
	"github.com/mcoot/pointsrummy/internal/storage/sqlite"
	"github.com/mcoot/pointsrummy/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService      *auth.Service
	LedgerService    *ledger.Service
	DeckService      *deck.Service
	OpponentStrategy opponent.Strategy
	RoundController  *round.Controller
	DashboardService *dashboard.Service
	SeedService      *seed.Service
	HubManager       *sse.HubManager
	Notifier         *sse.Notifier
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// RoundConfig holds the round rules (optional)
	// If zero value, defaults to round.DefaultConfig()
	RoundConfig round.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	roundCfg := cfg.RoundConfig
	if roundCfg.EntryFee == 0 {
		roundCfg = round.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, authCfg, roundCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	roundCfg round.Config,
	logger *slog.Logger,
) *App {
	hubManager := sse.NewHubManager(logger)
	notifier := sse.NewNotifier(hubManager, logger)

	authService := auth.New(store, clk, logger, authCfg)
	ledgerService := ledger.New(store, clk, logger)
	deckService := deck.New(rnd)
	strategy := opponent.NewCoinFlipStrategy(rnd)
	roundController := round.NewController(ledgerService, deckService, strategy, clk, notifier, logger, roundCfg)
	dashboardService := dashboard.New(store, ledgerService, roundController)
	seedService := seed.New(store, authService, clk, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		AuthService:      authService,
		LedgerService:    ledgerService,
		DeckService:      deckService,
		OpponentStrategy: strategy,
		RoundController:  roundController,
		DashboardService: dashboardService,
		SeedService:      seedService,
		HubManager:       hubManager,
		Notifier:         notifier,
	}
}

// Close releases the storage backend if it holds external resources
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
