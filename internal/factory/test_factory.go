package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pointsrummy/internal/dependencies/mocks"
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/auth"
	"github.com/mcoot/pointsrummy/internal/services/round"
	"github.com/mcoot/pointsrummy/internal/storage/memory"
	"github.com/mcoot/pointsrummy/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.Secret = "test-secret"
	authCfg.HashCost = bcrypt.MinCost

	app := newWithDependencies(store, mockClock, mockRandom, authCfg, round.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// RegisterPlayer registers a player and returns its session token and user
func (t *TestApp) RegisterPlayer(ctx context.Context, name, email string) (string, *model.User, error) {
	session, user, err := t.AuthService.Register(ctx, name, email, "password123")
	if err != nil {
		return "", nil, err
	}
	return session.Token, user, nil
}

// LoginAdmin seeds the demo accounts if needed and logs in as the demo admin
func (t *TestApp) LoginAdmin(ctx context.Context) (string, *model.User, error) {
	if _, err := t.SeedService.SeedIfEmpty(ctx); err != nil {
		return "", nil, err
	}
	session, user, err := t.AuthService.Login(ctx, "admin@demo.com", "admin123")
	if err != nil {
		return "", nil, err
	}
	return session.Token, user, nil
}

// AdvanceAndTick moves the mock clock forward and runs one round timer tick
func (t *TestApp) AdvanceAndTick(ctx context.Context, d time.Duration) {
	t.MockClock.Advance(d)
	t.RoundController.Tick(ctx)
}
