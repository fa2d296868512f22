package seed

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/pointsrummy/internal/dependencies/clock"
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/storage"
)

// PasswordHasher hashes demo passwords the same way registration does
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// DemoAccount describes one account created on an empty store
type DemoAccount struct {
	Name          string
	Email         string
	Password      string
	Role          model.Role
	Coins         int
	GamesPlayed   int
	GamesWon      int
	TotalEarnings int
	JoinedAgo     time.Duration
}

// DemoAccounts are the admin and player logins advertised on the home page
var DemoAccounts = []DemoAccount{
	{
		Name:     "Admin User",
		Email:    "admin@demo.com",
		Password: "admin123",
		Role:     model.RoleAdmin,
		Coins:    10000,
	},
	{
		Name:          "Demo Player",
		Email:         "player@demo.com",
		Password:      "player123",
		Role:          model.RolePlayer,
		Coins:         1000,
		GamesPlayed:   15,
		GamesWon:      8,
		TotalEarnings: 2500,
		JoinedAgo:     30 * 24 * time.Hour,
	},
}

// Service seeds demo data
type Service struct {
	storage storage.Storage
	hasher  PasswordHasher
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new seed Service
func New(storage storage.Storage, hasher PasswordHasher, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		hasher:  hasher,
		clock:   clock,
		logger:  logger.With("component", "seed"),
	}
}

// SeedIfEmpty creates the demo accounts when no users exist yet.
// It reports whether anything was created.
func (s *Service) SeedIfEmpty(ctx context.Context) (bool, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	if len(users) > 0 {
		return false, nil
	}

	now := s.clock.Now()
	for _, account := range DemoAccounts {
		hash, err := s.hasher.HashPassword(account.Password)
		if err != nil {
			return false, err
		}

		joined := now.Add(-account.JoinedAgo)
		user := &model.User{
			ID:            model.UserID(uuid.NewString()),
			Name:          account.Name,
			Email:         account.Email,
			PasswordHash:  hash,
			Role:          account.Role,
			Coins:         account.Coins,
			GamesPlayed:   account.GamesPlayed,
			GamesWon:      account.GamesWon,
			TotalEarnings: account.TotalEarnings,
			JoinedAt:      joined,
			UpdatedAt:     now,
		}
		if err := s.storage.SaveUser(ctx, user); err != nil {
			return false, err
		}
		s.logger.Info("seeded demo account", "email", user.Email, "role", user.Role)
	}
	return true, nil
}
