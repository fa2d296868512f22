package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pointsrummy/internal/dependencies/mocks"
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/auth"
	"github.com/mcoot/pointsrummy/internal/storage/memory"
	"github.com/mcoot/pointsrummy/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	auth    *auth.Service
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.auth = auth.New(s.storage, s.clock, testutil.NopLogger(), auth.Config{HashCost: bcrypt.MinCost})
	s.service = New(s.storage, s.auth, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestSeedsDemoAccounts() {
	seeded, err := s.service.SeedIfEmpty(s.ctx)
	s.Require().NoError(err)
	s.True(seeded)

	admin, err := s.storage.GetUserByEmail(s.ctx, "admin@demo.com")
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, admin.Role)
	s.Equal(10000, admin.Coins)

	player, err := s.storage.GetUserByEmail(s.ctx, "player@demo.com")
	s.Require().NoError(err)
	s.Equal(model.RolePlayer, player.Role)
	s.Equal(1000, player.Coins)
	s.Equal(15, player.GamesPlayed)
	s.Equal(8, player.GamesWon)
	s.Equal(2500, player.TotalEarnings)
	s.Equal(s.clock.Now().Add(-30*24*time.Hour), player.JoinedAt)
}

func (s *ServiceSuite) TestDemoAccountsCanLogIn() {
	_, _ = s.service.SeedIfEmpty(s.ctx)

	_, user, err := s.auth.Login(s.ctx, "player@demo.com", "player123")
	s.Require().NoError(err)
	s.Equal("Demo Player", user.Name)

	_, _, err = s.auth.Login(s.ctx, "admin@demo.com", "admin123")
	s.NoError(err)
}

func (s *ServiceSuite) TestSkipsNonEmptyStore() {
	_, _, err := s.auth.Register(s.ctx, "Alice", "alice@example.com", "password123")
	s.Require().NoError(err)

	seeded, err := s.service.SeedIfEmpty(s.ctx)
	s.Require().NoError(err)
	s.False(seeded)

	_, err = s.storage.GetUserByEmail(s.ctx, "admin@demo.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ServiceSuite) TestSeedingTwiceIsIdempotent() {
	_, _ = s.service.SeedIfEmpty(s.ctx)
	seeded, err := s.service.SeedIfEmpty(s.ctx)
	s.Require().NoError(err)
	s.False(seeded)

	users, _ := s.storage.ListUsers(s.ctx)
	s.Len(users, 2)
}
