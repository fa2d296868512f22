package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pointsrummy/internal/model"
)

type StoreSuite struct {
	suite.Suite
	path  string
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "rummy.db")
	store, err := Open(s.path)
	s.Require().NoError(err)
	s.store = store
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func newUser(id, email string, joined time.Time) *model.User {
	return &model.User{
		ID:           model.UserID(id),
		Name:         "User " + id,
		Email:        email,
		PasswordHash: "hash",
		Role:         model.RolePlayer,
		Coins:        1000,
		JoinedAt:     joined,
		UpdatedAt:    joined,
	}
}

func (s *StoreSuite) TestOpenRequiresPath() {
	_, err := Open("  ")
	s.Error(err)
}

func (s *StoreSuite) TestOpenCreatesMissingDirectories() {
	path := filepath.Join(s.T().TempDir(), "data", "nested", "rummy.db")

	store, err := Open(path)
	s.Require().NoError(err)
	defer func() { _ = store.Close() }()

	s.FileExists(path)
}

func (s *StoreSuite) TestSchemaAtLatestVersionAfterReopen() {
	s.Require().NoError(s.store.Close())
	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.store = reopened

	var version int
	var dirty bool
	err = s.store.sqlDB.QueryRow("SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty)
	s.Require().NoError(err)
	s.Equal(2, version)
	s.False(dirty)
}

func (s *StoreSuite) TestReopenKeepsData() {
	joined := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.SaveUser(s.ctx, newUser("u1", "alice@example.com", joined)))
	s.Require().NoError(s.store.Close())

	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.store = reopened

	user, err := s.store.GetUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("alice@example.com", user.Email)
	s.True(joined.Equal(user.JoinedAt))
}

func (s *StoreSuite) TestSaveAndGetUser() {
	user := newUser("u1", "alice@example.com", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	user.Role = model.RoleAdmin
	user.GamesPlayed = 15
	user.GamesWon = 8
	user.TotalEarnings = 2500

	s.Require().NoError(s.store.SaveUser(s.ctx, user))

	retrieved, err := s.store.GetUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, retrieved.Role)
	s.Equal(15, retrieved.GamesPlayed)
	s.Equal(8, retrieved.GamesWon)
	s.Equal(2500, retrieved.TotalEarnings)
}

func (s *StoreSuite) TestGetUserNotFound() {
	_, err := s.store.GetUser(s.ctx, "missing")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StoreSuite) TestGetUserByEmail() {
	_ = s.store.SaveUser(s.ctx, newUser("u1", "alice@example.com", time.Now()))

	user, err := s.store.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), user.ID)

	_, err = s.store.GetUserByEmail(s.ctx, "bob@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StoreSuite) TestSaveUserUpdatesExisting() {
	user := newUser("u1", "alice@example.com", time.Now())
	_ = s.store.SaveUser(s.ctx, user)

	user.Coins = 0
	s.Require().NoError(s.store.SaveUser(s.ctx, user))

	retrieved, _ := s.store.GetUser(s.ctx, "u1")
	s.Equal(0, retrieved.Coins)
}

func (s *StoreSuite) TestSaveUserRejectsDuplicateEmail() {
	_ = s.store.SaveUser(s.ctx, newUser("u1", "alice@example.com", time.Now()))

	err := s.store.SaveUser(s.ctx, newUser("u2", "alice@example.com", time.Now()))
	s.ErrorIs(err, model.ErrEmailTaken)
}

func (s *StoreSuite) TestListUsersOrderedByJoinTime() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = s.store.SaveUser(s.ctx, newUser("u2", "bob@example.com", base.Add(time.Hour)))
	_ = s.store.SaveUser(s.ctx, newUser("u1", "alice@example.com", base))

	users, err := s.store.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal(model.UserID("u1"), users[0].ID)
}

func (s *StoreSuite) TestLedgerNewestFirstWithLimit() {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, amount := range []int{1000, -50, 90} {
		err := s.store.AppendLedgerEntry(s.ctx, &model.LedgerEntry{
			ID:           string(rune('a' + i)),
			UserID:       "u1",
			Kind:         model.LedgerWinnings,
			Amount:       amount,
			BalanceAfter: 1000,
			RoundID:      "r1",
			CreatedAt:    now,
		})
		s.Require().NoError(err)
	}

	all, err := s.store.ListLedgerEntries(s.ctx, "u1", 0)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(90, all[0].Amount)
	s.Equal(model.RoundID("r1"), all[0].RoundID)

	limited, err := s.store.ListLedgerEntries(s.ctx, "u1", 1)
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Equal("c", limited[0].ID)
}
