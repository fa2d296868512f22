package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
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
	}
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := newUser("u1", "alice@example.com", time.Now())

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(user.Email, retrieved.Email)
	s.Equal(1000, retrieved.Coins)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserReturnsCopy() {
	_ = s.storage.SaveUser(s.ctx, newUser("u1", "alice@example.com", time.Now()))

	retrieved, _ := s.storage.GetUser(s.ctx, "u1")
	retrieved.Coins = 0

	again, _ := s.storage.GetUser(s.ctx, "u1")
	s.Equal(1000, again.Coins)
}

func (s *StorageSuite) TestGetUserByEmail() {
	_ = s.storage.SaveUser(s.ctx, newUser("u1", "alice@example.com", time.Now()))

	retrieved, err := s.storage.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), retrieved.ID)
}

func (s *StorageSuite) TestGetUserByEmailIsExact() {
	_ = s.storage.SaveUser(s.ctx, newUser("u1", "alice@example.com", time.Now()))

	_, err := s.storage.GetUserByEmail(s.ctx, "ALICE@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestSaveUserRejectsEmailOfAnotherUser() {
	_ = s.storage.SaveUser(s.ctx, newUser("u1", "alice@example.com", time.Now()))

	err := s.storage.SaveUser(s.ctx, newUser("u2", "alice@example.com", time.Now()))
	s.ErrorIs(err, model.ErrEmailTaken)
}

func (s *StorageSuite) TestSaveUserUpdatesInPlace() {
	user := newUser("u1", "alice@example.com", time.Now())
	_ = s.storage.SaveUser(s.ctx, user)

	user.Coins = 40
	user.GamesPlayed = 1
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, _ := s.storage.GetUser(s.ctx, "u1")
	s.Equal(40, retrieved.Coins)
	s.Equal(1, retrieved.GamesPlayed)
}

func (s *StorageSuite) TestListUsersOrderedByJoinTime() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = s.storage.SaveUser(s.ctx, newUser("u2", "bob@example.com", base.Add(time.Hour)))
	_ = s.storage.SaveUser(s.ctx, newUser("u1", "alice@example.com", base))

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal(model.UserID("u1"), users[0].ID)
	s.Equal(model.UserID("u2"), users[1].ID)
}

// Ledger tests

func (s *StorageSuite) TestListLedgerEntriesNewestFirst() {
	for i, amount := range []int{1000, -50, 90} {
		err := s.storage.AppendLedgerEntry(s.ctx, &model.LedgerEntry{
			ID:     string(rune('a' + i)),
			UserID: "u1",
			Amount: amount,
		})
		s.Require().NoError(err)
	}

	entries, err := s.storage.ListLedgerEntries(s.ctx, "u1", 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(90, entries[0].Amount)
	s.Equal(1000, entries[2].Amount)
}

func (s *StorageSuite) TestListLedgerEntriesRespectsLimit() {
	for _, amount := range []int{1, 2, 3} {
		_ = s.storage.AppendLedgerEntry(s.ctx, &model.LedgerEntry{UserID: "u1", Amount: amount})
	}

	entries, err := s.storage.ListLedgerEntries(s.ctx, "u1", 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(3, entries[0].Amount)
	s.Equal(2, entries[1].Amount)
}

func (s *StorageSuite) TestListLedgerEntriesEmpty() {
	entries, err := s.storage.ListLedgerEntries(s.ctx, "nobody", 10)
	s.Require().NoError(err)
	s.Empty(entries)
}
