package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users      map[model.UserID]*model.User
	emailIndex map[string]model.UserID
	ledger     map[model.UserID][]*model.LedgerEntry // oldest first
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:      make(map[model.UserID]*model.User),
		emailIndex: make(map[string]model.UserID),
		ledger:     make(map[model.UserID][]*model.LedgerEntry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.emailIndex[user.Email]; ok && owner != user.ID {
		return model.ErrEmailTaken
	}
	if existing, ok := s.users[user.ID]; ok && existing.Email != user.Email {
		delete(s.emailIndex, existing.Email)
	}

	stored := *user
	s.users[user.ID] = &stored
	s.emailIndex[user.Email] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	found := *s.users[id]
	return &found, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		found := *u
		users = append(users, &found)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].JoinedAt.Equal(users[j].JoinedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].JoinedAt.Before(users[j].JoinedAt)
	})
	return users, nil
}

// Ledger operations

func (s *Storage) AppendLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *entry
	s.ledger[entry.UserID] = append(s.ledger[entry.UserID], &stored)
	return nil
}

func (s *Storage) ListLedgerEntries(ctx context.Context, userID model.UserID, limit int) ([]*model.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.ledger[userID]
	n := len(entries)
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]*model.LedgerEntry, 0, n)
	for i := len(entries) - 1; i >= 0 && len(result) < n; i-- {
		found := *entries[i]
		result = append(result, &found)
	}
	return result, nil
}
