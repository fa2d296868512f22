package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/pointsrummy/internal/dependencies/clock"
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/storage"
)

// DefaultHistoryLimit bounds History when the caller passes no limit
const DefaultHistoryLimit = 50

// Service owns every change to a user's coin balance and game statistics.
// Each change writes the user record and then appends a ledger entry.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	// mu serializes read-modify-write cycles on user records
	mu sync.Mutex
}

// New creates a new ledger Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With("component", "ledger"),
	}
}

// Credit adds coins to a user's balance
func (s *Service) Credit(ctx context.Context, userID model.UserID, amount int, kind model.LedgerKind, roundID model.RoundID) (*model.User, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}
	return s.apply(ctx, userID, kind, roundID, func(u *model.User) (int, error) {
		if !fits(u.Coins, amount) {
			return 0, model.ErrBalanceLimit
		}
		u.Coins += amount
		return amount, nil
	})
}

// Debit removes coins from a user's balance, failing if they cannot cover it
func (s *Service) Debit(ctx context.Context, userID model.UserID, amount int, kind model.LedgerKind, roundID model.RoundID) (*model.User, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}
	return s.apply(ctx, userID, kind, roundID, func(u *model.User) (int, error) {
		if u.Coins < amount {
			return 0, model.ErrInsufficientCoins
		}
		u.Coins -= amount
		return -amount, nil
	})
}

// AdminGrant gives coins to a user from the admin panel
func (s *Service) AdminGrant(ctx context.Context, userID model.UserID, amount int) (*model.User, error) {
	user, err := s.Credit(ctx, userID, amount, model.LedgerAdminGrant, "")
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin granted coins", "user_id", userID, "amount", amount, "balance", user.Coins)
	return user, nil
}

// AdminDeduct takes coins from a user. The balance never drops below zero;
// the ledger records only what was actually removed.
func (s *Service) AdminDeduct(ctx context.Context, userID model.UserID, amount int) (*model.User, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}
	user, err := s.apply(ctx, userID, model.LedgerAdminDeduct, "", func(u *model.User) (int, error) {
		taken := min(amount, u.Coins)
		u.Coins -= taken
		return -taken, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin deducted coins", "user_id", userID, "amount", amount, "balance", user.Coins)
	return user, nil
}

// RecordResult updates game statistics for a finished round and pays out
// any winnings into both the balance and cumulative earnings.
func (s *Service) RecordResult(ctx context.Context, userID model.UserID, roundID model.RoundID, won bool, winnings int) (*model.User, error) {
	if winnings < 0 {
		return nil, model.ErrInvalidAmount
	}
	return s.apply(ctx, userID, model.LedgerWinnings, roundID, func(u *model.User) (int, error) {
		if won && (!fits(u.Coins, winnings) || !fits(u.TotalEarnings, winnings)) {
			return 0, model.ErrBalanceLimit
		}
		u.GamesPlayed++
		if !won {
			return 0, nil
		}
		u.GamesWon++
		u.TotalEarnings += winnings
		u.Coins += winnings
		return winnings, nil
	})
}

// fits reports whether adding amount keeps total within MaxCoins
func fits(total, amount int) bool {
	return amount <= model.MaxCoins-total
}

// History returns a user's most recent ledger entries, newest first
func (s *Service) History(ctx context.Context, userID model.UserID, limit int) ([]*model.LedgerEntry, error) {
	if _, err := s.storage.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.storage.ListLedgerEntries(ctx, userID, limit)
}

// apply runs mutate against the stored user and persists the result.
// A ledger entry is appended whenever the balance changed.
func (s *Service) apply(ctx context.Context, userID model.UserID, kind model.LedgerKind, roundID model.RoundID, mutate func(*model.User) (int, error)) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	delta, err := mutate(user)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user.UpdatedAt = now
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	if delta != 0 {
		entry := &model.LedgerEntry{
			ID:           uuid.NewString(),
			UserID:       userID,
			Kind:         kind,
			Amount:       delta,
			BalanceAfter: user.Coins,
			RoundID:      roundID,
			CreatedAt:    now,
		}
		if err := s.storage.AppendLedgerEntry(ctx, entry); err != nil {
			return nil, fmt.Errorf("append ledger entry: %w", err)
		}
	}

	return user, nil
}
