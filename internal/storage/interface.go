package storage

import (
	"context"

	"github.com/mcoot/pointsrummy/internal/model"
)

// Storage defines the interface for data persistence.
// Rounds are transient and never pass through storage.
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)

	// Ledger operations
	AppendLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error
	// ListLedgerEntries returns up to limit entries for a user, newest first.
	// A limit of zero or less returns every entry.
	ListLedgerEntries(ctx context.Context, userID model.UserID, limit int) ([]*model.LedgerEntry, error)
}
