// Package sqlite provides a SQLite-backed storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/storage"
	"github.com/mcoot/pointsrummy/internal/storage/sqlite/migrations"
)

// Store persists users and their coin ledger in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrateUp(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveUser inserts or replaces one user record.
func (s *Store) SaveUser(ctx context.Context, user *model.User) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (
		   id, name, email, password_hash, role, coins,
		   games_played, games_won, total_earnings, joined_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   email = excluded.email,
		   password_hash = excluded.password_hash,
		   role = excluded.role,
		   coins = excluded.coins,
		   games_played = excluded.games_played,
		   games_won = excluded.games_won,
		   total_earnings = excluded.total_earnings,
		   updated_at = excluded.updated_at`,
		string(user.ID),
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Coins,
		user.GamesPlayed,
		user.GamesWon,
		user.TotalEarnings,
		toMillis(user.JoinedAt),
		toMillis(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

const userColumns = `id, name, email, password_hash, role, coins,
	games_played, games_won, total_earnings, joined_at, updated_at`

// GetUser loads one user by ID.
func (s *Store) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, string(id))
	return scanUser(row)
}

// GetUserByEmail loads one user by exact email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ListUsers returns every user ordered by join time.
func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY joined_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// AppendLedgerEntry inserts one ledger entry.
func (s *Store) AppendLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO ledger_entries (id, user_id, kind, amount, balance_after, round_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		string(entry.UserID),
		string(entry.Kind),
		entry.Amount,
		entry.BalanceAfter,
		string(entry.RoundID),
		toMillis(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ListLedgerEntries returns a user's ledger, newest first.
func (s *Store) ListLedgerEntries(ctx context.Context, userID model.UserID, limit int) ([]*model.LedgerEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, user_id, kind, amount, balance_after, round_id, created_at
		 FROM ledger_entries WHERE user_id = ? ORDER BY seq DESC LIMIT ?`,
		string(userID),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.LedgerEntry, 0)
	for rows.Next() {
		var (
			entry              model.LedgerEntry
			uid, kind, roundID string
			createdAt          int64
		)
		if err := rows.Scan(&entry.ID, &uid, &kind, &entry.Amount, &entry.BalanceAfter, &roundID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entry.UserID = model.UserID(uid)
		entry.Kind = model.LedgerKind(kind)
		entry.RoundID = model.RoundID(roundID)
		entry.CreatedAt = fromMillis(createdAt)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		user              model.User
		id, role          string
		joinedAt, updated int64
	)
	err := row.Scan(
		&id,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.Coins,
		&user.GamesPlayed,
		&user.GamesWon,
		&user.TotalEarnings,
		&joinedAt,
		&updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.ID = model.UserID(id)
	user.Role = model.Role(role)
	user.JoinedAt = fromMillis(joinedAt)
	user.UpdatedAt = fromMillis(updated)
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
