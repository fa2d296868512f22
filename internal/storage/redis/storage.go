package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

// SaveUser writes a user. The email index is claimed with SETNX before the
// record is written, so two users can never hold the same email.
func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	claimed, err := s.claimEmail(ctx, user.Email, user.ID)
	if err != nil {
		return err
	}

	var previousEmail string
	if existing, err := s.GetUser(ctx, user.ID); err == nil {
		previousEmail = existing.Email
	} else if !errors.Is(err, model.ErrUserNotFound) {
		s.releaseEmail(ctx, claimed, user.Email)
		return err
	}

	data, err := json.Marshal(user)
	if err != nil {
		s.releaseEmail(ctx, claimed, user.Email)
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.SAdd(ctx, usersIndexKey(), string(user.ID))
	if previousEmail != "" && previousEmail != user.Email {
		pipe.Del(ctx, emailIndexKey(previousEmail))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.releaseEmail(ctx, claimed, user.Email)
		return err
	}
	return nil
}

// claimEmail points the email index at id. It reports whether this call
// created the entry, and fails if another user already owns it.
func (s *Storage) claimEmail(ctx context.Context, email string, id model.UserID) (bool, error) {
	key := emailIndexKey(email)
	for range 3 {
		ok, err := s.client.SetNX(ctx, key, string(id), 0).Result()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}

		owner, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			// Released between SETNX and GET
			continue
		}
		if err != nil {
			return false, err
		}
		if model.UserID(owner) != id {
			return false, model.ErrEmailTaken
		}
		return false, nil
	}
	return false, model.ErrEmailTaken
}

// releaseEmail undoes a claim made by the failed save that created it
func (s *Storage) releaseEmail(ctx context.Context, claimed bool, email string) {
	if claimed {
		_ = s.client.Del(ctx, emailIndexKey(email)).Err()
	}
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	// Look up user ID from email index
	userID, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(userID))
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := s.client.SMembers(ctx, usersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(model.UserID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // index entry without a record
		}
		var user model.User
		if err := json.Unmarshal([]byte(str), &user); err != nil {
			return nil, err
		}
		users = append(users, &user)
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
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := ledgerKey(entry.UserID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	if s.cfg.MaxLedgerEntries > 0 {
		pipe.LTrim(ctx, key, 0, int64(s.cfg.MaxLedgerEntries-1))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListLedgerEntries(ctx context.Context, userID model.UserID, limit int) ([]*model.LedgerEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	values, err := s.client.LRange(ctx, ledgerKey(userID), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.LedgerEntry, 0, len(values))
	for _, v := range values {
		var entry model.LedgerEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
