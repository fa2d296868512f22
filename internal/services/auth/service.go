package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pointsrummy/internal/dependencies/clock"
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/storage"
)

// StartingCoins is the grant every newly registered player receives
const StartingCoins = 1000

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrEmailExists        = errors.New("email already exists")
	ErrMissingFields      = errors.New("name, email and password are required")
)

// Session represents an authenticated session. It holds only the user ID;
// the user record is always reloaded from storage.
type Session struct {
	Token     string
	ID        string // JWT ID, keys the server-side record
	UserID    model.UserID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles registration, login and session management
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	secret          []byte
	sessionDuration time.Duration
	hashCost        int
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	// Secret signs session tokens. A random secret is generated when empty,
	// which invalidates every token on restart.
	Secret string
	// HashCost is the bcrypt cost for password hashes
	HashCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		HashCost:        bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = DefaultConfig().HashCost
	}
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		logger:          logger.With("component", "auth"),
		sessions:        make(map[string]*Session),
		secret:          secret,
		sessionDuration: cfg.SessionDuration,
		hashCost:        cfg.HashCost,
	}
}

// Register creates a player account with the starting grant and opens a session
func (s *Service) Register(ctx context.Context, name, email, password string) (*Session, *model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, nil, ErrMissingFields
	}

	_, err := s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, nil, ErrEmailExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           model.UserID(uuid.NewString()),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RolePlayer,
		Coins:        StartingCoins,
		JoinedAt:     now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, nil, ErrEmailExists
		}
		return nil, nil, err
	}

	if err := s.storage.AppendLedgerEntry(ctx, &model.LedgerEntry{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Kind:         model.LedgerSignupBonus,
		Amount:       StartingCoins,
		BalanceAfter: user.Coins,
		CreatedAt:    now,
	}); err != nil {
		return nil, nil, fmt.Errorf("record signup bonus: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)

	session, err := s.createSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// Login authenticates by exact email and password and opens a session
func (s *Service) Login(ctx context.Context, email, password string) (*Session, *model.User, error) {
	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// HashPassword returns the bcrypt hash stored for a password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ValidateSession checks a session token and returns its session
func (s *Service) ValidateSession(token string) (*Session, error) {
	claims, err := s.parseToken(token, true)
	if err != nil {
		return nil, ErrInvalidSession
	}

	s.mu.RLock()
	session, ok := s.sessions[claims.ID]
	s.mu.RUnlock()

	if !ok || session.Token != token {
		return nil, ErrInvalidSession
	}

	if !s.clock.Now().Before(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, claims.ID)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// Logout removes the session behind a token. Unknown tokens are ignored.
func (s *Service) Logout(token string) {
	claims, err := s.parseToken(token, false)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.sessions, claims.ID)
	s.mu.Unlock()
}

// CurrentUser returns the freshly loaded user for a session token
func (s *Service) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	user, err := s.storage.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}

// ActiveSessions returns the number of live session records
func (s *Service) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// createSession signs a token for the user and records the session
func (s *Service) createSession(userID model.UserID) (*Session, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.sessionDuration)
	id := uuid.NewString()

	claims := jwt.RegisteredClaims{
		ID:        id,
		Subject:   string(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	session := &Session{
		Token:     token,
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

func (s *Service) parseToken(token string, validateClaims bool) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	}
	if !validateClaims {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
