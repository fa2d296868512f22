package model

import (
	"math"
	"time"
)

// UserID uniquely identifies a user across the system
type UserID string

// Role distinguishes administrators from players
type Role string

const (
	RoleAdmin  Role = "admin"
	RolePlayer Role = "player"
)

// Levelling constants for the player dashboard
const (
	WinsPerLevel          = 5
	IntermediateFromLevel = 10
	ExpertFromLevel       = 25
)

// MaxCoins caps any single balance
const MaxCoins = 1_000_000_000

// User is a registered account with its coin balance and game statistics
type User struct {
	ID            UserID
	Name          string
	Email         string // unique across users, checked at registration
	PasswordHash  string // bcrypt hash
	Role          Role
	Coins         int
	GamesPlayed   int
	GamesWon      int
	TotalEarnings int
	JoinedAt      time.Time
	UpdatedAt     time.Time
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// WinRate returns games won over games played as a rounded percentage.
// The second return value is false when no games have been played.
func (u *User) WinRate() (int, bool) {
	if u.GamesPlayed <= 0 {
		return 0, false
	}
	return int(math.Round(float64(u.GamesWon) / float64(u.GamesPlayed) * 100)), true
}

// Level returns the player level derived from games won
func (u *User) Level() int {
	return u.GamesWon/WinsPerLevel + 1
}

// LevelProgress returns the percentage progress towards the next level
func (u *User) LevelProgress() int {
	return (u.GamesWon % WinsPerLevel) * 100 / WinsPerLevel
}

// WinsToNextLevel returns how many more wins are needed to level up
func (u *User) WinsToNextLevel() int {
	return WinsPerLevel - u.GamesWon%WinsPerLevel
}

// Tier returns the display tier for the user's level
func (u *User) Tier() string {
	level := u.Level()
	switch {
	case level < IntermediateFromLevel:
		return "Beginner"
	case level < ExpertFromLevel:
		return "Intermediate"
	default:
		return "Expert"
	}
}
