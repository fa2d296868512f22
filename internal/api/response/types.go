package response

import (
	"time"

	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/auth"
	"github.com/mcoot/pointsrummy/internal/services/dashboard"
)

// User represents a user in API responses
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Coins         int       `json:"coins"`
	GamesPlayed   int       `json:"games_played"`
	GamesWon      int       `json:"games_won"`
	TotalEarnings int       `json:"total_earnings"`
	WinRate       *int      `json:"win_rate"` // null until a game is played
	JoinedAt      time.Time `json:"joined_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	var winRate *int
	if rate, ok := u.WinRate(); ok {
		winRate = &rate
	}
	return User{
		ID:            string(u.ID),
		Name:          u.Name,
		Email:         u.Email,
		Role:          string(u.Role),
		Coins:         u.Coins,
		GamesPlayed:   u.GamesPlayed,
		GamesWon:      u.GamesWon,
		TotalEarnings: u.TotalEarnings,
		WinRate:       winRate,
		JoinedAt:      u.JoinedAt,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User      `json:"user"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session and its user
func AuthResponseFromSession(s *auth.Session, u *model.User) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(u),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Card represents a playing card
type Card struct {
	ID   string `json:"id"`
	Suit string `json:"suit"`
	Rank string `json:"rank"`
	Red  bool   `json:"red"`
}

// CardFromModel converts a model.Card
func CardFromModel(c model.Card) Card {
	return Card{
		ID:   c.ID(),
		Suit: string(c.Suit),
		Rank: c.Rank,
		Red:  c.IsRed(),
	}
}

// Round represents the player's view of their round. The draw pile and the
// opponent's hand are only ever shown as counts.
type Round struct {
	ID               string `json:"id"`
	State            string `json:"state"`
	Hand             []Card `json:"hand"`
	OpponentHandSize int    `json:"opponent_hand_size"`
	DrawPileSize     int    `json:"draw_pile_size"`
	TopDiscard       *Card  `json:"top_discard"`
	Turn             string `json:"turn"`
	TurnNumber       int    `json:"turn_number"`
	SecondsLeft      int    `json:"seconds_left"`
	EntryFee         int    `json:"entry_fee"`
	Winnings         int    `json:"winnings"`
}

// RoundFromModel converts a model.Round as seen at the given time
func RoundFromModel(r *model.Round, now time.Time) Round {
	hand := make([]Card, len(r.PlayerHand))
	for i, c := range r.PlayerHand {
		hand[i] = CardFromModel(c)
	}

	var top *Card
	if c, ok := r.TopDiscard(); ok {
		card := CardFromModel(c)
		top = &card
	}

	return Round{
		ID:               string(r.ID),
		State:            string(r.State),
		Hand:             hand,
		OpponentHandSize: r.OpponentHandSize,
		DrawPileSize:     len(r.DrawPile),
		TopDiscard:       top,
		Turn:             string(r.Turn),
		TurnNumber:       r.TurnNumber,
		SecondsLeft:      r.SecondsLeft(now),
		EntryFee:         r.EntryFee,
		Winnings:         r.Winnings,
	}
}

// LedgerEntry represents one balance change
type LedgerEntry struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Amount       int       `json:"amount"`
	BalanceAfter int       `json:"balance_after"`
	RoundID      string    `json:"round_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// LedgerEntriesFromModel converts ledger entries
func LedgerEntriesFromModel(entries []*model.LedgerEntry) []LedgerEntry {
	out := make([]LedgerEntry, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntry{
			ID:           e.ID,
			Kind:         string(e.Kind),
			Amount:       e.Amount,
			BalanceAfter: e.BalanceAfter,
			RoundID:      string(e.RoundID),
			CreatedAt:    e.CreatedAt,
		}
	}
	return out
}

// Dashboard represents the player dashboard
type Dashboard struct {
	User            User          `json:"user"`
	Coins           int           `json:"coins"`
	GamesPlayed     int           `json:"games_played"`
	GamesWon        int           `json:"games_won"`
	WinRate         int           `json:"win_rate"`
	TotalEarnings   int           `json:"total_earnings"`
	Level           int           `json:"level"`
	LevelProgress   int           `json:"level_progress"`
	WinsToNextLevel int           `json:"wins_to_next_level"`
	Tier            string        `json:"tier"`
	Recent          []LedgerEntry `json:"recent"`
}

// DashboardFromService converts a dashboard.PlayerDashboard
func DashboardFromService(d *dashboard.PlayerDashboard) Dashboard {
	return Dashboard{
		User:            UserFromModel(d.User),
		Coins:           d.Coins,
		GamesPlayed:     d.GamesPlayed,
		GamesWon:        d.GamesWon,
		WinRate:         d.WinRate,
		TotalEarnings:   d.TotalEarnings,
		Level:           d.Level,
		LevelProgress:   d.LevelProgress,
		WinsToNextLevel: d.WinsToNextLevel,
		Tier:            d.Tier,
		Recent:          LedgerEntriesFromModel(d.Recent),
	}
}

// AdminOverview represents the admin panel summary
type AdminOverview struct {
	TotalPlayers       int `json:"total_players"`
	CoinsInCirculation int `json:"coins_in_circulation"`
	ActiveRounds       int `json:"active_rounds"`
}

// AdminOverviewFromService converts a dashboard.AdminOverview
func AdminOverviewFromService(o *dashboard.AdminOverview) AdminOverview {
	return AdminOverview{
		TotalPlayers:       o.TotalPlayers,
		CoinsInCirculation: o.CoinsInCirculation,
		ActiveRounds:       o.ActiveRounds,
	}
}

// PlayerList is the admin list of players
type PlayerList struct {
	Players []User `json:"players"`
}

// PlayerListFromModel converts a slice of users
func PlayerListFromModel(users []*model.User) PlayerList {
	players := make([]User, len(users))
	for i, u := range users {
		players[i] = UserFromModel(u)
	}
	return PlayerList{Players: players}
}

// LedgerResponse wraps a user's ledger history
type LedgerResponse struct {
	Entries []LedgerEntry `json:"entries"`
}
