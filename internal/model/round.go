package model

import "time"

// RoundID uniquely identifies a round
type RoundID string

// RoundState represents the current phase of a round
type RoundState string

const (
	RoundStatePlaying   RoundState = "playing"
	RoundStateWon       RoundState = "won"
	RoundStateLost      RoundState = "lost"
	RoundStateAbandoned RoundState = "abandoned"
)

// TurnOwner identifies whose turn it is
type TurnOwner string

const (
	TurnPlayer   TurnOwner = "player"
	TurnOpponent TurnOwner = "opponent"
)

// Round is a single in-memory game of points rummy against the house opponent.
// Rounds are never written to storage.
type Round struct {
	ID     RoundID
	UserID UserID
	State  RoundState

	PlayerHand       []Card
	OpponentHandSize int    // opponent cards are never revealed
	DrawPile         []Card // next card to draw is DrawPile[0]
	DiscardPile      []Card // most recent discard is DiscardPile[0]

	Turn         TurnOwner
	TurnNumber   int
	TurnDeadline time.Time

	EntryFee  int
	Winnings  int
	StartedAt time.Time
	EndedAt   time.Time
	UpdatedAt time.Time
}

// IsOver returns true once the round has been decided or abandoned
func (r *Round) IsOver() bool {
	return r.State != RoundStatePlaying
}

// TopDiscard returns the most recently discarded card
func (r *Round) TopDiscard() (Card, bool) {
	if len(r.DiscardPile) == 0 {
		return Card{}, false
	}
	return r.DiscardPile[0], true
}

// SecondsLeft returns the whole seconds remaining before the turn deadline
func (r *Round) SecondsLeft(now time.Time) int {
	if r.IsOver() || !now.Before(r.TurnDeadline) {
		return 0
	}
	remaining := r.TurnDeadline.Sub(now)
	secs := int(remaining / time.Second)
	if remaining%time.Second != 0 {
		secs++
	}
	return secs
}

// Clone returns a deep copy of the round so callers cannot mutate live state
func (r *Round) Clone() *Round {
	c := *r
	c.PlayerHand = append([]Card(nil), r.PlayerHand...)
	c.DrawPile = append([]Card(nil), r.DrawPile...)
	c.DiscardPile = append([]Card(nil), r.DiscardPile...)
	return &c
}
