package components

import "github.com/mcoot/pointsrummy/internal/model"

// BoardData drives the game board fragment
type BoardData struct {
	Round       *model.Round
	SecondsLeft int
	EntryFee    int
	Winnings    int
	CanAfford   bool
}

// PlayerTurn reports whether the player may act
func (b BoardData) PlayerTurn() bool {
	return b.Round != nil && !b.Round.IsOver() && b.Round.Turn == model.TurnPlayer
}

// CanDiscard reports whether discard buttons should be enabled
func (b BoardData) CanDiscard() bool {
	return b.PlayerTurn() && len(b.Round.PlayerHand) > 0
}
