package opponent

import "github.com/mcoot/pointsrummy/internal/model"

// Strategy decides the house opponent's move once the player's turn ends
type Strategy interface {
	// Declares reports whether the opponent completes its hand this turn,
	// which ends the round as a loss for the player.
	Declares(round *model.Round) bool
}
