package opponent

import (
	"github.com/mcoot/pointsrummy/internal/dependencies/random"
	"github.com/mcoot/pointsrummy/internal/model"
)

// CoinFlipStrategy declares on an unweighted coin flip, ignoring the cards
type CoinFlipStrategy struct {
	random random.Random
}

// NewCoinFlipStrategy creates a new CoinFlipStrategy
func NewCoinFlipStrategy(rnd random.Random) *CoinFlipStrategy {
	return &CoinFlipStrategy{random: rnd}
}

// Declares returns the result of a coin flip
func (s *CoinFlipStrategy) Declares(round *model.Round) bool {
	return s.random.CoinFlip()
}
