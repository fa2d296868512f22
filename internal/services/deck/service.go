package deck

import (
	"github.com/mcoot/pointsrummy/internal/dependencies/random"
	"github.com/mcoot/pointsrummy/internal/model"
)

// Deal sizes for a two-handed round
const (
	HandSize = 13
	DeckSize = 52
)

// Deal is the result of dealing a fresh shuffled deck
type Deal struct {
	PlayerHand   []model.Card
	OpponentHand []model.Card
	DrawPile     []model.Card // next card to draw first
	DiscardPile  []model.Card // single face-up card
}

// Service builds, shuffles and deals decks
type Service struct {
	random random.Random
}

// New creates a new deck Service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// NewDeck returns the 52 cards in suit-major order
func NewDeck() []model.Card {
	cards := make([]model.Card, 0, DeckSize)
	for _, suit := range model.Suits {
		for _, rank := range model.Ranks {
			cards = append(cards, model.Card{Suit: suit, Rank: rank})
		}
	}
	return cards
}

// Shuffle permutes cards in place using Fisher-Yates
func (s *Service) Shuffle(cards []model.Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := s.random.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Deal shuffles a fresh deck and splits it into hands and piles.
// The first discard is the last card of the shuffled deck.
func (s *Service) Deal() *Deal {
	cards := NewDeck()
	s.Shuffle(cards)

	last := len(cards) - 1
	return &Deal{
		PlayerHand:   append([]model.Card(nil), cards[:HandSize]...),
		OpponentHand: append([]model.Card(nil), cards[HandSize:2*HandSize]...),
		DrawPile:     append([]model.Card(nil), cards[2*HandSize:last]...),
		DiscardPile:  []model.Card{cards[last]},
	}
}
