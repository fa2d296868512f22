package deck

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pointsrummy/internal/dependencies/mocks"
	"github.com/mcoot/pointsrummy/internal/dependencies/random"
	"github.com/mcoot/pointsrummy/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(s.random)
}

func (s *ServiceSuite) TestNewDeckHasEveryCardOnce() {
	cards := NewDeck()
	s.Len(cards, DeckSize)

	seen := make(map[string]bool)
	for _, c := range cards {
		s.True(c.IsValid(), c.ID())
		s.False(seen[c.ID()], "duplicate %s", c.ID())
		seen[c.ID()] = true
	}
}

func (s *ServiceSuite) TestNewDeckIsSuitMajor() {
	cards := NewDeck()
	s.Equal("♠-A", cards[0].ID())
	s.Equal("♠-K", cards[12].ID())
	s.Equal("♥-A", cards[13].ID())
	s.Equal("♣-K", cards[51].ID())
}

func (s *ServiceSuite) TestShuffleUsesRandomSwaps() {
	cards := []model.Card{
		{Suit: model.Spades, Rank: "A"},
		{Suit: model.Spades, Rank: "2"},
		{Suit: model.Spades, Rank: "3"},
	}
	// i=2 swaps with 0, i=1 swaps with 1
	s.random.QueueIntn(0, 1)

	s.service.Shuffle(cards)

	s.Equal("♠-3", cards[0].ID())
	s.Equal("♠-2", cards[1].ID())
	s.Equal("♠-A", cards[2].ID())
}

func (s *ServiceSuite) TestDealSizes() {
	deal := s.service.Deal()

	s.Len(deal.PlayerHand, HandSize)
	s.Len(deal.OpponentHand, HandSize)
	s.Len(deal.DrawPile, DeckSize-2*HandSize-1)
	s.Len(deal.DiscardPile, 1)
}

func (s *ServiceSuite) TestDealIsAPartitionOfTheDeck() {
	deal := New(random.New()).Deal()

	seen := make(map[string]bool)
	for _, pile := range [][]model.Card{deal.PlayerHand, deal.OpponentHand, deal.DrawPile, deal.DiscardPile} {
		for _, c := range pile {
			s.False(seen[c.ID()], "duplicate %s", c.ID())
			seen[c.ID()] = true
		}
	}
	s.Len(seen, DeckSize)
}
