package model

// Suit is one of the four card suit symbols
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Suits lists every suit in deck order
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Ranks lists every face value in deck order
var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Card is a single playing card. Cards are immutable values.
type Card struct {
	Suit Suit
	Rank string
}

// ID returns the card identifier in the form "suit-rank"
func (c Card) ID() string {
	return string(c.Suit) + "-" + c.Rank
}

// IsRed returns true for hearts and diamonds
func (c Card) IsRed() bool {
	return c.Suit == Hearts || c.Suit == Diamonds
}

// IsValid returns true if the card has a known suit and rank
func (c Card) IsValid() bool {
	suitOK := false
	for _, s := range Suits {
		if s == c.Suit {
			suitOK = true
			break
		}
	}
	if !suitOK {
		return false
	}
	for _, r := range Ranks {
		if r == c.Rank {
			return true
		}
	}
	return false
}

// FindCard returns the index of the card with the given ID, or -1
func FindCard(cards []Card, id string) int {
	for i, c := range cards {
		if c.ID() == id {
			return i
		}
	}
	return -1
}
