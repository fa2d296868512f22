package components

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pointsrummy/internal/model"
)

func renderBoard(t *testing.T, data BoardData) *goquery.Document {
	t.Helper()
	var b strings.Builder
	require.NoError(t, Board(data).Render(context.Background(), &b))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	require.NoError(t, err)
	return doc
}

func TestBoardShowsTopDiscardAndHand(t *testing.T) {
	round := &model.Round{
		State:            model.RoundStatePlaying,
		Turn:             model.TurnPlayer,
		PlayerHand:       []model.Card{{Suit: model.Hearts, Rank: "A"}, {Suit: model.Spades, Rank: "10"}},
		OpponentHandSize: 13,
		DrawPile:         make([]model.Card, 25),
		DiscardPile:      []model.Card{{Suit: model.Diamonds, Rank: "K"}},
	}

	doc := renderBoard(t, BoardData{Round: round, SecondsLeft: 12, EntryFee: 50, CanAfford: true})

	assert.Equal(t, "K♦", strings.TrimSpace(doc.Find("#discard-pile .card").Text()))
	assert.True(t, doc.Find("#discard-pile .card").HasClass("red"))
	assert.Equal(t, 2, doc.Find("#hand .card-form").Length())
	assert.Equal(t, "12", doc.Find("#countdown").Text())
	assert.Equal(t, "25", doc.Find("#draw-pile .value").Text())
	val, _ := doc.Find("#hand input[name='card_id']").First().Attr("value")
	assert.Equal(t, "♥-A", val)
	assert.False(t, doc.Find("#hand button").Eq(1).HasClass("red"))
	_, disabled := doc.Find("#hand button").First().Attr("disabled")
	assert.False(t, disabled)
}

func TestBoardEmptyDiscardPile(t *testing.T) {
	round := &model.Round{State: model.RoundStatePlaying, Turn: model.TurnOpponent}

	doc := renderBoard(t, BoardData{Round: round})

	assert.Equal(t, 1, doc.Find("#discard-pile .empty").Length())
	assert.Equal(t, 0, doc.Find("#hand button").Length())
	assert.Equal(t, 0, doc.Find("form[action='/game/draw']").Length())
	assert.Contains(t, doc.Find("#round-status").Text(), "Opponent is thinking")
}

func TestBoardWithoutRoundOffersStart(t *testing.T) {
	doc := renderBoard(t, BoardData{EntryFee: 50})

	assert.Equal(t, 1, doc.Find(".no-round").Length())
	button := doc.Find("form[action='/game/start'] button")
	assert.Contains(t, button.Text(), "Start a round (50 coins)")
	_, disabled := button.Attr("disabled")
	assert.True(t, disabled)
}

func TestBoardFinishedRound(t *testing.T) {
	round := &model.Round{State: model.RoundStateWon, Turn: model.TurnPlayer, Winnings: 90}

	doc := renderBoard(t, BoardData{Round: round, CanAfford: true})

	assert.Contains(t, doc.Find(".result-won").Text(), "You won 90 coins!")
	assert.Equal(t, "won", doc.Find("#round-status").AttrOr("data-state", ""))
	assert.Equal(t, 1, doc.Find("a[href='/dashboard']").Length())
	assert.Equal(t, 0, doc.Find("form[action='/game/abandon']").Length())
	assert.Equal(t, 0, doc.Find("form[action='/game/draw']").Length())
}
