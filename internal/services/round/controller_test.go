package round

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pointsrummy/internal/dependencies/mocks"
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/deck"
	"github.com/mcoot/pointsrummy/internal/services/ledger"
	"github.com/mcoot/pointsrummy/internal/services/opponent"
	"github.com/mcoot/pointsrummy/internal/storage/memory"
	"github.com/mcoot/pointsrummy/internal/testutil"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.Event
}

func (n *recordingNotifier) Notify(event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []model.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]model.EventType, 0, len(n.events))
	for _, e := range n.events {
		types = append(types, e.Type)
	}
	return types
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	notifier   *recordingNotifier
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.notifier = &recordingNotifier{}
	s.ctx = context.Background()

	logger := testutil.NopLogger()
	s.controller = NewController(
		ledger.New(s.storage, s.clock, logger),
		deck.New(s.random),
		opponent.NewCoinFlipStrategy(s.random),
		s.clock,
		s.notifier,
		logger,
		DefaultConfig(),
	)

	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{
		ID:    "u1",
		Email: "alice@example.com",
		Role:  model.RolePlayer,
		Coins: 1000,
	}))
}

func (s *ControllerSuite) user() *model.User {
	user, err := s.storage.GetUser(s.ctx, "u1")
	s.Require().NoError(err)
	return user
}

// Start tests

func (s *ControllerSuite) TestStartDealsAndChargesFee() {
	round, err := s.controller.Start(s.ctx, "u1")
	s.Require().NoError(err)

	s.Equal(model.RoundStatePlaying, round.State)
	s.Equal(model.TurnPlayer, round.Turn)
	s.Len(round.PlayerHand, deck.HandSize)
	s.Equal(deck.HandSize, round.OpponentHandSize)
	s.Len(round.DrawPile, 25)
	s.Len(round.DiscardPile, 1)
	s.Equal(s.clock.Now().Add(30*time.Second), round.TurnDeadline)
	s.Equal(950, s.user().Coins)
	s.Equal([]model.EventType{model.EventRoundStarted}, s.notifier.types())
}

func (s *ControllerSuite) TestStartFailsWhenRoundInProgress() {
	_, _ = s.controller.Start(s.ctx, "u1")

	_, err := s.controller.Start(s.ctx, "u1")
	s.ErrorIs(err, model.ErrRoundInProgress)
	s.Equal(950, s.user().Coins)
}

func (s *ControllerSuite) TestStartFailsWithInsufficientCoins() {
	user := s.user()
	user.Coins = 49
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	_, err := s.controller.Start(s.ctx, "u1")
	s.ErrorIs(err, model.ErrInsufficientCoins)
	s.Equal(49, s.user().Coins)
	s.Equal(0, s.controller.ActiveRounds())
}

func (s *ControllerSuite) TestStartWithExactlyTheFee() {
	user := s.user()
	user.Coins = 50
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	_, err := s.controller.Start(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(0, s.user().Coins)
}

func (s *ControllerSuite) TestStartReplacesFinishedRound() {
	first, _ := s.controller.Start(s.ctx, "u1")
	_, _ = s.controller.Draw(s.ctx, "u1")
	_, err := s.controller.Discard(s.ctx, "u1", first.PlayerHand[0].ID())
	s.Require().NoError(err)

	second, err := s.controller.Start(s.ctx, "u1")
	s.Require().NoError(err)
	s.NotEqual(first.ID, second.ID)
}

// Get tests

func (s *ControllerSuite) TestGetReturnsCopy() {
	_, _ = s.controller.Start(s.ctx, "u1")

	round, err := s.controller.Get(s.ctx, "u1")
	s.Require().NoError(err)
	round.PlayerHand = nil

	again, _ := s.controller.Get(s.ctx, "u1")
	s.Len(again.PlayerHand, deck.HandSize)
}

func (s *ControllerSuite) TestGetWithoutRound() {
	_, err := s.controller.Get(s.ctx, "u1")
	s.ErrorIs(err, model.ErrRoundNotFound)
}

// Draw tests

func (s *ControllerSuite) TestDrawTakesTopCard() {
	started, _ := s.controller.Start(s.ctx, "u1")

	round, err := s.controller.Draw(s.ctx, "u1")
	s.Require().NoError(err)

	s.Len(round.PlayerHand, deck.HandSize+1)
	s.Equal(started.DrawPile[0], round.PlayerHand[deck.HandSize])
	s.Len(round.DrawPile, 24)
}

func (s *ControllerSuite) TestDrawFailsWhenPileEmpty() {
	_, _ = s.controller.Start(s.ctx, "u1")
	for i := 0; i < 25; i++ {
		_, err := s.controller.Draw(s.ctx, "u1")
		s.Require().NoError(err)
	}

	_, err := s.controller.Draw(s.ctx, "u1")
	s.ErrorIs(err, model.ErrDeckEmpty)
}

func (s *ControllerSuite) TestDrawFailsOnOpponentTurn() {
	_, _ = s.controller.Start(s.ctx, "u1")
	_, _ = s.controller.EndTurn(s.ctx, "u1")

	_, err := s.controller.Draw(s.ctx, "u1")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

// Discard tests

func (s *ControllerSuite) TestDiscardAfterDrawWins() {
	started, _ := s.controller.Start(s.ctx, "u1")
	_, _ = s.controller.Draw(s.ctx, "u1")

	discarded := started.PlayerHand[3]
	round, err := s.controller.Discard(s.ctx, "u1", discarded.ID())
	s.Require().NoError(err)

	s.Equal(model.RoundStateWon, round.State)
	s.Equal(90, round.Winnings)
	s.Equal(discarded, round.DiscardPile[0])
	s.Len(round.PlayerHand, deck.HandSize)

	user := s.user()
	s.Equal(1040, user.Coins)
	s.Equal(1, user.GamesPlayed)
	s.Equal(1, user.GamesWon)
	s.Equal(90, user.TotalEarnings)
	s.Equal(0, s.controller.ActiveRounds())
}

func (s *ControllerSuite) TestDiscardWithoutDrawEndsTurn() {
	started, _ := s.controller.Start(s.ctx, "u1")

	round, err := s.controller.Discard(s.ctx, "u1", started.PlayerHand[0].ID())
	s.Require().NoError(err)

	s.Equal(model.RoundStatePlaying, round.State)
	s.Equal(model.TurnOpponent, round.Turn)
	s.Len(round.PlayerHand, deck.HandSize-1)
	s.Equal(s.clock.Now().Add(2*time.Second), round.TurnDeadline)
}

func (s *ControllerSuite) TestDiscardUnknownCard() {
	_, _ = s.controller.Start(s.ctx, "u1")

	_, err := s.controller.Discard(s.ctx, "u1", "♠-Z")
	s.ErrorIs(err, model.ErrCardNotInHand)
}

func (s *ControllerSuite) TestDiscardAfterRoundOver() {
	started, _ := s.controller.Start(s.ctx, "u1")
	_, _ = s.controller.Draw(s.ctx, "u1")
	_, _ = s.controller.Discard(s.ctx, "u1", started.PlayerHand[0].ID())

	_, err := s.controller.Discard(s.ctx, "u1", started.PlayerHand[1].ID())
	s.ErrorIs(err, model.ErrRoundOver)
}

// Turn timer tests

func (s *ControllerSuite) TestTickBeforeDeadlineEmitsCountdown() {
	_, _ = s.controller.Start(s.ctx, "u1")
	s.clock.Advance(10 * time.Second)

	s.controller.Tick(s.ctx)

	round, _ := s.controller.Get(s.ctx, "u1")
	s.Equal(model.TurnPlayer, round.Turn)
	s.Contains(s.notifier.types(), model.EventCountdown)
}

func (s *ControllerSuite) TestTickExpiresPlayerTurn() {
	_, _ = s.controller.Start(s.ctx, "u1")
	s.clock.Advance(30 * time.Second)

	s.controller.Tick(s.ctx)

	round, _ := s.controller.Get(s.ctx, "u1")
	s.Equal(model.TurnOpponent, round.Turn)
	s.Equal(model.RoundStatePlaying, round.State)
}

func (s *ControllerSuite) TestOpponentDeclaresPlayerLoses() {
	_, _ = s.controller.Start(s.ctx, "u1")
	_, _ = s.controller.EndTurn(s.ctx, "u1")
	s.random.QueueCoinFlip(true)

	s.clock.Advance(2 * time.Second)
	s.controller.Tick(s.ctx)

	round, _ := s.controller.Get(s.ctx, "u1")
	s.Equal(model.RoundStateLost, round.State)
	s.Equal(0, round.Winnings)

	user := s.user()
	s.Equal(950, user.Coins)
	s.Equal(1, user.GamesPlayed)
	s.Equal(0, user.GamesWon)
	s.Contains(s.notifier.types(), model.EventRoundEnded)
}

func (s *ControllerSuite) TestOpponentPassesBackWithFreshTimer() {
	_, _ = s.controller.Start(s.ctx, "u1")
	_, _ = s.controller.EndTurn(s.ctx, "u1")
	s.random.QueueCoinFlip(false)

	s.clock.Advance(2 * time.Second)
	s.controller.Tick(s.ctx)

	round, _ := s.controller.Get(s.ctx, "u1")
	s.Equal(model.RoundStatePlaying, round.State)
	s.Equal(model.TurnPlayer, round.Turn)
	s.Equal(2, round.TurnNumber)
	s.Equal(30, round.SecondsLeft(s.clock.Now()))
}

func (s *ControllerSuite) TestOpponentWaitsForThinkTime() {
	_, _ = s.controller.Start(s.ctx, "u1")
	_, _ = s.controller.EndTurn(s.ctx, "u1")
	s.random.QueueCoinFlip(true)

	s.clock.Advance(time.Second)
	s.controller.Tick(s.ctx)

	round, _ := s.controller.Get(s.ctx, "u1")
	s.Equal(model.TurnOpponent, round.Turn)
	s.Equal(model.RoundStatePlaying, round.State)
}

func (s *ControllerSuite) TestEndTurnOnlyOnPlayerTurn() {
	_, _ = s.controller.Start(s.ctx, "u1")
	_, _ = s.controller.EndTurn(s.ctx, "u1")

	_, err := s.controller.EndTurn(s.ctx, "u1")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

// Abandon tests

func (s *ControllerSuite) TestAbandonKeepsFeeAndStats() {
	_, _ = s.controller.Start(s.ctx, "u1")

	err := s.controller.Abandon(s.ctx, "u1")
	s.Require().NoError(err)

	_, err = s.controller.Get(s.ctx, "u1")
	s.ErrorIs(err, model.ErrRoundNotFound)

	user := s.user()
	s.Equal(950, user.Coins)
	s.Equal(0, user.GamesPlayed)
}

func (s *ControllerSuite) TestAbandonWithoutRound() {
	err := s.controller.Abandon(s.ctx, "u1")
	s.ErrorIs(err, model.ErrRoundNotFound)
}

func (s *ControllerSuite) TestActiveRounds() {
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{ID: "u2", Email: "bob@example.com", Coins: 100}))
	_, _ = s.controller.Start(s.ctx, "u1")
	_, _ = s.controller.Start(s.ctx, "u2")
	s.Equal(2, s.controller.ActiveRounds())

	_ = s.controller.Abandon(s.ctx, "u2")
	s.Equal(1, s.controller.ActiveRounds())
}

func (s *ControllerSuite) TestRunStopsOnCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		s.controller.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("Run did not stop after cancel")
	}
}
