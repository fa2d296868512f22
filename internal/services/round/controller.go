package round

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/pointsrummy/internal/dependencies/clock"
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/deck"
	"github.com/mcoot/pointsrummy/internal/services/ledger"
	"github.com/mcoot/pointsrummy/internal/services/opponent"
)

// Notifier receives round events as they happen
type Notifier interface {
	Notify(event model.Event)
}

// NopNotifier discards every event
type NopNotifier struct{}

// Notify implements Notifier
func (NopNotifier) Notify(model.Event) {}

// Config holds round rules and timing
type Config struct {
	EntryFee int
	// PayoutPercent of the entry fee is paid on a win, rounded down
	PayoutPercent     int
	TurnDuration      time.Duration
	OpponentThinkTime time.Duration
	TickInterval      time.Duration
}

// DefaultConfig returns the standard round rules
func DefaultConfig() Config {
	return Config{
		EntryFee:          50,
		PayoutPercent:     180,
		TurnDuration:      30 * time.Second,
		OpponentThinkTime: 2 * time.Second,
		TickInterval:      time.Second,
	}
}

// Winnings returns the payout for a winning round
func (c Config) Winnings() int {
	return c.EntryFee * c.PayoutPercent / 100
}

// Controller manages each user's single in-memory round and its turn timer
type Controller struct {
	ledger   *ledger.Service
	deck     *deck.Service
	strategy opponent.Strategy
	clock    clock.Clock
	notifier Notifier
	logger   *slog.Logger
	cfg      Config

	mu     sync.Mutex
	rounds map[model.UserID]*model.Round
}

// NewController creates a new round Controller
func NewController(
	ledgerService *ledger.Service,
	deckService *deck.Service,
	strategy opponent.Strategy,
	clock clock.Clock,
	notifier Notifier,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		ledger:   ledgerService,
		deck:     deckService,
		strategy: strategy,
		clock:    clock,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "round-controller")),
		cfg:      cfg,
		rounds:   make(map[model.UserID]*model.Round),
	}
}

// Config returns the rules this controller plays by
func (c *Controller) Config() Config {
	return c.cfg
}

// Start deducts the entry fee and deals a new round for the user.
// A finished round that was never dismissed is replaced.
func (c *Controller) Start(ctx context.Context, userID model.UserID) (*model.Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.rounds[userID]; ok && !existing.IsOver() {
		return nil, model.ErrRoundInProgress
	}

	roundID := model.RoundID(uuid.NewString())
	if _, err := c.ledger.Debit(ctx, userID, c.cfg.EntryFee, model.LedgerEntryFee, roundID); err != nil {
		return nil, err
	}

	deal := c.deck.Deal()
	now := c.clock.Now()
	round := &model.Round{
		ID:               roundID,
		UserID:           userID,
		State:            model.RoundStatePlaying,
		PlayerHand:       deal.PlayerHand,
		OpponentHandSize: len(deal.OpponentHand),
		DrawPile:         deal.DrawPile,
		DiscardPile:      deal.DiscardPile,
		Turn:             model.TurnPlayer,
		TurnNumber:       1,
		TurnDeadline:     now.Add(c.cfg.TurnDuration),
		EntryFee:         c.cfg.EntryFee,
		StartedAt:        now,
		UpdatedAt:        now,
	}
	c.rounds[userID] = round

	c.logger.Info("round started",
		slog.String("round_id", string(roundID)),
		slog.String("user_id", string(userID)),
		slog.Int("entry_fee", c.cfg.EntryFee),
	)
	c.publish(round, model.EventRoundStarted, c.turnPayload(round, false))

	return round.Clone(), nil
}

// Get returns a copy of the user's current round
func (c *Controller) Get(ctx context.Context, userID model.UserID) (*model.Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	round, ok := c.rounds[userID]
	if !ok {
		return nil, model.ErrRoundNotFound
	}
	return round.Clone(), nil
}

// Draw moves the top card of the draw pile into the player's hand
func (c *Controller) Draw(ctx context.Context, userID model.UserID) (*model.Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	round, err := c.playerTurn(userID)
	if err != nil {
		return nil, err
	}
	if len(round.DrawPile) == 0 {
		return nil, model.ErrDeckEmpty
	}

	card := round.DrawPile[0]
	round.DrawPile = round.DrawPile[1:]
	round.PlayerHand = append(round.PlayerHand, card)
	round.UpdatedAt = c.clock.Now()

	c.publish(round, model.EventCardDrawn, model.CardPayload{Card: card, HandSize: len(round.PlayerHand)})
	return round.Clone(), nil
}

// Discard moves a card from the player's hand onto the discard pile.
// Discarding from a full hand of 13 plus the drawn card wins the round;
// any other discard ends the player's turn.
func (c *Controller) Discard(ctx context.Context, userID model.UserID, cardID string) (*model.Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	round, err := c.playerTurn(userID)
	if err != nil {
		return nil, err
	}

	idx := model.FindCard(round.PlayerHand, cardID)
	if idx < 0 {
		return nil, model.ErrCardNotInHand
	}

	completesHand := len(round.PlayerHand) == deck.HandSize+1
	card := round.PlayerHand[idx]
	round.PlayerHand = append(round.PlayerHand[:idx], round.PlayerHand[idx+1:]...)
	round.DiscardPile = append([]model.Card{card}, round.DiscardPile...)
	round.UpdatedAt = c.clock.Now()

	c.publish(round, model.EventCardDiscarded, model.CardPayload{Card: card, HandSize: len(round.PlayerHand)})

	if completesHand {
		if err := c.settle(ctx, round, true); err != nil {
			return nil, err
		}
	} else {
		c.passToOpponent(round, false)
	}

	return round.Clone(), nil
}

// EndTurn hands the turn to the opponent without discarding
func (c *Controller) EndTurn(ctx context.Context, userID model.UserID) (*model.Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	round, err := c.playerTurn(userID)
	if err != nil {
		return nil, err
	}

	c.passToOpponent(round, false)
	return round.Clone(), nil
}

// Abandon throws away the user's round. The entry fee is not refunded
// and statistics are left untouched.
func (c *Controller) Abandon(ctx context.Context, userID model.UserID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	round, ok := c.rounds[userID]
	if !ok {
		return model.ErrRoundNotFound
	}
	delete(c.rounds, userID)

	if !round.IsOver() {
		round.State = model.RoundStateAbandoned
		round.EndedAt = c.clock.Now()
		c.logger.Info("round abandoned",
			slog.String("round_id", string(round.ID)),
			slog.String("user_id", string(userID)),
		)
		c.publish(round, model.EventRoundEnded, model.RoundEndedPayload{State: round.State})
	}
	return nil
}

// ActiveRounds returns the number of rounds still being played
func (c *Controller) ActiveRounds() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, round := range c.rounds {
		if !round.IsOver() {
			count++
		}
	}
	return count
}

// Tick advances every round whose turn deadline has passed.
// An expired player turn passes to the opponent; an expired opponent turn
// resolves the opponent's move.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	for _, round := range c.rounds {
		if round.IsOver() {
			continue
		}

		if now.Before(round.TurnDeadline) {
			if round.Turn == model.TurnPlayer {
				c.publish(round, model.EventCountdown, model.CountdownPayload{SecondsLeft: round.SecondsLeft(now)})
			}
			continue
		}

		switch round.Turn {
		case model.TurnPlayer:
			c.passToOpponent(round, true)
		case model.TurnOpponent:
			c.resolveOpponent(ctx, round)
		}
	}
}

// Run calls Tick on every interval until the context is cancelled
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

// playerTurn returns the live round if the player may act on it
func (c *Controller) playerTurn(userID model.UserID) (*model.Round, error) {
	round, ok := c.rounds[userID]
	if !ok {
		return nil, model.ErrRoundNotFound
	}
	if round.IsOver() {
		return nil, model.ErrRoundOver
	}
	if round.Turn != model.TurnPlayer {
		return nil, model.ErrNotYourTurn
	}
	return round, nil
}

func (c *Controller) passToOpponent(round *model.Round, timedOut bool) {
	now := c.clock.Now()
	round.Turn = model.TurnOpponent
	round.TurnDeadline = now.Add(c.cfg.OpponentThinkTime)
	round.UpdatedAt = now

	c.publish(round, model.EventTurnChanged, c.turnPayload(round, timedOut))
}

func (c *Controller) resolveOpponent(ctx context.Context, round *model.Round) {
	if c.strategy.Declares(round) {
		if err := c.settle(ctx, round, false); err != nil {
			c.logger.Error("failed to settle round",
				slog.String("round_id", string(round.ID)),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	now := c.clock.Now()
	round.Turn = model.TurnPlayer
	round.TurnNumber++
	round.TurnDeadline = now.Add(c.cfg.TurnDuration)
	round.UpdatedAt = now

	c.publish(round, model.EventTurnChanged, c.turnPayload(round, false))
}

// settle ends the round and records the result against the user
func (c *Controller) settle(ctx context.Context, round *model.Round, won bool) error {
	now := c.clock.Now()
	round.State = model.RoundStateLost
	round.Winnings = 0
	if won {
		round.State = model.RoundStateWon
		round.Winnings = c.cfg.Winnings()
	}
	round.EndedAt = now
	round.UpdatedAt = now

	user, err := c.ledger.RecordResult(ctx, round.UserID, round.ID, won, round.Winnings)
	if err != nil {
		return err
	}

	c.logger.Info("round ended",
		slog.String("round_id", string(round.ID)),
		slog.String("user_id", string(round.UserID)),
		slog.String("state", string(round.State)),
		slog.Int("winnings", round.Winnings),
	)
	c.publish(round, model.EventRoundEnded, model.RoundEndedPayload{
		State:    round.State,
		Winnings: round.Winnings,
		Coins:    user.Coins,
	})
	return nil
}

func (c *Controller) turnPayload(round *model.Round, timedOut bool) model.TurnChangedPayload {
	return model.TurnChangedPayload{
		Turn:        round.Turn,
		TurnNumber:  round.TurnNumber,
		SecondsLeft: round.SecondsLeft(c.clock.Now()),
		TimedOut:    timedOut,
	}
}

func (c *Controller) publish(round *model.Round, eventType model.EventType, payload any) {
	c.notifier.Notify(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		UserID:    round.UserID,
		RoundID:   round.ID,
		Payload:   payload,
	})
}
