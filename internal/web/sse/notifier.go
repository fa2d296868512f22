package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/pointsrummy/internal/model"
)

// Notifier forwards round events to the SSE hub of the round's owner.
// Notify is called while the round controller holds its lock, so it only
// enqueues and never waits on a client.
type Notifier struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewNotifier creates a new Notifier
func NewNotifier(hubManager *HubManager, logger *slog.Logger) *Notifier {
	return &Notifier{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-notifier")),
	}
}

type eventMessage struct {
	RoundID   string         `json:"round_id"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Notify implements round.Notifier
func (n *Notifier) Notify(event model.Event) {
	hub := n.hubManager.GetHub(event.UserID)
	if hub == nil {
		return
	}

	data, err := encodeEvent(event)
	if err != nil {
		n.logger.Error("sse failed to encode event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), string(data))
}

func encodeEvent(event model.Event) ([]byte, error) {
	msg := eventMessage{
		RoundID:   string(event.RoundID),
		Timestamp: event.Timestamp,
	}

	switch p := event.Payload.(type) {
	case model.TurnChangedPayload:
		msg.Data = map[string]any{
			"turn":         string(p.Turn),
			"turn_number":  p.TurnNumber,
			"seconds_left": p.SecondsLeft,
			"timed_out":    p.TimedOut,
		}
	case model.CardPayload:
		msg.Data = map[string]any{
			"card":      p.Card.ID(),
			"hand_size": p.HandSize,
		}
	case model.RoundEndedPayload:
		msg.Data = map[string]any{
			"state":    string(p.State),
			"winnings": p.Winnings,
			"coins":    p.Coins,
		}
	case model.CountdownPayload:
		msg.Data = map[string]any{
			"seconds_left": p.SecondsLeft,
		}
	}

	return json.Marshal(msg)
}
