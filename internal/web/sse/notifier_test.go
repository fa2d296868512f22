package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/testutil"
)

func receive(t *testing.T, client *Client) string {
	t.Helper()
	select {
	case msg := <-client.send:
		return string(msg)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
		return ""
	}
}

func decodeData(t *testing.T, msg string) eventMessage {
	t.Helper()
	var data string
	for _, line := range strings.Split(msg, "\n") {
		if rest, ok := strings.CutPrefix(line, "data: "); ok {
			data += rest
		}
	}
	var out eventMessage
	require.NoError(t, json.Unmarshal([]byte(data), &out))
	return out
}

func TestNotifier_DeliversToOwner(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	owner := manager.Connect("user-1", "10.0.0.1:5000")
	defer manager.Disconnect(owner)
	other := manager.Connect("user-2", "10.0.0.2:5000")
	defer manager.Disconnect(other)

	notifier := NewNotifier(manager, testutil.NopLogger())
	notifier.Notify(model.Event{
		Type:      model.EventTurnChanged,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		UserID:    "user-1",
		RoundID:   "round-1",
		Payload: model.TurnChangedPayload{
			Turn:        model.TurnOpponent,
			TurnNumber:  3,
			SecondsLeft: 2,
			TimedOut:    true,
		},
	})

	msg := receive(t, owner)
	assert.True(t, strings.HasPrefix(msg, "event: turn_changed\n"))

	decoded := decodeData(t, msg)
	assert.Equal(t, "round-1", decoded.RoundID)
	assert.Equal(t, "opponent", decoded.Data["turn"])
	assert.EqualValues(t, 3, decoded.Data["turn_number"])
	assert.Equal(t, true, decoded.Data["timed_out"])

	assert.Empty(t, other.send)
}

func TestNotifier_NoHubIsNoop(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	notifier := NewNotifier(manager, testutil.NopLogger())

	notifier.Notify(model.Event{Type: model.EventCountdown, UserID: "nobody"})

	assert.Nil(t, manager.GetHub("nobody"))
}

func TestEncodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    map[string]any
	}{
		{
			name:    "card payload",
			payload: model.CardPayload{Card: model.Card{Suit: model.Hearts, Rank: "Q"}, HandSize: 14},
			want:    map[string]any{"card": "♥-Q", "hand_size": float64(14)},
		},
		{
			name:    "round ended payload",
			payload: model.RoundEndedPayload{State: model.RoundStateWon, Winnings: 90, Coins: 1040},
			want:    map[string]any{"state": "won", "winnings": float64(90), "coins": float64(1040)},
		},
		{
			name:    "countdown payload",
			payload: model.CountdownPayload{SecondsLeft: 12},
			want:    map[string]any{"seconds_left": float64(12)},
		},
		{
			name:    "no payload",
			payload: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := encodeEvent(model.Event{RoundID: "round-1", Payload: tt.payload})
			require.NoError(t, err)

			var decoded eventMessage
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, "round-1", decoded.RoundID)
			assert.Equal(t, tt.want, decoded.Data)
		})
	}
}
