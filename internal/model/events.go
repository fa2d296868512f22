package model

import "time"

// EventType identifies the type of round event
type EventType string

const (
	EventRoundStarted  EventType = "round_started"
	EventCardDrawn     EventType = "card_drawn"
	EventCardDiscarded EventType = "card_discarded"
	EventTurnChanged   EventType = "turn_changed"
	EventRoundEnded    EventType = "round_ended"
	EventCountdown     EventType = "countdown"
)

// Event describes something that happened in a user's round
type Event struct {
	Type      EventType
	Timestamp time.Time
	UserID    UserID
	RoundID   RoundID
	Payload   any // Type-specific data
}

// TurnChangedPayload contains data for turn changed events
type TurnChangedPayload struct {
	Turn        TurnOwner
	TurnNumber  int
	SecondsLeft int
	TimedOut    bool
}

// CardPayload contains data for card drawn and discarded events
type CardPayload struct {
	Card     Card
	HandSize int
}

// RoundEndedPayload contains data for round ended events
type RoundEndedPayload struct {
	State    RoundState
	Winnings int
	Coins    int
}

// CountdownPayload contains data for countdown events
type CountdownPayload struct {
	SecondsLeft int
}
