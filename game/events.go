package game

import (
	"time"

	"holdem-gameserver/poker"
)

// DomainEvent is a fact about a game that already happened. Events are
// handed to the EventPublisher fire-and-forget; payloads are sanitized
// and never include hole cards that have not been shown.
type DomainEvent interface {
	EventName() string
	EventGameID() string
	OccurredAt() time.Time
}

type BaseEvent struct {
	GameID    string    `json:"gameId"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventGameID() string   { return e.GameID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

func newBaseEvent(gameID string) BaseEvent {
	return BaseEvent{GameID: gameID, Timestamp: time.Now().UTC()}
}

type PlayerJoined struct {
	BaseEvent
	PlayerID uint64 `json:"playerId"`
	Name     string `json:"name"`
	SeatNo   int    `json:"seatNo"`
	Stack    int64  `json:"stack"`
}

func (PlayerJoined) EventName() string { return "PLAYER_JOINED" }

type GameStarted struct {
	BaseEvent
	HandNum       uint32 `json:"handNum"`
	DealerSeat    int    `json:"dealerSeat"`
	SmallBlindPos int    `json:"smallBlindPos"`
	BigBlindPos   int    `json:"bigBlindPos"`
	SmallBlind    int64  `json:"smallBlind"`
	BigBlind      int64  `json:"bigBlind"`
}

func (GameStarted) EventName() string { return "GAME_STARTED" }

type RoundStarted struct {
	BaseEvent
	HandNum uint32     `json:"handNum"`
	Status  GameStatus `json:"status"`
	Pot     int64      `json:"pot"`
}

func (RoundStarted) EventName() string { return "ROUND_STARTED" }

type PlayerActed struct {
	BaseEvent
	HandNum  uint32     `json:"handNum"`
	PlayerID uint64     `json:"playerId"`
	SeatNo   int        `json:"seatNo"`
	Action   ActionKind `json:"action"`
	Amount   int64      `json:"amount"`
	TimedOut bool       `json:"timedOut,omitempty"`
}

func (PlayerActed) EventName() string { return "PLAYER_ACTED" }

// CardsDealt announces new community cards. Hole cards are delivered
// only through NotificationSink.NotifyPlayer, never through events.
type CardsDealt struct {
	BaseEvent
	HandNum   uint32       `json:"handNum"`
	Status    GameStatus   `json:"status"`
	Community []poker.Card `json:"community"`
}

func (CardsDealt) EventName() string { return "CARDS_DEALT" }

// PotResult is one pot's outcome at the end of a hand.
type PotResult struct {
	Amount  int64       `json:"amount"`
	Winners []PotWinner `json:"winners"`
}

type PotWinner struct {
	PlayerID uint64 `json:"playerId"`
	SeatNo   int    `json:"seatNo"`
	Amount   int64  `json:"amount"`
}

// ShownHand is a hand revealed at showdown. Only non-folded players'
// cards appear here; folded hands stay private.
type ShownHand struct {
	PlayerID  uint64       `json:"playerId"`
	SeatNo    int          `json:"seatNo"`
	HoleCards []poker.Card `json:"holeCards"`
	Rank      string       `json:"rank"`
	BestCards []poker.Card `json:"bestCards"`
}

type GameEnded struct {
	BaseEvent
	HandNum    uint32      `json:"handNum"`
	WonBy      string      `json:"wonBy"` // "SHOWDOWN" or "FOLD"
	PotResults []PotResult `json:"potResults"`
	ShownHands []ShownHand `json:"shownHands,omitempty"`
}

func (GameEnded) EventName() string { return "GAME_ENDED" }

// EventPublisher receives domain events fire-and-forget. Publish errors
// are logged by the caller and never affect game state.
type EventPublisher interface {
	Publish(event DomainEvent)
}

// NotificationSink pushes state deltas to subscribers. Broadcast
// payloads must never include a player's hole cards; those go through
// NotifyPlayer to their owner only.
type NotificationSink interface {
	Broadcast(gameID string, update *GameUpdate)
	NotifyPlayer(gameID string, playerID uint64, update *GameUpdate)
}
