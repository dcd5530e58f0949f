package nats

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"holdem-gameserver/game"
	"holdem-gameserver/logging"
)

var natsLogger = logging.GetZeroLogger("nats::publisher", nil)

/**
Per-game subjects:
game.<id>.events          every domain event, as a typed envelope
game.<id>.updates         sanitized table state after each mutation
game.<id>.player.<pid>    private messages to one player (hole cards)

All publishes are fire-and-forget. A failed publish is logged and never
affects game state; subscribers can recover from GET /games/<id>.
*/

// Connect dials the NATS server.
func Connect(natsURL string) (*natsgo.Conn, error) {
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to nats server %s", natsURL)
	}
	return nc, nil
}

type eventEnvelope struct {
	Event   string      `json:"event"`
	GameID  string      `json:"gameId"`
	Payload interface{} `json:"payload"`
}

// EventPublisher publishes domain events to the game's event subject.
type EventPublisher struct {
	nc *natsgo.Conn
}

func NewEventPublisher(nc *natsgo.Conn) *EventPublisher {
	return &EventPublisher{nc: nc}
}

func (p *EventPublisher) Publish(event game.DomainEvent) {
	subject := fmt.Sprintf("game.%s.events", event.EventGameID())
	data, err := jsoniter.Marshal(eventEnvelope{
		Event:   event.EventName(),
		GameID:  event.EventGameID(),
		Payload: event,
	})
	if err != nil {
		natsLogger.Error().Err(err).
			Str(logging.GameIDKey, event.EventGameID()).
			Msgf("Could not marshal event %s", event.EventName())
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		natsLogger.Error().Err(err).
			Str(logging.GameIDKey, event.EventGameID()).
			Msgf("Could not publish event %s", event.EventName())
	}
}

// NotificationSink pushes state updates over NATS: broadcasts to the
// game's update subject, private messages to the player's own subject.
type NotificationSink struct {
	nc *natsgo.Conn
}

func NewNotificationSink(nc *natsgo.Conn) *NotificationSink {
	return &NotificationSink{nc: nc}
}

func (s *NotificationSink) Broadcast(gameID string, update *game.GameUpdate) {
	s.publish(fmt.Sprintf("game.%s.updates", gameID), gameID, update)
}

func (s *NotificationSink) NotifyPlayer(gameID string, playerID uint64, update *game.GameUpdate) {
	s.publish(fmt.Sprintf("game.%s.player.%d", gameID, playerID), gameID, update)
}

func (s *NotificationSink) publish(subject string, gameID string, update *game.GameUpdate) {
	data, err := jsoniter.Marshal(update)
	if err != nil {
		natsLogger.Error().Err(err).
			Str(logging.GameIDKey, gameID).
			Msgf("Could not marshal update %s", update.Type)
		return
	}
	if err := s.nc.Publish(subject, data); err != nil {
		natsLogger.Error().Err(err).
			Str(logging.GameIDKey, gameID).
			Msgf("Could not publish to %s", subject)
	}
}
