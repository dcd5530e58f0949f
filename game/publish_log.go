package game

import "holdem-gameserver/logging"

var publishLogger = logging.GetZeroLogger("game::publish", nil)

// LogPublisher writes events to the log. It stands in for the NATS
// publisher when messaging is disabled.
type LogPublisher struct{}

func (LogPublisher) Publish(event DomainEvent) {
	publishLogger.Info().
		Str(logging.GameIDKey, event.EventGameID()).
		Msgf("Event %s", event.EventName())
}

// NopSink drops all notifications.
type NopSink struct{}

func (NopSink) Broadcast(gameID string, update *GameUpdate) {}

func (NopSink) NotifyPlayer(gameID string, playerID uint64, update *GameUpdate) {}
