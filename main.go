package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"holdem-gameserver/game"
	"holdem-gameserver/logging"
	"holdem-gameserver/nats"
	"holdem-gameserver/rest"
	"holdem-gameserver/timer"
	"holdem-gameserver/util"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

// Each server instance owns its games, so a local read cache in front
// of redis is safe.
const gameCacheSize = 100000

func main() {
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	env := util.GameServerEnvironment

	var store game.PersistenceStore
	switch method := env.GetPersistMethod(); method {
	case "redis":
		if keyUUID := env.GetEncryptionKey(); keyUUID != "" {
			encrypted, err := game.NewEncryptedRedisStore(env.GetRedisAddr(), env.GetRedisPW(), env.GetRedisDB(), keyUUID)
			if err != nil {
				mainLogger.Fatal().Err(err).Msg("Invalid game encryption key")
			}
			store = encrypted
			mainLogger.Info().Msgf("Persisting encrypted games in redis at %s", env.GetRedisAddr())
		} else {
			store = game.NewRedisStore(env.GetRedisAddr(), env.GetRedisPW(), env.GetRedisDB())
			mainLogger.Info().Msgf("Persisting games in redis at %s", env.GetRedisAddr())
		}
		cached, err := game.NewCachedStore(store, gameCacheSize)
		if err != nil {
			mainLogger.Fatal().Err(err).Msg("Could not initialize game cache")
		}
		store = cached
	case "memory":
		store = game.NewMemoryStore()
		mainLogger.Info().Msg("Persisting games in memory")
	default:
		mainLogger.Fatal().Msgf("Unknown persist method %s", method)
	}

	hub := rest.NewHub()
	var publisher game.EventPublisher = game.LogPublisher{}
	var sink game.NotificationSink = hub
	if natsURL := env.GetNatsURL(); natsURL != "" {
		nc, err := nats.Connect(natsURL)
		if err != nil {
			mainLogger.Fatal().Err(err).Msgf("Could not connect to nats at %s", natsURL)
		}
		publisher = nats.NewEventPublisher(nc)
		sink = fanoutSink{hub, nats.NewNotificationSink(nc)}
		mainLogger.Info().Msgf("Publishing events to nats at %s", natsURL)
	}

	service := game.NewGameService(store, publisher, sink, timer.NewScheduler(), game.ServiceConfig{
		ActionTime:       env.GetActionTime(),
		NextHandDelay:    env.GetNextHandDelay(),
		FastForwardDelay: env.GetFastForwardDelay(),
	})

	addr := fmt.Sprintf(":%d", env.GetListenPort())
	mainLogger.Info().Msgf("Game server listening on %s", addr)
	server := rest.NewServer(service, hub)
	if err := server.Run(addr); err != nil {
		mainLogger.Fatal().Err(err).Msg("REST server exited")
	}
}

// fanoutSink delivers every notification to all underlying sinks.
type fanoutSink []game.NotificationSink

func (f fanoutSink) Broadcast(gameID string, update *game.GameUpdate) {
	for _, s := range f {
		s.Broadcast(gameID, update)
	}
}

func (f fanoutSink) NotifyPlayer(gameID string, playerID uint64, update *game.GameUpdate) {
	for _, s := range f {
		s.NotifyPlayer(gameID, playerID, update)
	}
}
