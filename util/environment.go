package util

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type gameServerEnvironment struct {
	ListenPort       string
	PersistMethod    string
	RedisHost        string
	RedisPort        string
	RedisPW          string
	RedisDB          string
	NatsURL          string
	ActionTimeSec    string
	NextHandDelaySec string
	FastForwardSec   string
	EncryptionKey    string
}

// GameServerEnvironment is a helper object for accessing environment variables.
var GameServerEnvironment = &gameServerEnvironment{
	ListenPort:       "LISTEN_PORT",
	PersistMethod:    "PERSIST_METHOD",
	RedisHost:        "REDIS_HOST",
	RedisPort:        "REDIS_PORT",
	RedisPW:          "REDIS_PW",
	RedisDB:          "REDIS_DB",
	NatsURL:          "NATS_URL",
	ActionTimeSec:    "ACTION_TIME_SEC",
	NextHandDelaySec: "NEXT_HAND_DELAY_SEC",
	FastForwardSec:   "FAST_FORWARD_SEC",
	EncryptionKey:    "GAME_ENCRYPTION_KEY",
}

func (g *gameServerEnvironment) GetListenPort() int {
	portStr := os.Getenv(g.ListenPort)
	if portStr == "" {
		return 8080
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid listen port %s", portStr)
		return 8080
	}
	return portNum
}

// GetPersistMethod returns "memory" or "redis".
func (g *gameServerEnvironment) GetPersistMethod() string {
	method := os.Getenv(g.PersistMethod)
	if method == "" {
		return "memory"
	}
	return method
}

func (g *gameServerEnvironment) GetRedisAddr() string {
	host := os.Getenv(g.RedisHost)
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv(g.RedisPort)
	if port == "" {
		port = "6379"
	}
	return host + ":" + port
}

func (g *gameServerEnvironment) GetRedisPW() string {
	return os.Getenv(g.RedisPW)
}

func (g *gameServerEnvironment) GetRedisDB() int {
	dbStr := os.Getenv(g.RedisDB)
	if dbStr == "" {
		return 0
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid Redis db %s", dbStr)
		return 0
	}
	return dbNum
}

func (g *gameServerEnvironment) GetNatsURL() string {
	return os.Getenv(g.NatsURL)
}

// GetEncryptionKey returns the at-rest encryption key as a UUID
// string. Empty means encryption is disabled.
func (g *gameServerEnvironment) GetEncryptionKey() string {
	return os.Getenv(g.EncryptionKey)
}

func (g *gameServerEnvironment) getSeconds(key string, defaultSec int) time.Duration {
	str := os.Getenv(key)
	if str == "" {
		return time.Duration(defaultSec) * time.Second
	}
	sec, err := strconv.Atoi(str)
	if err != nil || sec <= 0 {
		environmentLogger.Error().Msgf("Invalid value %s for %s", str, key)
		return time.Duration(defaultSec) * time.Second
	}
	return time.Duration(sec) * time.Second
}

func (g *gameServerEnvironment) GetActionTime() time.Duration {
	return g.getSeconds(g.ActionTimeSec, 25)
}

func (g *gameServerEnvironment) GetNextHandDelay() time.Duration {
	return g.getSeconds(g.NextHandDelaySec, 5)
}

func (g *gameServerEnvironment) GetFastForwardDelay() time.Duration {
	return g.getSeconds(g.FastForwardSec, 2)
}
