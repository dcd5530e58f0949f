package game

import (
	"context"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"holdem-gameserver/encryption"
)

// RedisStore persists game aggregates in redis, one key per game.
// With an encryption key set the payloads are sealed at rest.
type RedisStore struct {
	rdclient      *redis.Client
	encryptionKey []byte
}

func NewRedisStore(redisAddr string, redisPW string, redisDB int) *RedisStore {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisStore{
		rdclient: rdclient,
	}
}

// NewEncryptedRedisStore persists games sealed with the server key,
// given as a UUID string.
func NewEncryptedRedisStore(redisAddr string, redisPW string, redisDB int, keyUUID string) (*RedisStore, error) {
	key, err := encryption.KeyFromUUIDStr(keyUUID)
	if err != nil {
		return nil, err
	}
	store := NewRedisStore(redisAddr, redisPW, redisDB)
	store.encryptionKey = key
	return store, nil
}

func gameKey(gameID string) string {
	return "game:" + gameID
}

func (r *RedisStore) Load(gameID string) (*Game, error) {
	data, err := r.rdclient.Get(context.Background(), gameKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, ErrGameNotFound
	} else if err != nil {
		return nil, errors.Wrapf(err, "loading game %s from redis", gameID)
	}
	if r.encryptionKey != nil {
		data, err = encryption.Decrypt(data, r.encryptionKey)
		if err != nil {
			return nil, errors.Wrapf(err, "decrypting game %s", gameID)
		}
	}
	game := &Game{}
	if err := jsoniter.Unmarshal(data, game); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling game %s", gameID)
	}
	return game, nil
}

func (r *RedisStore) Save(game *Game) error {
	data, err := jsoniter.Marshal(game)
	if err != nil {
		return errors.Wrapf(err, "marshaling game %s", game.ID)
	}
	if r.encryptionKey != nil {
		data, err = encryption.Encrypt(data, r.encryptionKey)
		if err != nil {
			return errors.Wrapf(err, "encrypting game %s", game.ID)
		}
	}
	return r.rdclient.Set(context.Background(), gameKey(game.ID), data, 0).Err()
}

func (r *RedisStore) Remove(gameID string) error {
	return r.rdclient.Del(context.Background(), gameKey(gameID)).Err()
}
