package game

import (
	lru "github.com/hashicorp/golang-lru"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// CachedStore keeps recently used games in an in-process LRU in front
// of a slower store. Entries are held as marshaled bytes so every Load
// hands out an independent copy.
type CachedStore struct {
	inner PersistenceStore
	cache *lru.Cache
}

func NewCachedStore(inner PersistenceStore, size int) (*CachedStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialize game cache")
	}
	return &CachedStore{
		inner: inner,
		cache: cache,
	}, nil
}

func (c *CachedStore) Load(gameID string) (*Game, error) {
	if v, ok := c.cache.Get(gameID); ok {
		game := &Game{}
		if err := jsoniter.Unmarshal(v.([]byte), game); err != nil {
			return nil, errors.Wrapf(err, "unmarshaling cached game %s", gameID)
		}
		return game, nil
	}
	game, err := c.inner.Load(gameID)
	if err != nil {
		return nil, err
	}
	if data, err := jsoniter.Marshal(game); err == nil {
		c.cache.Add(gameID, data)
	}
	return game, nil
}

func (c *CachedStore) Save(game *Game) error {
	if err := c.inner.Save(game); err != nil {
		return err
	}
	data, err := jsoniter.Marshal(game)
	if err != nil {
		return errors.Wrapf(err, "marshaling game %s", game.ID)
	}
	c.cache.Add(game.ID, data)
	return nil
}

func (c *CachedStore) Remove(gameID string) error {
	c.cache.Remove(gameID)
	return c.inner.Remove(gameID)
}
