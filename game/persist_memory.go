package game

import (
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// MemoryStore keeps serialized games in process memory. Games are
// stored marshaled so Load always hands back an independent copy, the
// same isolation a remote store gives.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string][]byte)}
}

func (s *MemoryStore) Load(gameID string) (*Game, error) {
	s.mu.RLock()
	data, ok := s.games[gameID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}
	var game Game
	if err := jsoniter.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *MemoryStore) Save(game *Game) error {
	data, err := jsoniter.Marshal(game)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.games[game.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Remove(gameID string) error {
	s.mu.Lock()
	delete(s.games, gameID)
	s.mu.Unlock()
	return nil
}
