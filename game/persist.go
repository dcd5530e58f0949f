package game

// PersistenceStore keeps game aggregates between operations. The
// GameService loads a game, mutates it under the game's lock, and
// saves it back before releasing the lock.
type PersistenceStore interface {
	Load(gameID string) (*Game, error)
	Save(game *Game) error
	Remove(gameID string) error
}
