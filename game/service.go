package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"holdem-gameserver/logging"
	"holdem-gameserver/poker"
	"holdem-gameserver/timer"
)

var serviceLogger = logging.GetZeroLogger("game::service", nil)

// ServiceConfig carries the delays the service uses to drive games
// forward without player input.
type ServiceConfig struct {
	ActionTime       time.Duration
	NextHandDelay    time.Duration
	FastForwardDelay time.Duration
}

// GameService owns every table. It serializes all mutation per game id
// with a lock, persists the aggregate through the store after each
// mutation, and fans out events and state updates fire-and-forget.
type GameService struct {
	store     PersistenceStore
	publisher EventPublisher
	sink      NotificationSink
	scheduler *timer.Scheduler
	config    ServiceConfig

	mu        sync.Mutex
	gameLocks map[string]*sync.Mutex
	// the action timer key armed per game, if any
	actionKeys map[string]timer.Key
}

func NewGameService(store PersistenceStore, publisher EventPublisher, sink NotificationSink, scheduler *timer.Scheduler, config ServiceConfig) *GameService {
	return &GameService{
		store:      store,
		publisher:  publisher,
		sink:       sink,
		scheduler:  scheduler,
		config:     config,
		gameLocks:  make(map[string]*sync.Mutex),
		actionKeys: make(map[string]timer.Key),
	}
}

func (s *GameService) lockGame(gameID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.gameLocks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		s.gameLocks[gameID] = lock
	}
	return lock
}

// withGame runs one mutation under the game's lock: load, mutate, save.
// A mutation error leaves the stored game untouched. After a successful
// save the events are published and timers are re-armed.
func (s *GameService) withGame(gameID string, mutate func(*Game) ([]DomainEvent, error)) error {
	lock := s.lockGame(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := s.store.Load(gameID)
	if err != nil {
		return err
	}
	events, err := mutate(game)
	if err != nil {
		return err
	}
	if err := s.store.Save(game); err != nil {
		return errors.Wrapf(err, "saving game %s", gameID)
	}
	s.afterMutation(game, events)
	return nil
}

// CreateGame creates a new table in WAITING and returns it.
func (s *GameService) CreateGame(config GameConfig) (*Game, error) {
	if config.SmallBlind <= 0 || config.BigBlind <= config.SmallBlind {
		return nil, errors.Wrapf(ErrInvalidConfig, "sb=%d bb=%d", config.SmallBlind, config.BigBlind)
	}
	game := NewGame(uuid.NewString(), config)
	if err := s.store.Save(game); err != nil {
		return nil, errors.Wrapf(err, "saving new game %s", game.ID)
	}
	serviceLogger.Info().
		Str(logging.GameIDKey, game.ID).
		Msgf("Game created sb=%d bb=%d maxPlayers=%d", game.SmallBlind, game.BigBlind, game.MaxPlayers)
	return game, nil
}

// EndGame removes the table and stops its timers.
func (s *GameService) EndGame(gameID string) error {
	lock := s.lockGame(gameID)
	lock.Lock()
	defer lock.Unlock()

	s.scheduler.CancelGame(gameID)
	s.mu.Lock()
	delete(s.actionKeys, gameID)
	// a goroutine still waiting on the old lock finds the game gone
	delete(s.gameLocks, gameID)
	s.mu.Unlock()
	return s.store.Remove(gameID)
}

func (s *GameService) Join(gameID string, playerID uint64, name string, buyIn int64) error {
	return s.withGame(gameID, func(g *Game) ([]DomainEvent, error) {
		return g.join(playerID, name, buyIn)
	})
}

// StartHand begins a new hand with a freshly shuffled deck.
func (s *GameService) StartHand(gameID string) error {
	return s.StartHandWithDeck(gameID, nil)
}

// StartHandWithDeck begins a new hand with the given deck. Scripted
// tests use this to force known cards; a nil deck means shuffled.
func (s *GameService) StartHandWithDeck(gameID string, deck *poker.Deck) error {
	return s.withGame(gameID, func(g *Game) ([]DomainEvent, error) {
		events, err := g.startHand(deck)
		if err != nil {
			return nil, err
		}
		s.notifyHoleCards(g)
		return events, nil
	})
}

// Act applies one player action. The kind only decides fold intent; the
// engine derives the concrete action from the amount.
func (s *GameService) Act(gameID string, playerID uint64, kind ActionKind, amount int64) error {
	return s.withGame(gameID, func(g *Game) ([]DomainEvent, error) {
		return g.applyAction(playerID, kind, amount, false)
	})
}

func (s *GameService) Leave(gameID string, playerID uint64) error {
	return s.withGame(gameID, func(g *Game) ([]DomainEvent, error) {
		return g.leave(playerID)
	})
}

func (s *GameService) SitOut(gameID string, playerID uint64) error {
	return s.withGame(gameID, func(g *Game) ([]DomainEvent, error) {
		return g.sitOut(playerID)
	})
}

func (s *GameService) SitIn(gameID string, playerID uint64) error {
	return s.withGame(gameID, func(g *Game) ([]DomainEvent, error) {
		return nil, g.sitIn(playerID)
	})
}

// GameView returns the sanitized table view, plus the viewer's own hole
// cards when they are seated in the running hand.
func (s *GameService) GameView(gameID string, viewerID uint64) (*GameUpdate, error) {
	lock := s.lockGame(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := s.store.Load(gameID)
	if err != nil {
		return nil, err
	}
	update := &GameUpdate{Type: "GAME_STATE", Table: game.View()}
	if player := game.PlayerByID(viewerID); player != nil {
		update.HoleCards = player.HoleCards
	}
	return update, nil
}

// afterMutation runs while still holding the game lock: it fans the
// events and the sanitized state out to subscribers and re-arms the
// timers that drive the game forward.
func (s *GameService) afterMutation(g *Game, events []DomainEvent) {
	for _, event := range events {
		s.publisher.Publish(event)
	}
	s.sink.Broadcast(g.ID, &GameUpdate{Type: "GAME_UPDATE", Table: g.View()})
	s.armTimers(g)
}

func (s *GameService) notifyHoleCards(g *Game) {
	for _, p := range g.Players {
		if !p.Active {
			continue
		}
		s.sink.NotifyPlayer(g.ID, p.ID, &GameUpdate{Type: "HOLE_CARDS", HoleCards: p.HoleCards})
	}
}

// armTimers reconciles the scheduler with the game state: an action
// timer while a seat has the turn, a fast-forward timer during the
// all-in run-out, and a next-hand timer between hands.
func (s *GameService) armTimers(g *Game) {
	s.cancelActionTimer(g.ID)

	switch {
	case g.Status.IsBetting() && g.CurrentTurn >= 0:
		player := g.Players[g.CurrentTurn]
		key := timer.Key{GameID: g.ID, PlayerID: player.ID, Purpose: timer.PurposeAction}
		s.mu.Lock()
		s.actionKeys[g.ID] = key
		s.mu.Unlock()
		s.scheduler.Schedule(key, s.config.ActionTime, s.handleActionTimeout)

	case g.Status.IsBetting() && g.AllInSequence:
		key := timer.Key{GameID: g.ID, Purpose: timer.PurposeFastForward}
		s.scheduler.Schedule(key, s.config.FastForwardDelay, s.handleFastForward)

	case g.Status == GameStatusWaiting && g.CanStartHand():
		key := timer.Key{GameID: g.ID, Purpose: timer.PurposeNextHand}
		s.scheduler.Schedule(key, s.config.NextHandDelay, s.handleNextHand)
	}
}

func (s *GameService) cancelActionTimer(gameID string) {
	s.mu.Lock()
	key, ok := s.actionKeys[gameID]
	if ok {
		delete(s.actionKeys, gameID)
	}
	s.mu.Unlock()
	if ok {
		s.scheduler.Cancel(key)
	}
}

// handleActionTimeout acts for a player whose clock ran out: check when
// no chips are owed, fold otherwise. The turn is re-validated under the
// game lock since the deadline may have raced a real action.
func (s *GameService) handleActionTimeout(key timer.Key) {
	err := s.withGame(key.GameID, func(g *Game) ([]DomainEvent, error) {
		if !g.Status.IsBetting() || g.CurrentTurn < 0 {
			return nil, nil
		}
		player := g.Players[g.CurrentTurn]
		if player.ID != key.PlayerID {
			return nil, nil
		}

		serviceLogger.Info().
			Str(logging.GameIDKey, g.ID).
			Uint64(logging.PlayerIDKey, player.ID).
			Msg("Action timed out")

		if g.Round.betOf(player.ID) == g.CurrentBet {
			return g.applyAction(player.ID, ActionCheck, 0, true)
		}
		return g.applyAction(player.ID, ActionFold, 0, true)
	})
	if err != nil {
		serviceLogger.Error().Err(err).
			Str(logging.GameIDKey, key.GameID).
			Msg("Could not apply timeout action")
	}
}

// handleFastForward deals the next street of the all-in run-out.
func (s *GameService) handleFastForward(key timer.Key) {
	err := s.withGame(key.GameID, func(g *Game) ([]DomainEvent, error) {
		if !g.AllInSequence {
			return nil, nil
		}
		return g.advanceAllInStreet()
	})
	if err != nil {
		serviceLogger.Error().Err(err).
			Str(logging.GameIDKey, key.GameID).
			Msg("Could not advance all-in board")
	}
}

// handleNextHand starts the next hand once the between-hands pause ends.
func (s *GameService) handleNextHand(key timer.Key) {
	err := s.withGame(key.GameID, func(g *Game) ([]DomainEvent, error) {
		if !g.CanStartHand() {
			return nil, nil
		}
		events, err := g.startHand(nil)
		if err != nil {
			return nil, err
		}
		s.notifyHoleCards(g)
		return events, nil
	})
	if err != nil {
		serviceLogger.Error().Err(err).
			Str(logging.GameIDKey, key.GameID).
			Msg("Could not start next hand")
	}
}
