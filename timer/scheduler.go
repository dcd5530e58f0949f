package timer

import (
	"fmt"
	"sync"
	"time"

	"holdem-gameserver/logging"
)

var timerLogger = logging.GetZeroLogger("timer::scheduler", nil)

// Purpose identifies why a timer was scheduled.
type Purpose int

const (
	PurposeAction Purpose = iota
	PurposeNextHand
	PurposeFastForward
)

var purposeName = map[Purpose]string{
	PurposeAction:      "ACTION",
	PurposeNextHand:    "NEXT_HAND",
	PurposeFastForward: "FAST_FORWARD",
}

func (p Purpose) String() string {
	return purposeName[p]
}

// Key identifies one timer: a game, an optional player, and a purpose.
// Scheduling on a key replaces any timer already running on it.
type Key struct {
	GameID   string
	PlayerID uint64
	Purpose  Purpose
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%d|%s", k.GameID, k.PlayerID, k.Purpose)
}

// Scheduler tracks one pending timer per key. Callbacks fire on their
// own goroutine; they are expected to re-validate game state under the
// game's lock, since the deadline may have raced a player action.
type Scheduler struct {
	mu     sync.Mutex
	timers map[Key]*time.Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[Key]*time.Timer)}
}

// Schedule arms a timer for the key, replacing any pending one.
func (s *Scheduler) Schedule(key Key, after time.Duration, fire func(Key)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.timers[key]; ok {
		existing.Stop()
	}
	timerLogger.Debug().
		Str(logging.GameIDKey, key.GameID).
		Uint64(logging.PlayerIDKey, key.PlayerID).
		Str(logging.TimerPurposeKey, key.Purpose.String()).
		Msgf("Timer armed for %s", after)
	s.timers[key] = time.AfterFunc(after, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()
		fire(key)
	})
}

// Cancel stops the pending timer for the key. Canceling a key with no
// timer is a no-op; the timer may have fired already.
func (s *Scheduler) Cancel(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.timers[key]; ok {
		existing.Stop()
		delete(s.timers, key)
	}
}

// CancelGame stops every pending timer belonging to the game.
func (s *Scheduler) CancelGame(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.timers {
		if key.GameID == gameID {
			t.Stop()
			delete(s.timers, key)
		}
	}
}

// Pending reports whether a timer is armed for the key.
func (s *Scheduler) Pending(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}
