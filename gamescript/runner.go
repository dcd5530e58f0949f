package gamescript

import (
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"holdem-gameserver/game"
	"holdem-gameserver/logging"
	"holdem-gameserver/timer"
)

var runnerLogger = logging.GetZeroLogger("gamescript::runner", nil)

const handTimeout = 5 * time.Second

// Runner plays one script against a fresh in-memory game server and
// verifies the outcome. The action clock is effectively disabled; the
// fast-forward delay is shortened so all-in run-outs finish quickly.
type Runner struct {
	script  *Script
	service *game.GameService
	capture *capturePublisher
	gameID  string
}

func NewRunner(script *Script) *Runner {
	capture := &capturePublisher{}
	service := game.NewGameService(
		game.NewMemoryStore(),
		capture,
		game.NopSink{},
		timer.NewScheduler(),
		game.ServiceConfig{
			ActionTime:       time.Hour,
			NextHandDelay:    time.Hour,
			FastForwardDelay: 2 * time.Millisecond,
		},
	)
	return &Runner{script: script, service: service, capture: capture}
}

// Run plays the scripted hand start to finish and checks the verify
// block. The returned error carries the first mismatch.
func (r *Runner) Run() error {
	defer func() {
		if r.gameID != "" {
			r.service.EndGame(r.gameID)
		}
	}()
	if err := r.setup(); err != nil {
		return err
	}
	if err := r.playHand(); err != nil {
		return err
	}
	return r.verify()
}

func (r *Runner) setup() error {
	g, err := r.service.CreateGame(game.GameConfig{
		SmallBlind: r.script.Game.SmallBlind,
		BigBlind:   r.script.Game.BigBlind,
		MaxPlayers: r.script.Game.MaxPlayers,
	})
	if err != nil {
		return err
	}
	r.gameID = g.ID
	for _, seat := range r.script.Seats {
		if err := r.service.Join(r.gameID, r.playerID(seat.Seat), seat.Player, seat.BuyIn); err != nil {
			return errors.Wrapf(err, "seating %s", seat.Player)
		}
	}
	return nil
}

func (r *Runner) playHand() error {
	deck := r.script.Deck(r.firstHandButton())
	if err := r.service.StartHandWithDeck(r.gameID, deck); err != nil {
		return err
	}
	for roundNum, round := range r.script.Hand.Rounds {
		for _, action := range round.Actions {
			kind := game.ParseActionKind(action.Action)
			if kind == game.ActionNone {
				return errors.Errorf("round %d: unknown action %q", roundNum, action.Action)
			}
			err := r.service.Act(r.gameID, r.playerID(action.Seat), kind, action.Amount)
			if err != nil {
				return errors.Wrapf(err, "round %d: seat %d %s %d", roundNum, action.Seat, action.Action, action.Amount)
			}
		}
	}
	return r.waitForHandEnd()
}

// waitForHandEnd polls for the GAME_ENDED event; the all-in run-out
// finishes on the scheduler, not on player actions.
func (r *Runner) waitForHandEnd() error {
	deadline := time.Now().Add(handTimeout)
	for time.Now().Before(deadline) {
		if r.capture.gameEnded() != nil {
			return nil
		}
		time.Sleep(5 * time.Millisecond)
	}
	return errors.New("hand did not finish in time")
}

func (r *Runner) verify() error {
	ended := r.capture.gameEnded()
	verify := r.script.Hand.Verify

	if verify.WonBy != "" && ended.WonBy != verify.WonBy {
		return errors.Errorf("won-by mismatch: expected %s actual %s", verify.WonBy, ended.WonBy)
	}

	if verify.Pots != nil {
		if len(ended.PotResults) != len(verify.Pots) {
			return errors.Errorf("expected %d pots, got %d", len(verify.Pots), len(ended.PotResults))
		}
		for i, expected := range verify.Pots {
			actual := ended.PotResults[i]
			if actual.Amount != expected.Amount {
				return errors.Errorf("pot %d amount mismatch: expected %d actual %d", i, expected.Amount, actual.Amount)
			}
			if err := matchWinners(expected.Winners, actual.Winners); err != nil {
				return errors.Wrapf(err, "pot %d", i)
			}
		}
	}

	if verify.Stacks != nil {
		update, err := r.service.GameView(r.gameID, 0)
		if err != nil {
			return err
		}
		for _, expected := range verify.Stacks {
			actual := update.Table.Seats[expected.Seat]
			if actual.Stack != expected.Stack {
				return errors.Errorf("seat %d stack mismatch: expected %d actual %d", expected.Seat, expected.Stack, actual.Stack)
			}
		}
	}

	runnerLogger.Info().Msgf("Script %s passed", r.script.Name)
	return nil
}

func matchWinners(expectedSeats []int, actual []game.PotWinner) error {
	actualSeats := make([]int, 0, len(actual))
	for _, w := range actual {
		actualSeats = append(actualSeats, w.SeatNo)
	}
	sort.Ints(actualSeats)
	expected := append([]int(nil), expectedSeats...)
	sort.Ints(expected)
	if len(expected) != len(actualSeats) {
		return errors.Errorf("expected winners %v, got %v", expected, actualSeats)
	}
	for i := range expected {
		if expected[i] != actualSeats[i] {
			return errors.Errorf("expected winners %v, got %v", expected, actualSeats)
		}
	}
	return nil
}

func (r *Runner) playerID(seat int) uint64 {
	return uint64(seat + 1)
}

// firstHandButton is where the button lands on the first hand: the
// rotation moves it off seat 0 to the next occupied seat.
func (r *Runner) firstHandButton() int {
	if len(r.script.Seats) > 1 {
		return 1
	}
	return 0
}

// capturePublisher records events so the runner can assert on them.
type capturePublisher struct {
	mu     sync.Mutex
	events []game.DomainEvent
}

func (c *capturePublisher) Publish(event game.DomainEvent) {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
}

func (c *capturePublisher) gameEnded() *game.GameEnded {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.events {
		if ended, ok := e.(game.GameEnded); ok {
			return &ended
		}
	}
	return nil
}
