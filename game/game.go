package game

import (
	"time"

	"holdem-gameserver/logging"
	"holdem-gameserver/poker"
)

var gameLogger = logging.GetZeroLogger("game::game", nil)

// BettingRound tracks the chips each player has committed in the
// current street.
type BettingRound struct {
	Bets     map[uint64]int64 `json:"bets"`
	Complete bool             `json:"complete"`
}

func newBettingRound() *BettingRound {
	return &BettingRound{Bets: make(map[uint64]int64)}
}

func (b *BettingRound) betOf(playerID uint64) int64 {
	return b.Bets[playerID]
}

func (b *BettingRound) add(playerID uint64, amount int64) {
	b.Bets[playerID] += amount
}

// Game is the aggregate root for one table. All mutation goes through
// the GameService, which serializes operations per game id.
type Game struct {
	ID         string `json:"id"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
	MaxPlayers int    `json:"maxPlayers"`

	Players   []*Player    `json:"players"` // ordered seat list
	Status    GameStatus   `json:"status"`
	HandNum   uint32       `json:"handNum"`
	Deck      *poker.Deck  `json:"deck,omitempty"`
	Community []poker.Card `json:"community,omitempty"`

	DealerPos     int `json:"dealerPos"`
	SmallBlindPos int `json:"smallBlindPos"`
	BigBlindPos   int `json:"bigBlindPos"`
	// CurrentTurn is the seat required to act, -1 when no action is
	// pending (between hands or during the all-in sequence).
	CurrentTurn int `json:"currentTurn"`

	CurrentBet   int64            `json:"currentBet"`
	Round        *BettingRound    `json:"round,omitempty"`
	Pots         []*Pot           `json:"pots,omitempty"`
	HandContribs map[uint64]int64 `json:"handContribs,omitempty"` // per-player total this hand

	// AllInSequence marks the staged board run-out: every remaining
	// player is all-in, so streets advance on the scheduler instead of
	// player input.
	AllInSequence bool `json:"allInSequence"`

	CreatedAt     time.Time `json:"createdAt"`
	HandStartedAt time.Time `json:"handStartedAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewGame creates a table in WAITING with no seats taken.
func NewGame(id string, config GameConfig) *Game {
	maxPlayers := config.MaxPlayers
	if maxPlayers <= 0 || maxPlayers > MaxSeats {
		maxPlayers = DefaultMaxPlayers
	}
	now := time.Now().UTC()
	return &Game{
		ID:          id,
		SmallBlind:  config.SmallBlind,
		BigBlind:    config.BigBlind,
		MaxPlayers:  maxPlayers,
		Status:      GameStatusWaiting,
		CurrentTurn: -1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (g *Game) seatOf(playerID uint64) (int, *Player) {
	for seat, player := range g.Players {
		if player.ID == playerID {
			return seat, player
		}
	}
	return -1, nil
}

// PlayerByID returns the seated player or nil.
func (g *Game) PlayerByID(playerID uint64) *Player {
	_, player := g.seatOf(playerID)
	return player
}

// nextSeat walks clockwise from the given seat and returns the first
// seat whose player satisfies ok, or -1 after a full cycle.
func (g *Game) nextSeat(from int, ok func(*Player) bool) int {
	n := len(g.Players)
	if n == 0 {
		return -1
	}
	seat := from
	for i := 0; i < n; i++ {
		seat = (seat + 1) % n
		if ok(g.Players[seat]) {
			return seat
		}
	}
	return -1
}

// nextActionSeat is the next seat clockwise from the given one that can
// still act: active, not folded, not all-in. Sitting-out and empty-hand
// players are never active.
func (g *Game) nextActionSeat(from int) int {
	return g.nextSeat(from, func(p *Player) bool { return p.CanAct() })
}

// countActive counts players still contesting the hand, all-in or not.
func (g *Game) countActive() int {
	count := 0
	for _, p := range g.Players {
		if p.Active {
			count++
		}
	}
	return count
}

func (g *Game) countCanAct() int {
	count := 0
	for _, p := range g.Players {
		if p.CanAct() {
			count++
		}
	}
	return count
}

// readyPlayers counts seats that would be dealt into a new hand.
func (g *Game) readyPlayers() int {
	count := 0
	for _, p := range g.Players {
		if !p.SittingOut && !p.Leaving && p.Stack >= g.BigBlind {
			count++
		}
	}
	return count
}

// CanStartHand reports whether a new hand could begin right now.
func (g *Game) CanStartHand() bool {
	return g.Status == GameStatusWaiting && g.readyPlayers() >= 2
}

func (g *Game) foldedSet() map[uint64]bool {
	folded := make(map[uint64]bool)
	for _, p := range g.Players {
		if p.Folded {
			folded[p.ID] = true
		}
	}
	return folded
}

// ChipsInPlay is the conserved total: stacks plus pots plus chips
// committed to the current street but not yet swept into a pot.
// Pots are recomputed from hand totals whenever a round closes, so
// between closes the round bets are already reflected in the pots.
func (g *Game) ChipsInPlay() int64 {
	var total int64
	for _, p := range g.Players {
		total += p.Stack
	}
	var contributed int64
	for _, amount := range g.HandContribs {
		contributed += amount
	}
	return total + contributed
}

func (g *Game) touch() {
	g.UpdatedAt = time.Now().UTC()
}
