package game

import (
	"holdem-gameserver/poker"
)

// Player is a seated player. It is owned exclusively by its Game
// aggregate and never shared across games.
type Player struct {
	ID         uint64       `json:"id"`
	Name       string       `json:"name"`
	Stack      int64        `json:"stack"`
	HoleCards  []poker.Card `json:"holeCards,omitempty"`
	Active     bool         `json:"active"`     // dealt into the current hand and still contesting
	Folded     bool         `json:"folded"`
	AllIn      bool         `json:"allIn"`
	SittingOut bool         `json:"sittingOut"`
	Leaving    bool         `json:"leaving"` // seat is released when the hand ends
	LastAction ActionKind   `json:"lastAction"`
}

// CanAct reports whether the player can still take a betting action in
// the current hand.
func (p *Player) CanAct() bool {
	return p.Active && !p.Folded && !p.AllIn
}

// resetForHand clears the per-hand state. Dealt-in players become active.
func (p *Player) resetForHand(dealtIn bool) {
	p.HoleCards = nil
	p.Active = dealtIn
	p.Folded = false
	p.AllIn = false
	p.LastAction = ActionNone
}

func (p *Player) fold() {
	p.Folded = true
	p.Active = false
	p.LastAction = ActionFold
}
