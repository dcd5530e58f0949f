package game

import (
	"time"

	"holdem-gameserver/poker"
)

// GameUpdate is the payload pushed to subscribers after a mutation.
// Broadcast updates carry no hole cards; the private variant sent
// through NotifyPlayer carries only the recipient's own.
type GameUpdate struct {
	Type      string       `json:"type"`
	Table     *TableView   `json:"table,omitempty"`
	HoleCards []poker.Card `json:"holeCards,omitempty"`
}

// TableView is the sanitized projection of a game.
type TableView struct {
	GameID      string       `json:"gameId"`
	Status      GameStatus   `json:"status"`
	StatusName  string       `json:"statusName"`
	HandNum     uint32       `json:"handNum"`
	SmallBlind  int64        `json:"smallBlind"`
	BigBlind    int64        `json:"bigBlind"`
	MaxPlayers  int          `json:"maxPlayers"`
	Community   []poker.Card `json:"community"`
	Pots        []*Pot       `json:"pots"`
	CurrentBet  int64        `json:"currentBet"`
	DealerPos   int          `json:"dealerPos"`
	CurrentTurn int          `json:"currentTurn"`
	Seats       []SeatView   `json:"seats"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// SeatView shows a seated player without their hole cards.
type SeatView struct {
	SeatNo     int    `json:"seatNo"`
	PlayerID   uint64 `json:"playerId"`
	Name       string `json:"name"`
	Stack      int64  `json:"stack"`
	RoundBet   int64  `json:"roundBet"`
	Active     bool   `json:"active"`
	Folded     bool   `json:"folded"`
	AllIn      bool   `json:"allIn"`
	SittingOut bool   `json:"sittingOut"`
	LastAction string `json:"lastAction"`
	HasCards   bool   `json:"hasCards"`
}

// View builds the sanitized projection of the game.
func (g *Game) View() *TableView {
	view := &TableView{
		GameID:      g.ID,
		Status:      g.Status,
		StatusName:  g.Status.String(),
		HandNum:     g.HandNum,
		SmallBlind:  g.SmallBlind,
		BigBlind:    g.BigBlind,
		MaxPlayers:  g.MaxPlayers,
		Community:   g.Community,
		Pots:        g.Pots,
		CurrentBet:  g.CurrentBet,
		DealerPos:   g.DealerPos,
		CurrentTurn: g.CurrentTurn,
		UpdatedAt:   g.UpdatedAt,
	}
	for seat, p := range g.Players {
		var roundBet int64
		if g.Round != nil {
			roundBet = g.Round.betOf(p.ID)
		}
		view.Seats = append(view.Seats, SeatView{
			SeatNo:     seat,
			PlayerID:   p.ID,
			Name:       p.Name,
			Stack:      p.Stack,
			RoundBet:   roundBet,
			Active:     p.Active,
			Folded:     p.Folded,
			AllIn:      p.AllIn,
			SittingOut: p.SittingOut,
			LastAction: p.LastAction.String(),
			HasCards:   len(p.HoleCards) > 0,
		})
	}
	return view
}
