package game

import (
	"errors"
	"fmt"
)

// Validation errors. These are rejected before any state mutation and
// surfaced to the caller.
var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFull          = errors.New("game is full")
	ErrAlreadySeated     = errors.New("player is already seated")
	ErrPlayerNotInGame   = errors.New("player is not in the game")
	ErrNotYourTurn       = errors.New("it is not this player's turn")
	ErrPlayerFolded      = errors.New("player has already folded")
	ErrNotEnoughPlayers  = errors.New("not enough players to start a hand")
	ErrGameNotWaiting    = errors.New("game is not waiting for players")
	ErrHandInProgress    = errors.New("a hand is already in progress")
	ErrNoBettingInFlight = errors.New("no betting round is in progress")
	ErrInvalidBuyIn      = errors.New("buy-in must be positive")
	ErrInvalidPlayerID   = errors.New("player id must be positive")
	ErrInvalidConfig     = errors.New("invalid game configuration")
)

// IllegalBetError rejects an action amount that would leave the player's
// round contribution below the current bet without going all-in, or that
// exceeds the player's stack.
type IllegalBetError struct {
	PlayerID   uint64
	Amount     int64
	CurrentBet int64
	Stack      int64
}

func (e IllegalBetError) Error() string {
	return fmt.Sprintf("illegal bet amount %d for player %d (current bet %d, stack %d)",
		e.Amount, e.PlayerID, e.CurrentBet, e.Stack)
}

// UnexpectedGameStatusError signals an operation attempted in a phase
// that does not allow it.
type UnexpectedGameStatusError struct {
	GameID string
	Status GameStatus
}

func (e UnexpectedGameStatusError) Error() string {
	return fmt.Sprintf("unexpected game status %s for game %s", e.Status, e.GameID)
}
