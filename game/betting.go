package game

import (
	"github.com/pkg/errors"

	"holdem-gameserver/logging"
	"holdem-gameserver/poker"
)

// applyAction validates and applies one player action to the active
// betting round. All validation happens before any mutation; a returned
// error means the game state is untouched.
//
// The concrete action kind is derived here, once: committing the whole
// stack is ALL_IN, zero with no bet owed is CHECK, matching the current
// bet is CALL, exceeding it is BET or RAISE. The submitted kind only
// decides whether the player intends to fold.
func (g *Game) applyAction(playerID uint64, kind ActionKind, amount int64, timedOut bool) ([]DomainEvent, error) {
	if !g.Status.IsBetting() {
		return nil, ErrNoBettingInFlight
	}
	seat, player := g.seatOf(playerID)
	if player == nil {
		return nil, ErrPlayerNotInGame
	}
	if player.Folded {
		return nil, ErrPlayerFolded
	}
	if g.CurrentTurn != seat {
		return nil, ErrNotYourTurn
	}

	if kind == ActionFold {
		return g.applyFold(seat, player, timedOut)
	}

	if amount < 0 || amount > player.Stack {
		return nil, IllegalBetError{PlayerID: playerID, Amount: amount, CurrentBet: g.CurrentBet, Stack: player.Stack}
	}
	roundBet := g.Round.betOf(playerID)
	total := roundBet + amount
	allIn := amount == player.Stack

	derived := ActionNone
	switch {
	case allIn:
		derived = ActionAllIn
	case total < g.CurrentBet:
		return nil, IllegalBetError{PlayerID: playerID, Amount: amount, CurrentBet: g.CurrentBet, Stack: player.Stack}
	case amount == 0:
		derived = ActionCheck
	case total == g.CurrentBet:
		derived = ActionCall
	case g.CurrentBet == 0:
		derived = ActionBet
	default:
		derived = ActionRaise
	}

	player.Stack -= amount
	g.Round.add(playerID, amount)
	g.HandContribs[playerID] += amount
	player.LastAction = derived
	if allIn {
		player.AllIn = true
	}
	if total > g.CurrentBet {
		g.CurrentBet = total
		// a raise re-opens the action for everyone still in
		g.reopenAction(playerID)
	}

	gameLogger.Debug().
		Str(logging.GameIDKey, g.ID).
		Uint64(logging.PlayerIDKey, playerID).
		Str(logging.ActionKey, derived.String()).
		Int64("amount", amount).
		Msg("Action applied")

	events := []DomainEvent{PlayerActed{
		BaseEvent: newBaseEvent(g.ID),
		HandNum:   g.HandNum,
		PlayerID:  playerID,
		SeatNo:    seat,
		Action:    derived,
		Amount:    amount,
		TimedOut:  timedOut,
	}}

	progress, err := g.progressAfterAction(seat)
	if err != nil {
		return nil, err
	}
	g.touch()
	return append(events, progress...), nil
}

func (g *Game) applyFold(seat int, player *Player, timedOut bool) ([]DomainEvent, error) {
	player.fold()

	events := []DomainEvent{PlayerActed{
		BaseEvent: newBaseEvent(g.ID),
		HandNum:   g.HandNum,
		PlayerID:  player.ID,
		SeatNo:    seat,
		Action:    ActionFold,
		TimedOut:  timedOut,
	}}

	progress, err := g.progressAfterAction(seat)
	if err != nil {
		return nil, err
	}
	g.touch()
	return append(events, progress...), nil
}

// reopenAction resets the still-pending flag for every player who can
// act, except the raiser. An all-in player is exempt from matching the
// new bet.
func (g *Game) reopenAction(raiserID uint64) {
	for _, p := range g.Players {
		if p.ID == raiserID || !p.CanAct() {
			continue
		}
		p.LastAction = ActionNone
	}
}

// isRoundComplete reports whether no further actions are pending in the
// current street: at most one active player remains, or every active
// non-all-in player has acted and matched the current bet.
func (g *Game) isRoundComplete() bool {
	if g.countActive() <= 1 {
		return true
	}
	for _, p := range g.Players {
		if !p.CanAct() {
			continue
		}
		if p.LastAction == ActionNone {
			return false
		}
		if g.Round.betOf(p.ID) != g.CurrentBet {
			return false
		}
	}
	return true
}

// progressAfterAction decides what happens after a seat acted or was
// folded out: hand over, street over, or turn passes to the next seat.
func (g *Game) progressAfterAction(actedSeat int) ([]DomainEvent, error) {
	if g.countActive() == 1 {
		return g.settleFoldWin()
	}
	if g.isRoundComplete() {
		return g.closeBettingRound()
	}
	if actedSeat != g.CurrentTurn {
		// an out-of-turn fold (leave, sit-out) leaves the turn alone
		return nil, nil
	}
	next := g.nextActionSeat(actedSeat)
	if next == -1 {
		return nil, errors.Errorf("no seat can act in game %s after seat %d", g.ID, actedSeat)
	}
	g.CurrentTurn = next
	return nil, nil
}

// returnUncalledBet refunds the part of the highest hand total that no
// other player matched. Runs whenever betting ends, before the pots are
// built, so an uncalled bet or raise never enters a pot.
func (g *Game) returnUncalledBet() {
	var topID uint64
	var top, second int64
	for id, total := range g.HandContribs {
		switch {
		case total > top:
			second = top
			top = total
			topID = id
		case total == top:
			second = total
		case total > second:
			second = total
		}
	}
	excess := top - second
	if excess <= 0 {
		return
	}
	_, player := g.seatOf(topID)
	if player == nil {
		return
	}

	player.Stack += excess
	g.HandContribs[topID] -= excess
	if player.AllIn && player.Stack > 0 {
		player.AllIn = false
	}

	gameLogger.Info().
		Str(logging.GameIDKey, g.ID).
		Uint64(logging.PlayerIDKey, topID).
		Msgf("Returned uncalled bet %d", excess)
}

// closeBettingRound sweeps the street into the pots and advances the
// hand: the next street is dealt, or showdown resolves after the river.
// When nobody is left who can act, the staged all-in run-out takes over
// and the scheduler drives the remaining streets.
func (g *Game) closeBettingRound() ([]DomainEvent, error) {
	g.Round.Complete = true
	g.returnUncalledBet()
	g.Pots = ComputePots(g.HandContribs, g.foldedSet())

	if g.Status == GameStatusRiverBetting {
		return g.resolveShowdown()
	}

	events, err := g.dealNextStreet()
	if err != nil {
		return nil, err
	}

	if g.countCanAct() <= 1 {
		// no more betting possible; remaining streets run on timers
		g.AllInSequence = true
		g.CurrentTurn = -1
		return events, nil
	}

	first := g.nextActionSeat(g.DealerPos)
	if first == -1 {
		return nil, errors.Errorf("no first-to-act seat in game %s", g.ID)
	}
	g.CurrentTurn = first
	return events, nil
}

// dealNextStreet moves to the next betting phase and deals its
// community cards: 3 for the flop, then 1 for turn and river. Entering
// a street resets the current bet and every player's pending action.
func (g *Game) dealNextStreet() ([]DomainEvent, error) {
	var next GameStatus
	var draw int
	switch g.Status {
	case GameStatusPreflopBetting:
		next, draw = GameStatusFlopBetting, 3
	case GameStatusFlopBetting:
		next, draw = GameStatusTurnBetting, 1
	case GameStatusTurnBetting:
		next, draw = GameStatusRiverBetting, 1
	default:
		return nil, UnexpectedGameStatusError{GameID: g.ID, Status: g.Status}
	}

	cards, err := g.Deck.Draw(draw)
	if err != nil {
		// the deck can never run out mid-hand under correct use
		return nil, errors.Wrapf(err, "dealing %s for game %s", next, g.ID)
	}
	g.Community = append(g.Community, cards...)
	g.Status = next
	g.CurrentBet = 0
	g.Round = newBettingRound()
	for _, p := range g.Players {
		if p.CanAct() {
			p.LastAction = ActionNone
		}
	}

	gameLogger.Info().
		Str(logging.GameIDKey, g.ID).
		Uint32(logging.HandNumKey, g.HandNum).
		Str(logging.StatusKey, next.String()).
		Msgf("Community: %s", poker.CardsToString(g.Community))

	return []DomainEvent{
		CardsDealt{BaseEvent: newBaseEvent(g.ID), HandNum: g.HandNum, Status: next, Community: g.Community},
		RoundStarted{BaseEvent: newBaseEvent(g.ID), HandNum: g.HandNum, Status: next, Pot: g.TotalPot()},
	}, nil
}

// advanceAllInStreet advances exactly one phase of the staged all-in
// run-out. The scheduler calls this once per firing until showdown.
func (g *Game) advanceAllInStreet() ([]DomainEvent, error) {
	if !g.AllInSequence {
		return nil, UnexpectedGameStatusError{GameID: g.ID, Status: g.Status}
	}
	if g.Status == GameStatusRiverBetting {
		return g.resolveShowdown()
	}
	return g.dealNextStreet()
}
