package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdem-gameserver/poker"
)

// testGame builds a table with blinds 10/20 and one player per stack.
// Player ids are seat+1.
func testGame(t *testing.T, stacks ...int64) *Game {
	t.Helper()
	g := NewGame("test-game", GameConfig{SmallBlind: 10, BigBlind: 20})
	for i, stack := range stacks {
		_, err := g.join(uint64(i+1), fmt.Sprintf("player%d", i+1), stack)
		require.NoError(t, err)
	}
	return g
}

func startTestHand(t *testing.T, g *Game, deck *poker.Deck) {
	t.Helper()
	_, err := g.startHand(deck)
	require.NoError(t, err)
}

func act(t *testing.T, g *Game, playerID uint64, kind ActionKind, amount int64) {
	t.Helper()
	_, err := g.applyAction(playerID, kind, amount, false)
	require.NoError(t, err)
}

// Dealing order with three seats and the button on seat 1 is
// seat 2, seat 0, seat 1.
func threeSeatDeck(seat0, seat1, seat2 poker.CardsInAscii, flop poker.CardsInAscii, turn, river string) *poker.Deck {
	return poker.DeckFromScript(
		[]poker.CardsInAscii{seat2, seat0, seat1},
		flop,
		poker.NewCard(turn),
		poker.NewCard(river),
	)
}

func TestActionValidation(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)

	_, err := g.applyAction(2, ActionCheck, 0, false)
	assert.ErrorIs(t, err, ErrNoBettingInFlight)

	startTestHand(t, g, nil)
	// seat 1 (player 2) acts first after the blinds
	require.Equal(t, 1, g.CurrentTurn)

	_, err = g.applyAction(1, ActionCheck, 0, false)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.applyAction(99, ActionCall, 20, false)
	assert.ErrorIs(t, err, ErrPlayerNotInGame)

	_, err = g.applyAction(2, ActionCall, 2000, false)
	var betErr IllegalBetError
	assert.ErrorAs(t, err, &betErr)

	// calling for less than the bet is illegal
	_, err = g.applyAction(2, ActionCall, 5, false)
	assert.ErrorAs(t, err, &betErr)

	_, err = g.applyAction(2, ActionCall, -1, false)
	assert.ErrorAs(t, err, &betErr)

	// the failed attempts left the game untouched
	assert.Equal(t, 1, g.CurrentTurn)
	assert.Equal(t, int64(3000), g.ChipsInPlay())
}

func TestActionKindDerivation(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, nil)

	// player 2 calls the big blind
	act(t, g, 2, ActionCall, 20)
	assert.Equal(t, ActionCall, g.PlayerByID(2).LastAction)

	// player 3 raises to 60 on top of the posted small blind
	act(t, g, 3, ActionRaise, 50)
	assert.Equal(t, ActionRaise, g.PlayerByID(3).LastAction)
	assert.Equal(t, int64(60), g.CurrentBet)

	// the raise re-opened the action for player 2
	assert.Equal(t, ActionNone, g.PlayerByID(2).LastAction)

	// player 1 shoves the whole stack; the kind becomes ALL_IN
	act(t, g, 1, ActionRaise, 980)
	assert.Equal(t, ActionAllIn, g.PlayerByID(1).LastAction)
	assert.True(t, g.PlayerByID(1).AllIn)
	assert.Equal(t, int64(1000), g.CurrentBet)
}

func TestCheckRequiresNoBetOwed(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, nil)

	// player 2 owes the big blind and may not check
	_, err := g.applyAction(2, ActionCheck, 0, false)
	var betErr IllegalBetError
	assert.ErrorAs(t, err, &betErr)

	act(t, g, 2, ActionCall, 20)
	act(t, g, 3, ActionCall, 10)
	// the big blind owes nothing and checks the option
	act(t, g, 1, ActionCheck, 0)
	assert.Equal(t, GameStatusFlopBetting, g.Status)
}

func TestBigBlindKeepsOption(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, nil)

	act(t, g, 2, ActionCall, 20)
	act(t, g, 3, ActionCall, 10)

	// everyone matched but the big blind has not acted yet
	assert.Equal(t, GameStatusPreflopBetting, g.Status)
	assert.Equal(t, g.BigBlindPos, g.CurrentTurn)

	act(t, g, 1, ActionRaise, 60)
	assert.Equal(t, int64(80), g.CurrentBet)
	assert.Equal(t, GameStatusPreflopBetting, g.Status)
}

func TestFoldWin(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, nil)

	act(t, g, 2, ActionFold, 0)
	act(t, g, 3, ActionFold, 0)

	// the big blind takes the blinds without a showdown
	assert.Equal(t, GameStatusWaiting, g.Status)
	assert.Equal(t, int64(1010), g.PlayerByID(1).Stack)
	assert.Equal(t, int64(1000), g.PlayerByID(2).Stack)
	assert.Equal(t, int64(990), g.PlayerByID(3).Stack)
	assert.Equal(t, int64(3000), g.ChipsInPlay())
	assert.Equal(t, -1, g.CurrentTurn)
}

func TestFoldWinEmitsGameEnded(t *testing.T) {
	g := testGame(t, 1000, 1000)
	startTestHand(t, g, nil)

	// heads up: the button posts the small blind and acts first
	events, err := g.applyAction(uint64(g.SmallBlindPos+1), ActionFold, 0, false)
	require.NoError(t, err)

	var ended *GameEnded
	for _, e := range events {
		if ge, ok := e.(GameEnded); ok {
			ended = &ge
		}
	}
	require.NotNil(t, ended)
	assert.Equal(t, "FOLD", ended.WonBy)
	require.Len(t, ended.PotResults, 1)
	// the big blind's unmatched half comes back; only the called 20
	// forms the pot
	assert.Equal(t, int64(20), ended.PotResults[0].Amount)
	assert.Equal(t, int64(990), g.Players[g.SmallBlindPos].Stack)
	assert.Equal(t, int64(1010), g.Players[g.BigBlindPos].Stack)
	assert.Equal(t, int64(2000), g.ChipsInPlay())
}

func TestUncalledRaiseReturnedOnFold(t *testing.T) {
	g := testGame(t, 500, 500)
	startTestHand(t, g, nil)

	sbID := uint64(g.SmallBlindPos + 1)
	bbID := uint64(g.BigBlindPos + 1)
	act(t, g, sbID, ActionRaise, 190)
	events, err := g.applyAction(bbID, ActionFold, 0, false)
	require.NoError(t, err)

	var ended *GameEnded
	for _, e := range events {
		if ge, ok := e.(GameEnded); ok {
			ended = &ge
		}
	}
	require.NotNil(t, ended)
	require.Len(t, ended.PotResults, 1)
	assert.Equal(t, int64(40), ended.PotResults[0].Amount)

	// the raiser wins the blinds and gets the uncalled 180 back
	assert.Equal(t, int64(520), g.PlayerByID(sbID).Stack)
	assert.Equal(t, int64(480), g.PlayerByID(bbID).Stack)
	assert.Equal(t, int64(1000), g.ChipsInPlay())
}

func TestUncalledOverbetReturnedAtRoundClose(t *testing.T) {
	g := testGame(t, 300, 400, 600)
	startTestHand(t, g, nil)

	// seat 1 shoves, seat 2 raises past both all-in stacks, seat 0
	// calls all-in for less
	act(t, g, 2, ActionRaise, 400)
	act(t, g, 3, ActionRaise, 490)
	act(t, g, 1, ActionCall, 280)

	// the round closed with 100 of seat 2's raise unmatched
	require.Equal(t, GameStatusFlopBetting, g.Status)
	require.True(t, g.AllInSequence)
	assert.Equal(t, int64(200), g.PlayerByID(3).Stack)
	assert.Equal(t, int64(1100), g.TotalPot())
	assert.Equal(t, int64(1300), g.ChipsInPlay())
}

func TestTurnSkipsFoldedSeat(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000, 1000)
	startTestHand(t, g, nil)

	// four seats, button 1, sb 2, bb 3; seat 0 is under the gun
	require.Equal(t, 0, g.CurrentTurn)
	act(t, g, 1, ActionFold, 0)
	assert.Equal(t, 1, g.CurrentTurn)

	act(t, g, 2, ActionRaise, 60)
	act(t, g, 3, ActionCall, 50)
	// action passes over the folded seat 0 back to the big blind
	assert.Equal(t, 3, g.CurrentTurn)
}

func TestCurrentBetMatchesMaxContribution(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, nil)

	checkInvariant := func() {
		t.Helper()
		var max int64
		for _, bet := range g.Round.Bets {
			if bet > max {
				max = bet
			}
		}
		assert.Equal(t, max, g.CurrentBet)
	}

	checkInvariant()
	act(t, g, 2, ActionCall, 20)
	checkInvariant()
	act(t, g, 3, ActionRaise, 90)
	checkInvariant()
	act(t, g, 1, ActionCall, 80)
	checkInvariant()
	act(t, g, 2, ActionCall, 80)
	checkInvariant()
}

func TestFullHandToShowdown(t *testing.T) {
	deck := threeSeatDeck(
		poker.CardsInAscii{"Ah", "Ad"}, // seat 0, big blind
		poker.CardsInAscii{"Kh", "Kd"}, // seat 1, button
		poker.CardsInAscii{"2c", "7d"}, // seat 2, small blind
		poker.CardsInAscii{"Ac", "Ks", "3h"},
		"9s", "4d",
	)
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, deck)

	act(t, g, 2, ActionCall, 20)
	act(t, g, 3, ActionCall, 10)
	act(t, g, 1, ActionCheck, 0)
	require.Equal(t, GameStatusFlopBetting, g.Status)
	require.Len(t, g.Community, 3)

	// flop action starts left of the button
	require.Equal(t, 2, g.CurrentTurn)
	act(t, g, 3, ActionCheck, 0)
	act(t, g, 1, ActionBet, 100)
	act(t, g, 2, ActionCall, 100)
	act(t, g, 3, ActionFold, 0)
	require.Equal(t, GameStatusTurnBetting, g.Status)

	act(t, g, 1, ActionCheck, 0)
	act(t, g, 2, ActionCheck, 0)
	require.Equal(t, GameStatusRiverBetting, g.Status)
	require.Len(t, g.Community, 5)

	act(t, g, 1, ActionBet, 300)
	act(t, g, 2, ActionCall, 300)

	// trip aces beat trip kings
	assert.Equal(t, GameStatusWaiting, g.Status)
	assert.Equal(t, int64(1000-420+860), g.PlayerByID(1).Stack)
	assert.Equal(t, int64(580), g.PlayerByID(2).Stack)
	assert.Equal(t, int64(980), g.PlayerByID(3).Stack)
	assert.Equal(t, int64(3000), g.ChipsInPlay())
}

func TestAllInRunoutAdvancesOneStreetPerFiring(t *testing.T) {
	g := testGame(t, 500, 500)
	startTestHand(t, g, nil)

	sbID := uint64(g.SmallBlindPos + 1)
	bbID := uint64(g.BigBlindPos + 1)
	act(t, g, sbID, ActionRaise, 490)
	act(t, g, bbID, ActionCall, 480)

	// both all-in: the flop was dealt at round close, the rest waits
	// for the scheduler
	require.True(t, g.AllInSequence)
	require.Equal(t, -1, g.CurrentTurn)
	require.Equal(t, GameStatusFlopBetting, g.Status)
	require.Len(t, g.Community, 3)

	_, err := g.advanceAllInStreet()
	require.NoError(t, err)
	assert.Equal(t, GameStatusTurnBetting, g.Status)
	assert.Len(t, g.Community, 4)

	_, err = g.advanceAllInStreet()
	require.NoError(t, err)
	assert.Equal(t, GameStatusRiverBetting, g.Status)
	assert.Len(t, g.Community, 5)

	_, err = g.advanceAllInStreet()
	require.NoError(t, err)
	assert.Equal(t, GameStatusWaiting, g.Status)
	assert.Equal(t, int64(1000), g.ChipsInPlay())

	// no further firing is legal once the hand settled
	_, err = g.advanceAllInStreet()
	assert.Error(t, err)
}

func TestAllInForLessDoesNotReopen(t *testing.T) {
	g := testGame(t, 1000, 1000, 50)
	startTestHand(t, g, nil)

	act(t, g, 2, ActionRaise, 100)
	// the short small blind calls all-in for less than the bet
	act(t, g, 3, ActionCall, 40)
	assert.True(t, g.PlayerByID(3).AllIn)
	assert.Equal(t, int64(100), g.CurrentBet)

	// action is on the big blind, not re-opened for player 2
	assert.Equal(t, 0, g.CurrentTurn)
	act(t, g, 1, ActionCall, 80)
	assert.Equal(t, GameStatusFlopBetting, g.Status)
}
