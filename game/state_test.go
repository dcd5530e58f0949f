package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdem-gameserver/poker"
)

func TestJoin(t *testing.T) {
	g := NewGame("g", GameConfig{SmallBlind: 10, BigBlind: 20, MaxPlayers: 2})

	// id 0 is the observer sentinel and cannot sit down
	_, err := g.join(0, "nobody", 500)
	assert.ErrorIs(t, err, ErrInvalidPlayerID)

	_, err = g.join(1, "rob", 500)
	require.NoError(t, err)

	_, err = g.join(1, "rob-again", 500)
	assert.ErrorIs(t, err, ErrAlreadySeated)

	_, err = g.join(2, "jim", 0)
	assert.ErrorIs(t, err, ErrInvalidBuyIn)

	_, err = g.join(2, "jim", 500)
	require.NoError(t, err)

	_, err = g.join(3, "late", 500)
	assert.ErrorIs(t, err, ErrGameFull)

	startTestHand(t, g, nil)
	_, err = g.join(3, "mid-hand", 500)
	assert.ErrorIs(t, err, ErrGameNotWaiting)
}

func TestStartHandPositions(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, nil)

	assert.Equal(t, GameStatusPreflopBetting, g.Status)
	assert.Equal(t, uint32(1), g.HandNum)
	assert.Equal(t, 1, g.DealerPos)
	assert.Equal(t, 2, g.SmallBlindPos)
	assert.Equal(t, 0, g.BigBlindPos)
	assert.Equal(t, 1, g.CurrentTurn)
	assert.Equal(t, int64(20), g.CurrentBet)

	for _, p := range g.Players {
		assert.Len(t, p.HoleCards, 2)
		assert.True(t, p.Active)
	}
	assert.Equal(t, int64(10), g.Round.betOf(3))
	assert.Equal(t, int64(20), g.Round.betOf(1))
	assert.Equal(t, int64(3000), g.ChipsInPlay())

	_, err := g.startHand(nil)
	assert.ErrorIs(t, err, ErrHandInProgress)
}

func TestStartHandDealsUniqueCards(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000, 1000, 1000)
	startTestHand(t, g, nil)

	seen := make(map[poker.Card]bool)
	for _, p := range g.Players {
		for _, c := range p.HoleCards {
			assert.False(t, seen[c], "card %s dealt twice", c)
			seen[c] = true
		}
	}
	assert.Len(t, seen, 10)
}

func TestStartHandNeedsTwoPlayers(t *testing.T) {
	g := testGame(t, 1000)
	_, err := g.startHand(nil)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestStartHandReleasesShortStacks(t *testing.T) {
	g := testGame(t, 1000, 15, 1000)
	startTestHand(t, g, nil)

	// the 15-chip stack cannot cover the big blind and loses the seat
	require.Len(t, g.Players, 2)
	assert.Nil(t, g.PlayerByID(2))
	assert.Equal(t, int64(2000), g.ChipsInPlay())
}

func TestStartHandAllInBlind(t *testing.T) {
	// a stack of exactly the big blind posts all-in
	g := testGame(t, 20, 1000)
	startTestHand(t, g, nil)

	bb := g.Players[g.BigBlindPos]
	if bb.Stack == 0 {
		assert.True(t, bb.AllIn)
	}
}

func TestDealerRotates(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, nil)
	require.Equal(t, 1, g.DealerPos)

	// fold the hand out to finish it
	act(t, g, 2, ActionFold, 0)
	act(t, g, 3, ActionFold, 0)
	require.Equal(t, GameStatusWaiting, g.Status)

	startTestHand(t, g, nil)
	assert.Equal(t, 2, g.DealerPos)
	assert.Equal(t, uint32(2), g.HandNum)
}

func TestHeadsUpDealerPostsSmallBlind(t *testing.T) {
	g := testGame(t, 500, 500)
	startTestHand(t, g, nil)

	assert.Equal(t, g.DealerPos, g.SmallBlindPos)
	assert.NotEqual(t, g.SmallBlindPos, g.BigBlindPos)
	// the small blind acts first preflop
	assert.Equal(t, g.SmallBlindPos, g.CurrentTurn)
}

func TestLeaveBetweenHands(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)

	_, err := g.leave(2)
	require.NoError(t, err)
	assert.Len(t, g.Players, 2)
	assert.Nil(t, g.PlayerByID(2))

	_, err = g.leave(2)
	assert.ErrorIs(t, err, ErrPlayerNotInGame)
}

func TestLeaveMidHandFoldsAndReleasesSeat(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, nil)

	// seat 0 leaves out of turn and is folded out
	_, err := g.leave(1)
	require.NoError(t, err)
	assert.True(t, g.PlayerByID(1).Folded)
	assert.True(t, g.PlayerByID(1).Leaving)
	// the turn did not move off the acting seat
	assert.Equal(t, 1, g.CurrentTurn)

	act(t, g, 2, ActionFold, 0)
	// player 3 wins by fold, the leaver's seat goes at hand end
	require.Equal(t, GameStatusWaiting, g.Status)

	startTestHand(t, g, nil)
	assert.Nil(t, g.PlayerByID(1))
	assert.Len(t, g.Players, 2)
}

func TestLeaveOnYourTurnPassesAction(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, nil)
	require.Equal(t, 1, g.CurrentTurn)

	_, err := g.leave(2)
	require.NoError(t, err)
	assert.Equal(t, 2, g.CurrentTurn)
}

func TestSitOutFoldsLiveHand(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, nil)

	_, err := g.sitOut(3)
	require.NoError(t, err)
	assert.True(t, g.PlayerByID(3).Folded)
	assert.True(t, g.PlayerByID(3).SittingOut)

	// finish the hand; the sitting-out player keeps the seat but is
	// not dealt in
	act(t, g, 2, ActionFold, 0)
	require.Equal(t, GameStatusWaiting, g.Status)

	startTestHand(t, g, nil)
	assert.NotNil(t, g.PlayerByID(3))
	assert.False(t, g.PlayerByID(3).Active)
	assert.Empty(t, g.PlayerByID(3).HoleCards)
}

func TestSitInDealsBackIn(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000)

	_, err := g.sitOut(3)
	require.NoError(t, err)
	require.NoError(t, g.sitIn(3))

	startTestHand(t, g, nil)
	assert.True(t, g.PlayerByID(3).Active)
	assert.Len(t, g.PlayerByID(3).HoleCards, 2)
}

func TestShowdownSplitPotOddChip(t *testing.T) {
	g := NewGame("g", GameConfig{SmallBlind: 5, BigBlind: 10})
	for i, stack := range []int64{1000, 1000, 1000} {
		_, err := g.join(uint64(i+1), "p", stack)
		require.NoError(t, err)
	}
	// the board plays for seats 0 and 1; seat 2 folds preflop
	deck := threeSeatDeck(
		poker.CardsInAscii{"2c", "3c"},
		poker.CardsInAscii{"2d", "3d"},
		poker.CardsInAscii{"7h", "8h"},
		poker.CardsInAscii{"Ah", "Kd", "Qs"},
		"Jc", "Th",
	)
	startTestHand(t, g, deck)

	act(t, g, 2, ActionCall, 10)
	act(t, g, 3, ActionFold, 0)
	act(t, g, 1, ActionCheck, 0)
	for g.Status.IsBetting() {
		act(t, g, uint64(g.CurrentTurn+1), ActionCheck, 0)
	}

	// pot of 25 splits 13/12; the odd chip goes to the first winner
	// clockwise from the button
	require.Equal(t, GameStatusWaiting, g.Status)
	assert.Equal(t, int64(1000-10+12), g.PlayerByID(2).Stack)
	assert.Equal(t, int64(1000-10+13), g.PlayerByID(1).Stack)
	assert.Equal(t, int64(995), g.PlayerByID(3).Stack)
	assert.Equal(t, int64(3000), g.ChipsInPlay())
}

func TestShowdownAwardsSidePots(t *testing.T) {
	g := testGame(t, 100, 500, 500)
	deck := threeSeatDeck(
		poker.CardsInAscii{"As", "Ad"}, // seat 0, short stack
		poker.CardsInAscii{"Qh", "Qd"},
		poker.CardsInAscii{"Kc", "Kd"},
		poker.CardsInAscii{"2h", "7s", "9c"},
		"3d", "Jd",
	)
	startTestHand(t, g, deck)

	act(t, g, 2, ActionRaise, 100)
	act(t, g, 3, ActionCall, 90)
	act(t, g, 1, ActionCall, 80) // all-in

	act(t, g, 3, ActionBet, 200)
	act(t, g, 2, ActionCall, 200)

	act(t, g, 3, ActionBet, 200) // all-in
	act(t, g, 2, ActionCall, 200)

	require.True(t, g.AllInSequence)
	_, err := g.advanceAllInStreet()
	require.NoError(t, err)

	// aces take the 300 main pot, kings the 800 side pot
	assert.Equal(t, GameStatusWaiting, g.Status)
	assert.Equal(t, int64(300), g.PlayerByID(1).Stack)
	assert.Equal(t, int64(0), g.PlayerByID(2).Stack)
	assert.Equal(t, int64(800), g.PlayerByID(3).Stack)
	assert.Equal(t, int64(1100), g.ChipsInPlay())
}

func TestSitOutDuringRunoutConservesChips(t *testing.T) {
	deck := threeSeatDeck(
		poker.CardsInAscii{"Ah", "Ad"}, // seat 0
		poker.CardsInAscii{"Kh", "Kd"}, // seat 1
		poker.CardsInAscii{"2c", "7d"}, // seat 2, over-bets then quits
		poker.CardsInAscii{"Ac", "Ks", "3h"},
		"9s", "4d",
	)
	g := testGame(t, 300, 400, 600)
	startTestHand(t, g, deck)

	act(t, g, 2, ActionRaise, 400)
	act(t, g, 3, ActionRaise, 490)
	act(t, g, 1, ActionCall, 280)
	require.True(t, g.AllInSequence)

	// the unmatched 100 already came back, so quitting now forfeits
	// only chips other players matched
	_, err := g.sitOut(3)
	require.NoError(t, err)
	require.True(t, g.PlayerByID(3).Folded)

	for g.Status != GameStatusWaiting {
		_, err = g.advanceAllInStreet()
		require.NoError(t, err)
	}

	// aces take the 900 main pot; the 200 side pot goes to the only
	// player left who covered it
	assert.Equal(t, int64(900), g.PlayerByID(1).Stack)
	assert.Equal(t, int64(200), g.PlayerByID(2).Stack)
	assert.Equal(t, int64(200), g.PlayerByID(3).Stack)
	assert.Equal(t, int64(1300), g.ChipsInPlay())
}

func TestShowdownEventShowsOnlyLiveHands(t *testing.T) {
	deck := threeSeatDeck(
		poker.CardsInAscii{"Ah", "Ad"},
		poker.CardsInAscii{"Kh", "Kd"},
		poker.CardsInAscii{"2c", "7d"},
		poker.CardsInAscii{"Ac", "Ks", "3h"},
		"9s", "4d",
	)
	g := testGame(t, 1000, 1000, 1000)
	startTestHand(t, g, deck)

	act(t, g, 2, ActionCall, 20)
	_, err := g.applyAction(3, ActionFold, 0, false)
	require.NoError(t, err)
	var events []DomainEvent
	ev, err := g.applyAction(1, ActionCheck, 0, false)
	require.NoError(t, err)
	events = append(events, ev...)
	for g.Status.IsBetting() {
		ev, err = g.applyAction(uint64(g.CurrentTurn+1), ActionCheck, 0, false)
		require.NoError(t, err)
		events = append(events, ev...)
	}

	var ended *GameEnded
	for _, e := range events {
		if ge, ok := e.(GameEnded); ok {
			ended = &ge
		}
	}
	require.NotNil(t, ended)
	assert.Equal(t, "SHOWDOWN", ended.WonBy)
	require.Len(t, ended.ShownHands, 2)
	for _, shown := range ended.ShownHands {
		assert.NotEqual(t, uint64(3), shown.PlayerID)
	}
}
