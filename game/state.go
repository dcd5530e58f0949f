package game

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"holdem-gameserver/logging"
	"holdem-gameserver/poker"
	"holdem-gameserver/util"
)

// join seats a new player. Seats can only be taken between hands.
// Player id 0 is reserved for observers and may not take a seat.
func (g *Game) join(playerID uint64, name string, buyIn int64) ([]DomainEvent, error) {
	if playerID == 0 {
		return nil, ErrInvalidPlayerID
	}
	if g.Status != GameStatusWaiting {
		return nil, ErrGameNotWaiting
	}
	if _, existing := g.seatOf(playerID); existing != nil {
		return nil, ErrAlreadySeated
	}
	if len(g.Players) >= g.MaxPlayers {
		return nil, ErrGameFull
	}
	if buyIn <= 0 {
		return nil, ErrInvalidBuyIn
	}

	g.Players = append(g.Players, &Player{ID: playerID, Name: name, Stack: buyIn})
	g.touch()

	gameLogger.Info().
		Str(logging.GameIDKey, g.ID).
		Uint64(logging.PlayerIDKey, playerID).
		Str(logging.PlayerNameKey, name).
		Msgf("Player joined with buy-in %d", buyIn)

	return []DomainEvent{PlayerJoined{
		BaseEvent: newBaseEvent(g.ID),
		PlayerID:  playerID,
		Name:      name,
		SeatNo:    len(g.Players) - 1,
		Stack:     buyIn,
	}}, nil
}

// startHand begins a new hand: under-funded and leaving seats are
// released, the dealer button and blinds rotate, blinds post as forced
// bets and every dealt-in player receives two hole cards. A nil deck
// means a freshly shuffled one; tests inject stacked decks.
func (g *Game) startHand(deck *poker.Deck) ([]DomainEvent, error) {
	if g.Status != GameStatusWaiting {
		return nil, ErrHandInProgress
	}
	g.removeDeadSeats()
	if g.readyPlayers() < 2 {
		return nil, ErrNotEnoughPlayers
	}

	g.Status = GameStatusStarting
	g.HandNum++
	g.HandStartedAt = time.Now().UTC()
	g.Community = nil
	g.Pots = nil
	g.HandContribs = make(map[uint64]int64)
	g.Round = newBettingRound()
	g.CurrentBet = 0
	g.AllInSequence = false
	if deck == nil {
		deck = poker.NewDeck()
	}
	g.Deck = deck

	for _, p := range g.Players {
		p.resetForHand(!p.SittingOut)
	}

	// rotate button and blinds over the dealt-in seats; heads up the
	// dealer posts the small blind
	dealtIn := 0
	for _, p := range g.Players {
		if p.Active {
			dealtIn++
		}
	}
	g.DealerPos = g.nextSeat(g.DealerPos, func(p *Player) bool { return p.Active })
	if dealtIn == 2 {
		g.SmallBlindPos = g.DealerPos
	} else {
		g.SmallBlindPos = g.nextSeat(g.DealerPos, func(p *Player) bool { return p.Active })
	}
	g.BigBlindPos = g.nextSeat(g.SmallBlindPos, func(p *Player) bool { return p.Active })
	if g.DealerPos == -1 || g.SmallBlindPos == -1 || g.BigBlindPos == -1 {
		return nil, errors.Errorf("could not place blinds in game %s", g.ID)
	}

	g.postBlind(g.SmallBlindPos, g.SmallBlind)
	g.postBlind(g.BigBlindPos, g.BigBlind)
	// the forced bets set the price of entry
	for _, bet := range g.Round.Bets {
		if bet > g.CurrentBet {
			g.CurrentBet = bet
		}
	}

	if err := g.dealHoleCards(); err != nil {
		return nil, err
	}

	g.Status = GameStatusPreflopBetting
	if g.countCanAct() == 0 {
		// the blinds already put everyone all-in
		g.AllInSequence = true
		g.CurrentTurn = -1
	} else {
		g.CurrentTurn = g.nextActionSeat(g.BigBlindPos)
	}
	g.touch()

	gameLogger.Info().
		Str(logging.GameIDKey, g.ID).
		Uint32(logging.HandNumKey, g.HandNum).
		Int("dealer", g.DealerPos).
		Int("sb", g.SmallBlindPos).
		Int("bb", g.BigBlindPos).
		Msg("Hand started")

	return []DomainEvent{
		GameStarted{
			BaseEvent:     newBaseEvent(g.ID),
			HandNum:       g.HandNum,
			DealerSeat:    g.DealerPos,
			SmallBlindPos: g.SmallBlindPos,
			BigBlindPos:   g.BigBlindPos,
			SmallBlind:    g.SmallBlind,
			BigBlind:      g.BigBlind,
		},
		RoundStarted{BaseEvent: newBaseEvent(g.ID), HandNum: g.HandNum, Status: GameStatusPreflopBetting, Pot: 0},
	}, nil
}

// removeDeadSeats releases seats that cannot play the next hand:
// leaving players and stacks below the big blind.
func (g *Game) removeDeadSeats() {
	kept := g.Players[:0]
	for seat, p := range g.Players {
		if p.Leaving || p.Stack < g.BigBlind {
			gameLogger.Info().
				Str(logging.GameIDKey, g.ID).
				Uint64(logging.PlayerIDKey, p.ID).
				Msgf("Releasing seat %d (leaving=%v stack=%d)", seat, p.Leaving, p.Stack)
			if seat <= g.DealerPos && g.DealerPos > 0 {
				g.DealerPos--
			}
			continue
		}
		kept = append(kept, p)
	}
	g.Players = kept
	if g.DealerPos >= len(g.Players) {
		g.DealerPos = 0
	}
}

// postBlind takes the forced bet, short stacks post all-in for less.
func (g *Game) postBlind(seat int, blind int64) {
	p := g.Players[seat]
	amount := util.MinInt64(blind, p.Stack)
	p.Stack -= amount
	g.Round.add(p.ID, amount)
	g.HandContribs[p.ID] += amount
	if p.Stack == 0 {
		p.AllIn = true
	}
	// blinds do not count as having acted; both keep their option
	p.LastAction = ActionNone
}

// dealHoleCards deals two cards to each dealt-in player, one at a time
// around the table starting left of the dealer.
func (g *Game) dealHoleCards() error {
	dealtIn := 0
	for _, p := range g.Players {
		if p.Active {
			dealtIn++
		}
	}
	for cardNum := 0; cardNum < 2; cardNum++ {
		seat := g.DealerPos
		for i := 0; i < dealtIn; i++ {
			seat = g.nextSeat(seat, func(p *Player) bool { return p.Active })
			cards, err := g.Deck.Draw(1)
			if err != nil {
				return errors.Wrapf(err, "dealing hole cards for game %s", g.ID)
			}
			g.Players[seat].HoleCards = append(g.Players[seat].HoleCards, cards[0])
		}
	}
	return nil
}

// settleFoldWin ends the hand when a single contender remains. The last
// active player collects every pot, including any uncalled surplus.
func (g *Game) settleFoldWin() ([]DomainEvent, error) {
	var winnerSeat int
	var winner *Player
	for seat, p := range g.Players {
		if p.Active {
			winnerSeat, winner = seat, p
			break
		}
	}
	if winner == nil {
		return nil, errors.Errorf("fold win with no active player in game %s", g.ID)
	}

	g.returnUncalledBet()
	g.Pots = ComputePots(g.HandContribs, g.foldedSet())
	results := make([]PotResult, 0, len(g.Pots))
	for _, pot := range g.Pots {
		winner.Stack += pot.Amount
		results = append(results, PotResult{
			Amount:  pot.Amount,
			Winners: []PotWinner{{PlayerID: winner.ID, SeatNo: winnerSeat, Amount: pot.Amount}},
		})
	}

	gameLogger.Info().
		Str(logging.GameIDKey, g.ID).
		Uint32(logging.HandNumKey, g.HandNum).
		Uint64(logging.PlayerIDKey, winner.ID).
		Msg("Hand won by fold")

	event := GameEnded{
		BaseEvent:  newBaseEvent(g.ID),
		HandNum:    g.HandNum,
		WonBy:      "FOLD",
		PotResults: results,
	}
	g.endHand()
	return []DomainEvent{event}, nil
}

// resolveShowdown ranks every remaining hand and pays out each pot to
// its best eligible hand or hands. Splits are integer-exact; the odd
// chip goes to the earliest eligible winner clockwise from the dealer.
func (g *Game) resolveShowdown() ([]DomainEvent, error) {
	g.Status = GameStatusShowdown
	g.CurrentTurn = -1

	results := make(map[uint64]poker.HandResult)
	shown := make([]ShownHand, 0, len(g.Players))
	for seat, p := range g.Players {
		if !p.Active {
			continue
		}
		result, err := poker.EvaluateBest(p.HoleCards, g.Community)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating seat %d in game %s", seat, g.ID)
		}
		results[p.ID] = result
		shown = append(shown, ShownHand{
			PlayerID:  p.ID,
			SeatNo:    seat,
			HoleCards: p.HoleCards,
			Rank:      result.Rank.String(),
			BestCards: result.Cards,
		})
	}

	potResults := make([]PotResult, 0, len(g.Pots))
	for _, pot := range g.Pots {
		contenders := make(map[uint64]poker.HandResult)
		for id, result := range results {
			if pot.isEligible(id) {
				contenders[id] = result
			}
		}
		if len(contenders) == 0 {
			// every eligible player folded after this pot was built;
			// the remaining live hands contest it instead
			for id, result := range results {
				contenders[id] = result
			}
		}
		if len(contenders) == 0 {
			return nil, errors.Errorf("no live hand for a pot of %d in game %s", pot.Amount, g.ID)
		}
		winners := poker.BestHands(contenders)
		g.sortBySeatFromDealer(winners)
		splits := util.SplitChips(pot.Amount, len(winners))

		potWinners := make([]PotWinner, 0, len(winners))
		for i, id := range winners {
			seat, p := g.seatOf(id)
			p.Stack += splits[i]
			potWinners = append(potWinners, PotWinner{PlayerID: id, SeatNo: seat, Amount: splits[i]})
		}
		potResults = append(potResults, PotResult{Amount: pot.Amount, Winners: potWinners})
	}

	gameLogger.Info().
		Str(logging.GameIDKey, g.ID).
		Uint32(logging.HandNumKey, g.HandNum).
		Msgf("Showdown complete, %d pot(s) awarded", len(potResults))

	event := GameEnded{
		BaseEvent:  newBaseEvent(g.ID),
		HandNum:    g.HandNum,
		WonBy:      "SHOWDOWN",
		PotResults: potResults,
		ShownHands: shown,
	}
	g.endHand()
	return []DomainEvent{event}, nil
}

// sortBySeatFromDealer orders player ids by their seat's clockwise
// distance from the dealer, so deterministic remainders favor the
// earliest seat after the button.
func (g *Game) sortBySeatFromDealer(playerIDs []uint64) {
	n := len(g.Players)
	distance := func(id uint64) int {
		seat, _ := g.seatOf(id)
		return ((seat - g.DealerPos - 1) % n + n) % n
	}
	sort.Slice(playerIDs, func(i, j int) bool {
		return distance(playerIDs[i]) < distance(playerIDs[j])
	})
}

// endHand returns the table to WAITING and discards hand-scoped state.
func (g *Game) endHand() {
	g.Status = GameStatusWaiting
	g.CurrentTurn = -1
	g.CurrentBet = 0
	g.Round = nil
	g.Pots = nil
	g.HandContribs = nil
	g.Deck = nil
	g.AllInSequence = false
	g.touch()
}

// leave releases the seat. Between hands the seat goes immediately; mid
// hand the player is folded out and the seat is released before the
// next deal.
func (g *Game) leave(playerID uint64) ([]DomainEvent, error) {
	seat, player := g.seatOf(playerID)
	if player == nil {
		return nil, ErrPlayerNotInGame
	}

	if g.Status == GameStatusWaiting {
		g.removeSeat(seat)
		g.touch()
		return nil, nil
	}

	player.Leaving = true
	player.SittingOut = true
	// an all-in player stays committed to the hand
	if player.CanAct() {
		return g.forceFold(seat)
	}
	g.touch()
	return nil, nil
}

// sitOut marks the seat as sitting out. A player still contesting the
// current hand is folded out of it; an all-in player stays committed.
func (g *Game) sitOut(playerID uint64) ([]DomainEvent, error) {
	seat, player := g.seatOf(playerID)
	if player == nil {
		return nil, ErrPlayerNotInGame
	}
	player.SittingOut = true
	if g.Status.IsBetting() && player.CanAct() {
		return g.forceFold(seat)
	}
	g.touch()
	return nil, nil
}

func (g *Game) sitIn(playerID uint64) error {
	_, player := g.seatOf(playerID)
	if player == nil {
		return ErrPlayerNotInGame
	}
	player.SittingOut = false
	g.touch()
	return nil
}

// forceFold folds a player outside the normal action path (leave,
// sit-out, timeout racing). Folding out of turn leaves the turn pointer
// alone unless the fold settles or closes the round.
func (g *Game) forceFold(seat int) ([]DomainEvent, error) {
	return g.applyFold(seat, g.Players[seat], false)
}

func (g *Game) removeSeat(seat int) {
	if seat <= g.DealerPos && g.DealerPos > 0 {
		g.DealerPos--
	}
	g.Players = append(g.Players[:seat], g.Players[seat+1:]...)
	if g.DealerPos >= len(g.Players) {
		g.DealerPos = 0
	}
}
