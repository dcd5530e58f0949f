package poker

import (
	"errors"
	"sort"
)

// HandRank is the category of a 5-card poker hand. Higher is better.
type HandRank int32

const (
	HighCard HandRank = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handRankToString = map[HandRank]string{
	HighCard:      "High Card",
	OnePair:       "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (r HandRank) String() string {
	return handRankToString[r]
}

// ErrInvalidHandInput is returned when the hole or community card counts
// cannot form a valid holdem hand.
var ErrInvalidHandInput = errors.New("poker: invalid hand input")

// HandResult is the best 5-card hand found for a card pool. Cards holds
// the deciding cards high-to-low: grouped cards first (quads, trips,
// pairs), then kickers. Two results of the same rank compare by this
// list, position by position.
type HandResult struct {
	Rank  HandRank `json:"rank"`
	Cards []Card   `json:"cards"`
}

// Compare returns -1, 0 or 1 as r is worse than, equal to or better
// than other. It is a total order over hand results.
func (r HandResult) Compare(other HandResult) int {
	if r.Rank != other.Rank {
		if r.Rank < other.Rank {
			return -1
		}
		return 1
	}
	for i := 0; i < len(r.Cards) && i < len(other.Cards); i++ {
		a, b := r.Cards[i].RankValue(), other.Cards[i].RankValue()
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// EvaluateBest returns the best 5-card hand from exactly 2 hole cards and
// 3 to 5 community cards, trying every 5-card subset of the pool.
func EvaluateBest(holeCards []Card, communityCards []Card) (HandResult, error) {
	if len(holeCards) != 2 || len(communityCards) < 3 || len(communityCards) > 5 {
		return HandResult{}, ErrInvalidHandInput
	}
	pool := make([]Card, 0, len(holeCards)+len(communityCards))
	pool = append(pool, holeCards...)
	pool = append(pool, communityCards...)

	var best HandResult
	first := true
	forEachFiveCardCombo(pool, func(hand []Card) {
		result := evaluateFive(hand)
		if first || result.Compare(best) > 0 {
			best = result
			first = false
		}
	})
	return best, nil
}

// Evaluate ranks an exact 5-card hand.
func Evaluate(cards []Card) (HandResult, error) {
	if len(cards) != 5 {
		return HandResult{}, ErrInvalidHandInput
	}
	return evaluateFive(cards), nil
}

// BestHands returns the keys whose results tie for the best hand.
func BestHands(results map[uint64]HandResult) []uint64 {
	var winners []uint64
	var best HandResult
	first := true
	for id, result := range results {
		if first {
			winners = []uint64{id}
			best = result
			first = false
			continue
		}
		switch result.Compare(best) {
		case 1:
			winners = []uint64{id}
			best = result
		case 0:
			winners = append(winners, id)
		}
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i] < winners[j] })
	return winners
}

func forEachFiveCardCombo(pool []Card, fn func([]Card)) {
	n := len(pool)
	hand := make([]Card, 5)
	var combine func(start, depth int)
	combine = func(start, depth int) {
		if depth == 5 {
			fn(hand)
			return
		}
		for i := start; i <= n-(5-depth); i++ {
			hand[depth] = pool[i]
			combine(i+1, depth+1)
		}
	}
	combine(0, 0)
}

func evaluateFive(hand []Card) HandResult {
	sorted := make([]Card, len(hand))
	copy(sorted, hand)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RankValue() > sorted[j].RankValue()
	})

	flush := isFlush(sorted)
	straightHigh, straight := straightHighCard(sorted)

	if flush && straight {
		if straightHigh == 14 {
			return HandResult{Rank: RoyalFlush, Cards: sorted}
		}
		return HandResult{Rank: StraightFlush, Cards: straightOrder(sorted, straightHigh)}
	}

	groups := rankGroups(sorted)
	switch {
	case groups[0].count == 4:
		return HandResult{Rank: FourOfAKind, Cards: groupOrder(groups)}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandResult{Rank: FullHouse, Cards: groupOrder(groups)}
	case flush:
		return HandResult{Rank: Flush, Cards: sorted}
	case straight:
		return HandResult{Rank: Straight, Cards: straightOrder(sorted, straightHigh)}
	case groups[0].count == 3:
		return HandResult{Rank: ThreeOfAKind, Cards: groupOrder(groups)}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandResult{Rank: TwoPair, Cards: groupOrder(groups)}
	case groups[0].count == 2:
		return HandResult{Rank: OnePair, Cards: groupOrder(groups)}
	default:
		return HandResult{Rank: HighCard, Cards: sorted}
	}
}

func isFlush(hand []Card) bool {
	suit := hand[0].Suit()
	for _, c := range hand[1:] {
		if c.Suit() != suit {
			return false
		}
	}
	return true
}

// straightHighCard reports whether the 5 sorted (descending) cards form a
// straight and, if so, the rank value of its high card. The wheel
// A-2-3-4-5 counts as a straight with high card 5.
func straightHighCard(sorted []Card) (int32, bool) {
	for i := 1; i < len(sorted); i++ {
		if sorted[i].RankValue() != sorted[i-1].RankValue()-1 {
			// wheel: A,5,4,3,2 sorted descending
			if i == 1 && sorted[0].RankValue() == 14 && sorted[1].RankValue() == 5 {
				continue
			}
			return 0, false
		}
	}
	if sorted[0].RankValue() == 14 && sorted[1].RankValue() == 5 {
		return 5, true
	}
	return sorted[0].RankValue(), true
}

// straightOrder puts straight cards high-to-low, moving the ace to the
// bottom for the wheel so tie-breaks compare by the true high card.
func straightOrder(sorted []Card, highCard int32) []Card {
	if highCard != 5 {
		return sorted
	}
	wheel := make([]Card, 0, 5)
	wheel = append(wheel, sorted[1:]...)
	wheel = append(wheel, sorted[0])
	return wheel
}

type rankGroup struct {
	rankValue int32
	count     int
	cards     []Card
}

// rankGroups buckets the sorted cards by rank, ordered by count then rank
// descending, which is exactly the deciding-card precedence.
func rankGroups(sorted []Card) []rankGroup {
	var groups []rankGroup
	for _, c := range sorted {
		placed := false
		for i := range groups {
			if groups[i].rankValue == c.RankValue() {
				groups[i].count++
				groups[i].cards = append(groups[i].cards, c)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, rankGroup{rankValue: c.RankValue(), count: 1, cards: []Card{c}})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rankValue > groups[j].rankValue
	})
	return groups
}

func groupOrder(groups []rankGroup) []Card {
	out := make([]Card, 0, 5)
	for _, g := range groups {
		out = append(out, g.cards...)
	}
	return out
}
