package game

import "sort"

// Pot is a main or side pot: an amount and the players eligible to win
// it. Folded players fund pots they contributed to but are never
// eligible.
type Pot struct {
	Amount          int64    `json:"amount"`
	EligiblePlayers []uint64 `json:"eligiblePlayers"`
}

func (p *Pot) isEligible(playerID uint64) bool {
	for _, id := range p.EligiblePlayers {
		if id == playerID {
			return true
		}
	}
	return false
}

// ComputePots derives the main and side pots from the players' total
// hand contributions and the set of folded players. Distinct
// contribution levels are processed ascending; each level's pot slice is
// (level - previous level) x the number of contributors at or above the
// level, with eligibility restricted to unfolded contributors at or
// above it. The function is pure so pot accounting is testable without
// a live game.
func ComputePots(contribs map[uint64]int64, folded map[uint64]bool) []*Pot {
	levels := make([]int64, 0, len(contribs))
	seen := make(map[int64]bool)
	for _, amount := range contribs {
		if amount > 0 && !seen[amount] {
			seen[amount] = true
			levels = append(levels, amount)
		}
	}
	if len(levels) == 0 {
		return nil
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	pots := make([]*Pot, 0, len(levels))
	prev := int64(0)
	for _, level := range levels {
		pot := &Pot{}
		for playerID, amount := range contribs {
			if amount < level {
				continue
			}
			pot.Amount += level - prev
			if !folded[playerID] {
				pot.EligiblePlayers = append(pot.EligiblePlayers, playerID)
			}
		}
		sort.Slice(pot.EligiblePlayers, func(i, j int) bool {
			return pot.EligiblePlayers[i] < pot.EligiblePlayers[j]
		})
		pots = append(pots, pot)
		prev = level
	}
	return mergeEqualPots(pots)
}

// mergeEqualPots folds adjacent slices with identical eligibility into
// one pot. A folded player's contribution level splits a tier without
// changing who can win it.
func mergeEqualPots(pots []*Pot) []*Pot {
	merged := pots[:0]
	for _, pot := range pots {
		if len(merged) > 0 && sameEligibility(merged[len(merged)-1], pot) {
			merged[len(merged)-1].Amount += pot.Amount
			continue
		}
		merged = append(merged, pot)
	}
	return merged
}

func sameEligibility(a, b *Pot) bool {
	if len(a.EligiblePlayers) != len(b.EligiblePlayers) {
		return false
	}
	for i := range a.EligiblePlayers {
		if a.EligiblePlayers[i] != b.EligiblePlayers[i] {
			return false
		}
	}
	return true
}

// TotalPot sums every pot on the table.
func (g *Game) TotalPot() int64 {
	var total int64
	for _, pot := range g.Pots {
		total += pot.Amount
	}
	return total
}
