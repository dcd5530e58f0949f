package util

// SplitChips partitions total into numSplits integer amounts.
// The sum of the returned amounts always equals total. When the
// split is uneven, the earlier entries receive the extra chips.
func SplitChips(total int64, numSplits int) []int64 {
	if numSplits <= 0 {
		return nil
	}
	splits := make([]int64, numSplits)
	base := total / int64(numSplits)
	remainder := total % int64(numSplits)
	for i := range splits {
		splits[i] = base
		if int64(i) < remainder {
			splits[i]++
		}
	}
	return splits
}

// MinInt64 returns the smaller of a and b.
func MinInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
