package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitChips(t *testing.T) {
	testCases := []struct {
		total     int64
		numSplits int
		expected  []int64
	}{
		{total: 0, numSplits: 1, expected: []int64{0}},
		{total: 0, numSplits: 2, expected: []int64{0, 0}},
		{total: 1, numSplits: 2, expected: []int64{1, 0}},
		{total: 1, numSplits: 3, expected: []int64{1, 0, 0}},
		{total: 2, numSplits: 3, expected: []int64{1, 1, 0}},
		{total: 10, numSplits: 1, expected: []int64{10}},
		{total: 10, numSplits: 2, expected: []int64{5, 5}},
		{total: 11, numSplits: 2, expected: []int64{6, 5}},
		{total: 100, numSplits: 3, expected: []int64{34, 33, 33}},
	}

	for _, tc := range testCases {
		splits := SplitChips(tc.total, tc.numSplits)
		assert.Equal(t, tc.expected, splits, "SplitChips(%d, %d)", tc.total, tc.numSplits)

		var sum int64
		for _, s := range splits {
			sum += s
		}
		assert.Equal(t, tc.total, sum, "splits of %d must sum back", tc.total)
	}
}

func TestSplitChipsInvalid(t *testing.T) {
	assert.Nil(t, SplitChips(100, 0))
	assert.Nil(t, SplitChips(100, -1))
}
