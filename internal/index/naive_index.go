package index

import (
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// NaiveIndex implements types.RangeIndex by keeping the raw weights and
// recomputing the two-variable DP on every query. Updates are O(1) but
// Best is O(n); it exists as the straightforward baseline and as the
// oracle the tree-backed index is checked against.
type NaiveIndex struct {
	weights []int64
}

var _ types.RangeIndex = (*NaiveIndex)(nil)

// NewNaiveIndex creates an empty NaiveIndex. Reset must be called before
// any other operation.
func NewNaiveIndex() *NaiveIndex {
	return &NaiveIndex{}
}

// Reset discards all state and stores a copy of the given weights.
func (ni *NaiveIndex) Reset(weights []int64) error {
	if len(weights) == 0 {
		return types.ErrInvalidSize
	}
	ni.weights = append(ni.weights[:0:0], weights...)
	return nil
}

// Update replaces the weight at pos.
func (ni *NaiveIndex) Update(pos int, value int64) error {
	if pos < 0 || pos >= len(ni.weights) {
		return types.ErrIndexOutOfRange
	}
	ni.weights[pos] = value
	return nil
}

// Best runs the classic house-robber DP over the stored weights:
// prev1 is the best over the prefix, prev2 the best over the prefix
// that is free to take the next element.
func (ni *NaiveIndex) Best() int64 {
	var prev2, prev1 int64
	for _, x := range ni.weights {
		cur := max(prev1, prev2+x)
		prev2, prev1 = prev1, cur
	}
	return prev1
}

// Size returns the number of stored weights.
func (ni *NaiveIndex) Size() int {
	return len(ni.weights)
}

// SnapshotWeights returns a copy of the current weights.
func (ni *NaiveIndex) SnapshotWeights() []int64 {
	return append([]int64(nil), ni.weights...)
}
