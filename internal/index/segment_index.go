package index

import (
	"github.com/ltnguyen02/tiny-range-index-go/internal/segtree"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// SegmentIndex implements types.RangeIndex on top of the segment tree.
// Point updates and whole-sequence queries are O(log n) and O(1).
type SegmentIndex struct {
	tree *segtree.Tree
}

var _ types.RangeIndex = (*SegmentIndex)(nil)

// NewSegmentIndex creates an empty SegmentIndex. Reset must be called
// before any other operation.
func NewSegmentIndex() *SegmentIndex {
	return &SegmentIndex{}
}

// Reset discards all state and re-indexes the given weights.
func (si *SegmentIndex) Reset(weights []int64) error {
	tree, err := segtree.New(weights)
	if err != nil {
		return err
	}
	si.tree = tree
	return nil
}

// Update replaces the weight at pos.
func (si *SegmentIndex) Update(pos int, value int64) error {
	if si.tree == nil {
		return types.ErrIndexOutOfRange
	}
	return si.tree.Update(pos, value)
}

// Best returns the maximum non-adjacent subset sum over all weights.
func (si *SegmentIndex) Best() int64 {
	if si.tree == nil {
		return 0
	}
	return si.tree.Best()
}

// Size returns the number of indexed positions.
func (si *SegmentIndex) Size() int {
	if si.tree == nil {
		return 0
	}
	return si.tree.Size()
}

// SnapshotWeights returns a copy of the current weights.
func (si *SegmentIndex) SnapshotWeights() []int64 {
	if si.tree == nil {
		return nil
	}
	return si.tree.Weights()
}
