package segtree

import (
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// node aggregates one contiguous range of the weight sequence. Each field
// is the best achievable sum of a non-adjacent subset of the range under a
// boundary constraint: the first bit says the leftmost element is forced
// excluded, the second bit the rightmost. v11 has no constraint and is the
// only value external callers ever read.
//
// Every node satisfies 0 <= v00 <= v01 <= v11 and 0 <= v00 <= v10 <= v11,
// because an excluded boundary can always be re-excluded for free.
type node struct {
	v00 int64
	v01 int64
	v10 int64
	v11 int64
}

// leaf builds the aggregate for a single-element range. A constrained
// boundary is the element itself, so those states fall back to the empty
// selection; the free state may take the element when it is positive.
func leaf(x int64) node {
	return node{v00: 0, v01: 0, v10: 0, v11: max(x, 0)}
}

// merge combines the aggregates of two adjacent ranges into the aggregate
// of their union. The interior pair (l's rightmost element next to r's
// leftmost) can never both be chosen, so each state is the max of the two
// exclusive cases "interior-left excluded" and "interior-right excluded".
func merge(l, r node) node {
	return node{
		v00: max(l.v00+r.v10, l.v01+r.v00),
		v01: max(l.v00+r.v11, l.v01+r.v01),
		v10: max(l.v10+r.v10, l.v11+r.v00),
		v11: max(l.v10+r.v11, l.v11+r.v01),
	}
}

// Tree is an array-backed segment tree over a mutable weight sequence.
// It maintains, under point updates, the maximum sum of a subset of
// weights in which no two chosen positions are adjacent.
//
// Nodes live in one flat arena addressed by implicit 1-based indices
// (children of i are 2i and 2i+1); no pointers, trivially copyable.
// All arithmetic is int64 end to end. Aggregates are never reduced
// modulo anything, since modular values do not order under max.
type Tree struct {
	n       int
	nodes   []node
	weights []int64
}

// New builds a tree over the given weights in O(n).
// Returns types.ErrInvalidSize for an empty sequence.
func New(weights []int64) (*Tree, error) {
	if len(weights) == 0 {
		return nil, types.ErrInvalidSize
	}
	t := &Tree{
		n:       len(weights),
		nodes:   make([]node, 4*len(weights)),
		weights: append([]int64(nil), weights...),
	}
	t.build(1, 0, t.n-1)
	return t, nil
}

func (t *Tree) build(i, lo, hi int) {
	if lo == hi {
		t.nodes[i] = leaf(t.weights[lo])
		return
	}
	mid := lo + (hi-lo)/2
	t.build(2*i, lo, mid)
	t.build(2*i+1, mid+1, hi)
	t.nodes[i] = merge(t.nodes[2*i], t.nodes[2*i+1])
}

// Update replaces the weight at pos and re-merges the O(log n) nodes on
// the root-to-leaf path. Negative and zero values are allowed; they only
// lower the leaf's unconstrained state to the empty selection.
// Returns types.ErrIndexOutOfRange for pos outside [0, n-1].
func (t *Tree) Update(pos int, value int64) error {
	if pos < 0 || pos >= t.n {
		return types.ErrIndexOutOfRange
	}
	t.weights[pos] = value
	t.update(1, 0, t.n-1, pos)
	return nil
}

func (t *Tree) update(i, lo, hi, pos int) {
	if lo == hi {
		t.nodes[i] = leaf(t.weights[lo])
		return
	}
	mid := lo + (hi-lo)/2
	if pos <= mid {
		t.update(2*i, lo, mid, pos)
	} else {
		t.update(2*i+1, mid+1, hi, pos)
	}
	t.nodes[i] = merge(t.nodes[2*i], t.nodes[2*i+1])
}

// Best returns the maximum non-adjacent subset sum over the whole
// sequence. O(1): the root already aggregates the full range.
// Never negative: the empty subset is always available.
func (t *Tree) Best() int64 {
	return t.nodes[1].v11
}

// Size returns the number of indexed positions.
func (t *Tree) Size() int {
	return t.n
}

// WeightAt reads back the current weight at pos.
func (t *Tree) WeightAt(pos int) (int64, error) {
	if pos < 0 || pos >= t.n {
		return 0, types.ErrIndexOutOfRange
	}
	return t.weights[pos], nil
}

// Weights returns a copy of the current weight sequence.
func (t *Tree) Weights() []int64 {
	return append([]int64(nil), t.weights...)
}
