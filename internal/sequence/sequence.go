package sequence

import (
	"encoding/json"
	"os"

	"github.com/ltnguyen02/tiny-range-index-go/internal/index"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// Sequence owns the mutable weight array and the index built over it.
// It is the single writer of index state; the driver talks to it only.
type Sequence struct {
	idx types.RangeIndex
}

// Optional carries optional construction parameters.
type Optional struct {
	// Index overrides the default SegmentIndex implementation.
	Index types.RangeIndex
}

// New builds a sequence over the initial weights.
func New(weights []int64, opt ...Optional) (*Sequence, error) {
	var idx types.RangeIndex
	for _, o := range opt {
		if o.Index != nil {
			idx = o.Index
		}
	}
	if idx == nil {
		idx = index.NewSegmentIndex()
	}
	if err := idx.Reset(weights); err != nil {
		return nil, err
	}
	return &Sequence{idx: idx}, nil
}

// NewFromConfigPath loads the initial weights from a JSON run config.
func NewFromConfigPath(path string, opt ...Optional) (*Sequence, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfg types.ConfigRun
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return New(cfg.Weights, opt...)
}

// Apply replaces the weight at pos and returns the new best sum.
func (s *Sequence) Apply(pos int, value int64) (int64, error) {
	if err := s.idx.Update(pos, value); err != nil {
		return 0, err
	}
	return s.idx.Best(), nil
}

// Best returns the current maximum non-adjacent subset sum.
func (s *Sequence) Best() int64 {
	return s.idx.Best()
}

// Size returns the number of positions.
func (s *Sequence) Size() int {
	return s.idx.Size()
}

// Weights returns a copy of the current weights.
func (s *Sequence) Weights() []int64 {
	return s.idx.SnapshotWeights()
}

// CreateSnapshot exports the current weights. The caller fills in the
// driver-owned fields (step counter, running total) before writing it.
func (s *Sequence) CreateSnapshot() *types.SequenceSnapshot {
	return &types.SequenceSnapshot{Weights: s.idx.SnapshotWeights()}
}

// LoadSnapshot replaces the sequence contents with a snapshot's weights.
// The index is rebuilt from scratch; snapshots carry no tree state.
func (s *Sequence) LoadSnapshot(snap *types.SequenceSnapshot) error {
	return s.idx.Reset(snap.Weights)
}

// WriteSnapshotFile writes a snapshot as JSON to the given path.
func WriteSnapshotFile(path string, snap *types.SequenceSnapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewEncoder(file).Encode(snap)
}

// ReadSnapshotFile reads a JSON snapshot from the given path.
func ReadSnapshotFile(path string) (*types.SequenceSnapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap types.SequenceSnapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
