package sequence_test

import (
	"path/filepath"
	"testing"

	"github.com/ltnguyen02/tiny-range-index-go/internal/index"
	"github.com/ltnguyen02/tiny-range-index-go/internal/sequence"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_ApplyAndBest(t *testing.T) {
	seq, err := sequence.New([]int64{1, 2, 3, 4})
	require.NoError(t, err)

	assert.Equal(t, 4, seq.Size())
	assert.Equal(t, int64(6), seq.Best())

	best, err := seq.Apply(1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(9), best)

	_, err = seq.Apply(17, 1)
	assert.Equal(t, types.ErrIndexOutOfRange, err)
	assert.Equal(t, int64(9), seq.Best(), "failed apply must not change state")
}

func TestSequence_EmptyWeights(t *testing.T) {
	_, err := sequence.New(nil)
	assert.Equal(t, types.ErrInvalidSize, err)
}

func TestSequence_CustomIndex(t *testing.T) {
	seq, err := sequence.New([]int64{3, -1, 4}, sequence.Optional{Index: index.NewNaiveIndex()})
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq.Best())
}

func TestSequence_SnapshotRoundTrip(t *testing.T) {
	seq, err := sequence.New([]int64{5, -2, 9, 4})
	require.NoError(t, err)
	_, err = seq.Apply(3, 11)
	require.NoError(t, err)

	snap := seq.CreateSnapshot()
	snap.LastStep = 1
	snap.RunningTotal = uint64(seq.Best())

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, sequence.WriteSnapshotFile(path, snap))

	loaded, err := sequence.ReadSnapshotFile(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Weights, loaded.Weights)
	assert.Equal(t, snap.LastStep, loaded.LastStep)
	assert.Equal(t, snap.RunningTotal, loaded.RunningTotal)

	restored, err := sequence.New([]int64{1})
	require.NoError(t, err)
	require.NoError(t, restored.LoadSnapshot(loaded))
	assert.Equal(t, seq.Best(), restored.Best())
	assert.Equal(t, seq.Weights(), restored.Weights())
}
