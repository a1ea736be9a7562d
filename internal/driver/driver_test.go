package driver_test

import (
	"testing"

	"github.com/ltnguyen02/tiny-range-index-go/internal/driver"
	"github.com/ltnguyen02/tiny-range-index-go/internal/sequence"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
	"github.com/ltnguyen02/tiny-range-index-go/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSystem(t *testing.T, weights []int64, opt *driver.SystemOptional) (*driver.System, *utils.MockJournal) {
	t.Helper()

	seq, err := sequence.New(weights)
	require.NoError(t, err)

	// Nonzero size: the journal already has content, so Init skips the
	// initial snapshot flush.
	journal := &utils.MockJournal{SizeBytes: 10}
	ctx := &types.Context{Journal: journal, Utils: &utils.MockUtils{}}

	sys, err := driver.NewSystem(ctx, seq, opt)
	require.NoError(t, err)
	return sys, journal
}

func TestSystem_RunKnownScenario(t *testing.T) {
	sys, journal := newTestSystem(t, []int64{1, 2, 3, 4}, &driver.SystemOptional{FlushAfterNSteps: 1})
	defer sys.Stop()

	assert.Equal(t, int64(6), sys.Best())

	updates := []types.Update{
		{Pos: 1, Value: 5},
		{Pos: 0, Value: 2},
		{Pos: 3, Value: 6},
	}
	total, err := sys.Run(updates)
	require.NoError(t, err)

	// Step bests are 9, 9 and 11; the running total is their modular sum.
	assert.Equal(t, uint64(29), total)
	assert.Equal(t, uint64(29), sys.Total())
	assert.Equal(t, int64(11), sys.Best())
	assert.Equal(t, []int64{2, 5, 3, 6}, sys.State())

	require.Len(t, journal.Logged, 3)
	assert.Equal(t, int64(9), journal.Logged[0].Best)
	assert.Equal(t, uint64(9), journal.Logged[0].Total)
	assert.True(t, journal.Logged[0].Success)
	assert.Equal(t, int64(11), journal.Logged[2].Best)
	assert.Equal(t, uint64(29), journal.Logged[2].Total)
}

func TestSystem_RunAbortsOnBadPosition(t *testing.T) {
	sys, journal := newTestSystem(t, []int64{1, 2, 3}, &driver.SystemOptional{FlushAfterNSteps: 1})
	defer sys.Stop()

	updates := []types.Update{
		{Pos: 0, Value: 10},
		{Pos: 7, Value: 1},
		{Pos: 1, Value: 100},
	}
	total, err := sys.Run(updates)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)

	// The batch stops at the failed step; the third update never runs.
	assert.Equal(t, uint64(13), total)
	assert.Equal(t, uint64(13), sys.Total())
	assert.Equal(t, []int64{10, 2, 3}, sys.State())

	// The failed step is still journaled, marked unsuccessful.
	require.Len(t, journal.Logged, 2)
	assert.True(t, journal.Logged[0].Success)
	assert.False(t, journal.Logged[1].Success)
	assert.Equal(t, types.ErrorIndexOutOfRange, journal.Logged[1].Error)
}

func TestSystem_CustomModulus(t *testing.T) {
	sys, _ := newTestSystem(t, []int64{1, 2, 3, 4}, &driver.SystemOptional{FlushAfterNSteps: 1, Modulus: 10})
	defer sys.Stop()

	total, err := sys.Run([]types.Update{
		{Pos: 1, Value: 5},
		{Pos: 0, Value: 2},
		{Pos: 3, Value: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), total) // 29 mod 10
}

func TestSystem_FlushAfterNSteps(t *testing.T) {
	flushN := 3
	sys, journal := newTestSystem(t, []int64{1, 2, 3, 4, 5}, &driver.SystemOptional{FlushAfterNSteps: flushN})

	for i := 0; i < flushN-1; i++ {
		resp := sys.Apply(i, int64(i+10))
		require.NoError(t, resp.Err)
	}
	assert.Equal(t, 0, journal.FlushCount)

	resp := sys.Apply(flushN-1, 42)
	require.NoError(t, resp.Err)
	assert.Equal(t, 1, journal.FlushCount)

	sys.Stop()
}

func TestSystem_FlushOnStop(t *testing.T) {
	sys, journal := newTestSystem(t, []int64{1, 2, 3}, &driver.SystemOptional{FlushAfterNSteps: 100})

	resp := sys.Apply(0, 7)
	require.NoError(t, resp.Err)
	assert.Equal(t, 0, journal.FlushCount)

	sys.Stop()
	assert.Equal(t, 1, journal.FlushCount)
}

func TestSystem_ManualFlushAndNegativeWeights(t *testing.T) {
	sys, journal := newTestSystem(t, []int64{5, -2, 4}, &driver.SystemOptional{FlushAfterNSteps: 100})
	defer sys.Stop()

	// Negative middle weight: the empty middle keeps both ends selectable.
	assert.Equal(t, int64(9), sys.Best())

	resp := sys.Apply(1, -100)
	require.NoError(t, resp.Err)
	assert.Equal(t, int64(9), resp.Best)

	require.NoError(t, sys.Flush())
	assert.Equal(t, 1, journal.FlushCount)
}

func TestSystem_ApplyReportsJournalError(t *testing.T) {
	seq, err := sequence.New([]int64{1, 2, 3})
	require.NoError(t, err)

	journal := &utils.MockJournal{SizeBytes: 10, FailLog: true}
	ctx := &types.Context{Journal: journal, Utils: &utils.MockUtils{}}

	sys, err := driver.NewSystem(ctx, seq, &driver.SystemOptional{FlushAfterNSteps: 100})
	require.NoError(t, err)
	defer sys.Stop()

	resp := sys.Apply(0, 9)
	assert.ErrorIs(t, resp.Err, types.ErrJournalFull)
	// The update itself was applied before journaling failed.
	assert.Equal(t, int64(12), resp.Best)
}
