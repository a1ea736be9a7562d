package journal_test

import (
	"path/filepath"
	"testing"

	"github.com/ltnguyen02/tiny-range-index-go/internal/journal"
	"github.com/ltnguyen02/tiny-range-index-go/internal/journal/formatter"
	"github.com/ltnguyen02/tiny-range-index-go/internal/journal/storage"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleApplyItem() types.ApplyLogItem {
	return types.ApplyLogItem{
		JournalEntryBase: types.JournalEntryBase{Type: types.LogTypeApply},
		Step:             1,
		Pos:              2,
		Value:            5,
		Best:             9,
		Total:            9,
		Success:          true,
	}
}

func TestJournal_JSON(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "journal.000")

	jnl, err := journal.NewJournal(path, 0, formatter.NewJSONFormatter(), nil)
	require.NoError(t, err)

	applyItem := sampleApplyItem()
	snapshotItem := types.SnapshotLogItem{
		JournalEntryBase: types.JournalEntryBase{Type: types.LogTypeSnapshot},
		Path:             "snapshot.json",
	}
	require.NoError(t, jnl.LogApply(applyItem))
	require.NoError(t, jnl.LogSnapshot(snapshotItem))

	require.NoError(t, jnl.Flush())
	require.NoError(t, jnl.Close())

	entries, hdr, err := journal.ParseJournal(path, formatter.NewJSONFormatter())
	require.NoError(t, err)
	assert.Nil(t, hdr) // plain file storage writes no header
	require.Len(t, entries, 2)

	parsedApply, ok := entries[0].(*types.ApplyLogItem)
	require.True(t, ok)
	assert.Equal(t, applyItem.Step, parsedApply.Step)
	assert.Equal(t, applyItem.Pos, parsedApply.Pos)
	assert.Equal(t, applyItem.Value, parsedApply.Value)
	assert.Equal(t, applyItem.Best, parsedApply.Best)
	assert.Equal(t, applyItem.Total, parsedApply.Total)
	assert.True(t, parsedApply.Success)

	parsedSnapshot, ok := entries[1].(*types.SnapshotLogItem)
	require.True(t, ok)
	assert.Equal(t, snapshotItem.Path, parsedSnapshot.Path)
}

func TestJournal_StringLine(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "journal.000")

	jnl, err := journal.NewJournal(path, 0, formatter.NewStringLineFormatter(), nil)
	require.NoError(t, err)

	applyItem := sampleApplyItem()
	require.NoError(t, jnl.LogApply(applyItem))
	require.NoError(t, jnl.Flush())
	require.NoError(t, jnl.Close())

	entries, _, err := journal.ParseJournal(path, formatter.NewStringLineFormatter())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	parsed, ok := entries[0].(*types.ApplyLogItem)
	require.True(t, ok)
	assert.Equal(t, applyItem.Step, parsed.Step)
	assert.Equal(t, applyItem.Best, parsed.Best)
	assert.Equal(t, applyItem.Total, parsed.Total)
}

func TestJournal_MMapStorageHeader(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "journal.000")

	store, err := storage.NewFileMMapStorage(path, 7)
	require.NoError(t, err)
	jnl, err := journal.NewJournal(path, 7, formatter.NewJSONFormatter(), store)
	require.NoError(t, err)

	require.NoError(t, jnl.LogApply(sampleApplyItem()))
	require.NoError(t, jnl.Flush())
	require.NoError(t, jnl.Close())

	entries, hdr, err := journal.ParseJournal(path, formatter.NewJSONFormatter())
	require.NoError(t, err)
	require.NotNil(t, hdr)
	assert.Equal(t, types.JournalStatusClosed, hdr.Status)
	assert.Equal(t, uint64(7), hdr.SeqNo)
	require.Len(t, entries, 1)
}

func TestJournal_FullRefusesRotateWithBuffer(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "journal.000")

	// A cap small enough that a single record cannot fit.
	store, err := storage.NewFileStorage(path, 0, storage.FileStorageOpt{SizeFileInBytes: 8})
	require.NoError(t, err)
	jnl, err := journal.NewJournal(path, 0, formatter.NewJSONFormatter(), store)
	require.NoError(t, err)
	defer jnl.Close()

	require.NoError(t, jnl.LogApply(sampleApplyItem()))
	assert.ErrorIs(t, jnl.Flush(), types.ErrJournalFull)

	// Rotation is refused while records are still buffered.
	nextPath := filepath.Join(tempDir, "journal.001")
	assert.ErrorIs(t, jnl.Rotate(nextPath), types.ErrJournalBufferNotEmpty)
}

func TestJournal_RotateWritesMarker(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "journal.000")
	nextPath := filepath.Join(tempDir, "journal.001")

	jnl, err := journal.NewJournal(path, 0, formatter.NewJSONFormatter(), nil)
	require.NoError(t, err)

	require.NoError(t, jnl.LogApply(sampleApplyItem()))
	require.NoError(t, jnl.Flush())
	require.NoError(t, jnl.Rotate(nextPath))

	// The new segment opens with a marker pointing back at the old one.
	require.NoError(t, jnl.Flush())
	require.NoError(t, jnl.Close())

	entries, _, err := journal.ParseJournal(nextPath, formatter.NewJSONFormatter())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	rot, ok := entries[0].(*types.RotateLogItem)
	require.True(t, ok)
	assert.Equal(t, path, rot.OldPath)
	assert.Equal(t, nextPath, rot.NewPath)
}

func TestJournal_SizeAndReset(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "journal.000")

	jnl, err := journal.NewJournal(path, 0, nil, nil)
	require.NoError(t, err)
	defer jnl.Close()

	size, err := jnl.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)

	// Reset drops buffered records, so nothing reaches the file.
	require.NoError(t, jnl.LogApply(sampleApplyItem()))
	jnl.Reset()
	require.NoError(t, jnl.Flush())

	size, err = jnl.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)
}
