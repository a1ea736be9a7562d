package utils

import (
	"log/slog"

	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// MockJournal is an in-memory types.Journal for tests.
type MockJournal struct {
	Logged     []types.ApplyLogItem
	FlushCount int
	SizeBytes  int64
	FailLog    bool
	FailFlush  bool
}

var _ types.Journal = (*MockJournal)(nil)

func (m *MockJournal) LogApply(item types.ApplyLogItem) error {
	if m.FailLog {
		return types.ErrJournalFull
	}
	m.Logged = append(m.Logged, item)
	return nil
}

func (m *MockJournal) LogSnapshot(item types.SnapshotLogItem) error { return nil }

func (m *MockJournal) LogRotate(item types.RotateLogItem) error { return nil }

func (m *MockJournal) Flush() error {
	m.FlushCount++
	if m.FailFlush {
		return types.ErrJournalFull
	}
	return nil
}

func (m *MockJournal) Reset()                   {}
func (m *MockJournal) Size() (int64, error)     { return m.SizeBytes, nil }
func (m *MockJournal) Rotate(path string) error { return nil }
func (m *MockJournal) Close() error             { return nil }

// MockUtils is a types.Utils that disables logging and file generation.
type MockUtils struct{}

var _ types.Utils = (*MockUtils)(nil)

func (m *MockUtils) GetLogger() *slog.Logger        { return nil }
func (m *MockUtils) GenSnapshotPath() *string       { return nil }
func (m *MockUtils) GenRotatedJournalPath() *string { return nil }
