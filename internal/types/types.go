package types

import "log/slog"

// DefaultModulus is the default modulus for the driver's running total.
// It is a configuration default, not a hardwired constant: the driver
// receives the actual value through its options.
const DefaultModulus uint64 = 1_000_000_007

// LogType defines the type of a journal entry.
type LogType byte

const (
	LogTypeApply LogType = iota + 1
	LogTypeSnapshot
	LogTypeRotate
)

// LogError defines the error code recorded on a journal entry.
type LogError byte

const (
	ErrorNone LogError = iota
	ErrorIndexOutOfRange
)

// Update is one point update of the weight sequence.
type Update struct {
	Pos   int   `json:"pos" yaml:"pos"`
	Value int64 `json:"value" yaml:"value"`
}

// ConfigRun describes a full driver run: the initial weights,
// the update stream and the modulus for the running total.
type ConfigRun struct {
	Weights []int64  `json:"weights" yaml:"weights"`
	Updates []Update `json:"updates" yaml:"updates"`
	Modulus uint64   `json:"modulus,omitempty" yaml:"modulus,omitempty"`
}

// SequenceSnapshot is a point-in-time export of the weight sequence.
// It carries the raw weights only; an index is always rebuilt from them.
type SequenceSnapshot struct {
	Weights      []int64 `json:"weights"`
	LastStep     uint64  `json:"last_step"`
	RunningTotal uint64  `json:"running_total"`
}

// JournalEntry is implemented by every journal record.
type JournalEntry interface {
	GetType() LogType
}

// JournalEntryBase is embedded by all concrete journal records.
type JournalEntryBase struct {
	Type  LogType  `json:"type"`
	Error LogError `json:"error,omitempty"`
}

func (b *JournalEntryBase) GetType() LogType { return b.Type }

// ApplyLogItem records one driver step: the update that was applied,
// the best sum after it and the running total so far.
type ApplyLogItem struct {
	JournalEntryBase
	Step    int64  `json:"step"`
	Pos     int    `json:"pos"`
	Value   int64  `json:"value"`
	Best    int64  `json:"best"`
	Total   uint64 `json:"total"`
	Success bool   `json:"success"`
}

// SnapshotLogItem records that a sequence snapshot was written.
type SnapshotLogItem struct {
	JournalEntryBase
	Path string `json:"path"`
}

// RotateLogItem records a journal file rotation.
type RotateLogItem struct {
	JournalEntryBase
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// Journal header layout used by the binary storage backends.
const (
	JournalMagic    uint32 = 0x524E4958 // "RNIX"
	JournalVersion1 uint16 = 1

	JournalStatusOpen   uint16 = 0
	JournalStatusClosed uint16 = 1

	// 4 (magic) + 2 (version) + 2 (status) + 8 (seq) + 8 (data length)
	JournalHeaderSize = 24
)

// JournalHeader prefixes every mmap-backed journal file.
type JournalHeader struct {
	Magic      uint32
	Version    uint16
	Status     uint16
	SeqNo      uint64
	DataLength uint64
}

// JournalBaseName is the file name prefix for journal segments.
const JournalBaseName = "journal"

// RangeIndex is the contract for a dynamic best-non-adjacent-sum index
// over a sequence of weights. It abstracts the underlying structure so
// the driver can run against either the segment tree or the naive DP.
type RangeIndex interface {
	// Reset discards all state and re-indexes the given weights.
	Reset(weights []int64) error

	// Update replaces the weight at pos.
	Update(pos int, value int64) error

	// Best returns the maximum sum of a subset of weights with no two
	// chosen positions adjacent. Never negative: the empty subset counts.
	Best() int64

	// Size returns the number of indexed positions.
	Size() int

	// SnapshotWeights returns a copy of the current weights.
	SnapshotWeights() []int64
}

// Journal is the buffered, append-only audit trail of driver steps.
type Journal interface {
	// LogApply appends a step record to the buffer (no disk write yet).
	LogApply(item ApplyLogItem) error
	// LogSnapshot appends a snapshot marker to the buffer.
	LogSnapshot(item SnapshotLogItem) error
	// LogRotate appends a rotation marker to the buffer.
	LogRotate(item RotateLogItem) error
	// Flush writes all buffered records to storage.
	Flush() error
	// Reset drops any buffered, unflushed records.
	Reset()
	// Size reports the bytes already flushed to storage.
	Size() (int64, error)
	// Rotate switches to a new journal file.
	Rotate(path string) error
	// Close releases the underlying storage.
	Close() error
}

// LogFormatter encodes and decodes journal records.
type LogFormatter interface {
	Encode(items []JournalEntry) ([]byte, error)
	Decode(data []byte) ([]JournalEntry, error)
}

// Storage is the byte-level backend of a journal.
type Storage interface {
	Write(data []byte) error
	CanWrite(size int) bool
	Size() (int64, error)
	Flush() error
	Rotate(newPath string) error
	Close() error
}

// Utils groups the environment services handed to components.
type Utils interface {
	GetLogger() *slog.Logger
	GenSnapshotPath() *string
	GenRotatedJournalPath() *string
}

// Context carries the shared dependencies for the driver.
type Context struct {
	Journal Journal
	Utils   Utils
}

// Error
type errString string

func (e errString) Error() string { return string(e) }

const ErrInvalidSize = errString("weight sequence must not be empty")
const ErrIndexOutOfRange = errString("position outside the weight sequence")
const ErrJournalFull = errString("journal file is full")
const ErrJournalBufferNotEmpty = errString("journal buffer is not empty, flush before rotate")
const ErrShuttingDown = errString("request cancelled: driver shutting down")
