package journal

import (
	"bytes"
	"encoding/binary"

	"github.com/ltnguyen02/tiny-range-index-go/internal/journal/formatter"
	"github.com/ltnguyen02/tiny-range-index-go/internal/journal/storage"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
	"github.com/ltnguyen02/tiny-range-index-go/internal/utils"
)

// Journal buffers driver step records and flushes them to a pluggable
// storage backend through a pluggable formatter. It is an audit trail of
// a run, not a recovery log: nothing in the index is ever restored from it.
type Journal struct {
	formatter types.LogFormatter
	storage   types.Storage
	buffer    []types.JournalEntry
	path      string
	seqNo     uint64
}

var _ types.Journal = (*Journal)(nil)

// NewJournal opens a journal at path. A nil formatter defaults to JSONL,
// a nil storage to a plain append-only file.
func NewJournal(path string, seqNo uint64, format types.LogFormatter, store types.Storage) (*Journal, error) {
	if format == nil {
		format = formatter.NewJSONFormatter()
	}
	if store == nil {
		var err error
		store, err = storage.NewFileStorage(path, seqNo)
		if err != nil {
			return nil, err
		}
	}

	return &Journal{
		formatter: format,
		storage:   store,
		buffer:    make([]types.JournalEntry, 0, 4096),
		path:      path,
		seqNo:     seqNo,
	}, nil
}

// LogApply appends a step record to the buffer.
func (j *Journal) LogApply(item types.ApplyLogItem) error {
	j.buffer = append(j.buffer, &item)
	return nil
}

// LogSnapshot appends a snapshot marker to the buffer.
func (j *Journal) LogSnapshot(item types.SnapshotLogItem) error {
	j.buffer = append(j.buffer, &item)
	return nil
}

// LogRotate appends a rotation marker to the buffer.
func (j *Journal) LogRotate(item types.RotateLogItem) error {
	j.buffer = append(j.buffer, &item)
	return nil
}

// Flush encodes and writes all buffered records.
// Returns types.ErrJournalFull when the storage cannot take them.
func (j *Journal) Flush() error {
	if len(j.buffer) == 0 {
		return nil
	}

	data, err := j.formatter.Encode(j.buffer)
	if err != nil {
		return err
	}

	if !j.storage.CanWrite(len(data)) {
		return types.ErrJournalFull
	}

	if err := j.storage.Write(data); err != nil {
		return err
	}

	j.buffer = j.buffer[:0]
	return j.storage.Flush()
}

// Reset drops any buffered, unflushed records.
func (j *Journal) Reset() {
	j.buffer = j.buffer[:0]
}

// Size reports the bytes already flushed to storage.
func (j *Journal) Size() (int64, error) {
	return j.storage.Size()
}

// Rotate switches to a new journal file. The buffer must be empty so no
// record straddles two files.
func (j *Journal) Rotate(path string) error {
	if len(j.buffer) > 0 {
		return types.ErrJournalBufferNotEmpty
	}
	if err := j.storage.Rotate(path); err != nil {
		return err
	}

	// The new segment opens with a marker pointing back at the old one.
	j.buffer = append(j.buffer, &types.RotateLogItem{
		JournalEntryBase: types.JournalEntryBase{Type: types.LogTypeRotate},
		OldPath:          j.path,
		NewPath:          path,
	})
	j.path = path
	j.seqNo++
	return nil
}

// Close releases the storage. Buffered records are discarded; callers
// flush first if they want them.
func (j *Journal) Close() error {
	return j.storage.Close()
}

// ParseJournal reads a journal file and decodes its records. Files written
// by the mmap backend start with a binary header and may carry zero
// padding after the data; both are stripped before decoding. The header
// is returned when present, nil otherwise.
func ParseJournal(path string, format types.LogFormatter) ([]types.JournalEntry, *types.JournalHeader, error) {
	data, err := utils.ReadFileContent(path)
	if err != nil {
		return nil, nil, err
	}

	var hdr *types.JournalHeader
	if len(data) >= types.JournalHeaderSize &&
		binary.LittleEndian.Uint32(data[:4]) == types.JournalMagic {
		var h types.JournalHeader
		if err := binary.Read(bytes.NewReader(data[:types.JournalHeaderSize]), binary.LittleEndian, &h); err != nil {
			return nil, nil, err
		}
		hdr = &h
		if h.Status == types.JournalStatusClosed && h.DataLength > 0 {
			data = data[types.JournalHeaderSize : types.JournalHeaderSize+int(h.DataLength)]
		} else {
			data = data[types.JournalHeaderSize:]
		}
	}

	entries, err := format.Decode(data)
	if err != nil {
		return nil, hdr, err
	}
	return entries, hdr, nil
}
