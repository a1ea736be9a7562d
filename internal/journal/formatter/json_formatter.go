package formatter

import (
	"encoding/json"
	"fmt"

	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// JSONFormatter encodes journal records as JSONL, one record per line.
type JSONFormatter struct{}

var _ types.LogFormatter = (*JSONFormatter)(nil)

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Encode(items []types.JournalEntry) ([]byte, error) {
	var encoded []byte
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, data...)
		encoded = append(encoded, '\n')
	}
	return encoded, nil
}

// journalEntryWrapper unmarshals the polymorphic record types by peeking
// at the type tag first.
type journalEntryWrapper struct {
	types.JournalEntry
}

func (w *journalEntryWrapper) UnmarshalJSON(data []byte) error {
	type typeFinder struct {
		Type types.LogType `json:"type"`
	}
	var tf typeFinder
	if err := json.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("failed to find type: %w", err)
	}

	var entry types.JournalEntry
	switch tf.Type {
	case types.LogTypeApply:
		entry = &types.ApplyLogItem{}
	case types.LogTypeSnapshot:
		entry = &types.SnapshotLogItem{}
	case types.LogTypeRotate:
		entry = &types.RotateLogItem{}
	default:
		return fmt.Errorf("unknown log type: %d", tf.Type)
	}

	if err := json.Unmarshal(data, entry); err != nil {
		return err
	}
	w.JournalEntry = entry
	return nil
}

func (f *JSONFormatter) Decode(data []byte) ([]types.JournalEntry, error) {
	var items []types.JournalEntry
	for _, line := range splitLines(data) {
		if len(line) == 0 {
			continue
		}

		var wrapper journalEntryWrapper
		if err := json.Unmarshal(line, &wrapper); err != nil {
			return nil, err
		}
		items = append(items, wrapper.JournalEntry)
	}
	return items, nil
}

// splitLines splits a byte slice into lines, handling both \n and \r\n.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			end := i
			if end > start && data[end-1] == '\r' {
				end--
			}
			lines = append(lines, data[start:end])
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}
