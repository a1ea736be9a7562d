package journalstream

import "github.com/ltnguyen02/tiny-range-index-go/internal/types"

// NoOpStreamer discards every entry. Used when streaming is disabled.
type NoOpStreamer struct{}

// NewNoOpStreamer creates a new NoOpStreamer.
func NewNoOpStreamer() *NoOpStreamer {
	return &NoOpStreamer{}
}

// Stream does nothing.
func (s *NoOpStreamer) Stream(log types.JournalEntry) {}
