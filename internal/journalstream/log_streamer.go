package journalstream

import (
	"encoding/json"
	"log/slog"

	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// LogStreamer emits every journal entry through a structured logger.
// Useful for tailing a run from a terminal or a log pipeline.
type LogStreamer struct {
	logger *slog.Logger
}

// NewLogStreamer creates a new LogStreamer.
func NewLogStreamer(logger *slog.Logger) *LogStreamer {
	return &LogStreamer{logger: logger}
}

// Stream logs the journal entry as a JSON payload.
func (s *LogStreamer) Stream(log types.JournalEntry) {
	b, err := json.Marshal(log)
	if err != nil {
		s.logger.Error("failed to marshal journal entry", "error", err)
		return
	}
	s.logger.Info("streaming journal entry", "entry", string(b))
}
