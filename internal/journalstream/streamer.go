// Package journalstream fans journal entries out to live observers,
// independently of the buffered journal writer.
package journalstream

import (
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// Streamer receives each journal entry as soon as it is recorded.
// Implementations must not block the caller.
type Streamer interface {
	Stream(log types.JournalEntry)
}
