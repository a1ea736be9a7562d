// Package replay re-executes a recorded run against a fresh weight
// sequence and cross-checks every journaled step result. It verifies
// that a journal is an accurate trace of the driver, it does not
// restore driver state.
package replay

import (
	"fmt"

	"github.com/ltnguyen02/tiny-range-index-go/internal/journal"
	"github.com/ltnguyen02/tiny-range-index-go/internal/sequence"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// Mismatch is one disagreement between a journaled step and the value
// recomputed from the initial weights.
type Mismatch struct {
	Step     int64
	Field    string
	Recorded int64
	Computed int64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("step %d: %s recorded=%d computed=%d", m.Step, m.Field, m.Recorded, m.Computed)
}

// Report summarizes a verification pass over one or more journal segments.
type Report struct {
	Steps      int
	Failed     int
	Mismatches []Mismatch
}

// OK reports whether every journaled step matched the recomputation.
func (r *Report) OK() bool { return len(r.Mismatches) == 0 }

// ApplyLog re-executes a single journal entry against the sequence and
// returns the updated running total. Non-apply entries are skipped.
func ApplyLog(seq *sequence.Sequence, total uint64, modulus uint64, log types.JournalEntry, report *Report) uint64 {
	item, ok := log.(*types.ApplyLogItem)
	if !ok {
		return total
	}

	if !item.Success {
		// The driver rejected this step, so it must fail here too.
		report.Failed++
		if _, err := seq.Apply(item.Pos, item.Value); err == nil {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Step:  item.Step,
				Field: "success",
			})
		}
		return total
	}

	report.Steps++
	best, err := seq.Apply(item.Pos, item.Value)
	if err != nil {
		report.Mismatches = append(report.Mismatches, Mismatch{
			Step:     item.Step,
			Field:    "apply",
			Recorded: item.Best,
		})
		return total
	}

	total = (total + uint64(best)) % modulus
	if best != item.Best {
		report.Mismatches = append(report.Mismatches, Mismatch{
			Step:     item.Step,
			Field:    "best",
			Recorded: item.Best,
			Computed: best,
		})
	}
	if total != item.Total {
		report.Mismatches = append(report.Mismatches, Mismatch{
			Step:     item.Step,
			Field:    "total",
			Recorded: int64(item.Total),
			Computed: int64(total),
		})
	}
	return total
}

// ReplayLogs re-executes a series of entries, collecting mismatches.
func ReplayLogs(seq *sequence.Sequence, modulus uint64, logs []types.JournalEntry) *Report {
	if modulus == 0 {
		modulus = types.DefaultModulus
	}
	report := &Report{}
	var total uint64
	for _, item := range logs {
		total = ApplyLog(seq, total, modulus, item, report)
	}
	return report
}

// VerifyJournal parses the given journal segments in order, re-executes
// the recorded steps starting from weights and reports any divergence.
func VerifyJournal(journalPaths []string, weights []int64, modulus uint64, format types.LogFormatter) (*Report, error) {
	var allEntries []types.JournalEntry
	for _, path := range journalPaths {
		entries, _, err := journal.ParseJournal(path, format)
		if err != nil {
			return nil, fmt.Errorf("error parsing journal file %s: %w", path, err)
		}
		allEntries = append(allEntries, entries...)
	}

	seq, err := sequence.New(weights)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild sequence: %w", err)
	}

	return ReplayLogs(seq, modulus, allEntries), nil
}
