package driver

import (
	"context"
	"fmt"

	"github.com/ltnguyen02/tiny-range-index-go/internal/journalstream"
	"github.com/ltnguyen02/tiny-range-index-go/internal/sequence"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// Runner owns the driver state: the step counter and the running total.
// It processes mailbox messages one at a time in a single goroutine, so
// updates are applied in exactly the order they were submitted and each
// step's best sum reflects all steps before it.
//
// Only the running total is ever reduced modulo the configured modulus.
// Index aggregates stay plain int64, since reducing them would break the max
// comparisons inside the tree.
type Runner struct {
	ctx              *types.Context
	seq              *sequence.Sequence
	mailbox          chan interface{}
	flushAfterNSteps int
	pendingLogs      []types.JournalEntry
	modulus          uint64
	step             uint64
	total            uint64
	streamer         journalstream.Streamer
}

// NewRunner creates a runner. A zero modulus falls back to the default.
func NewRunner(ctx *types.Context, seq *sequence.Sequence, mailboxSize, flushAfterNSteps int, modulus uint64) *Runner {
	if modulus == 0 {
		modulus = types.DefaultModulus
	}
	return &Runner{
		ctx:              ctx,
		seq:              seq,
		mailbox:          make(chan interface{}, mailboxSize),
		flushAfterNSteps: flushAfterNSteps,
		pendingLogs:      make([]types.JournalEntry, 0, flushAfterNSteps*2),
		modulus:          modulus,
	}
}

// Init performs one-time setup: a fresh journal starts with a snapshot
// marker so every segment is self-describing.
func (r *Runner) Init() error {
	size, err := r.ctx.Journal.Size()
	if err != nil {
		return fmt.Errorf("could not determine journal size: %w", err)
	}

	if size == 0 {
		if logger := r.ctx.Utils.GetLogger(); logger != nil {
			logger.Info("journal is empty, writing initial snapshot")
		}
		if err := r.snapshot(); err != nil {
			return fmt.Errorf("failed to write initial snapshot: %w", err)
		}
		return r.ctx.Journal.Flush()
	}

	return nil
}

// SetStreamer forwards journal entries to a streamer as they are logged.
func (r *Runner) SetStreamer(s journalstream.Streamer) {
	r.streamer = s
}

// Receive runs the message loop until the context is cancelled.
// Expected to be called in its own goroutine.
func (r *Runner) Receive(ctx context.Context) {
	for {
		select {
		case msg := <-r.mailbox:
			r.handleMessage(msg)
		case <-ctx.Done():
			r.shutdown()
			return
		}
	}
}

func (r *Runner) handleMessage(msg interface{}) {
	switch m := msg.(type) {
	case ApplyMessage:
		r.handleApply(m)
	case BestMessage:
		m.ResponseChan <- r.seq.Best()
	case TotalMessage:
		m.ResponseChan <- r.total
	case StateMessage:
		m.ResponseChan <- r.seq.Weights()
	case FlushMessage:
		m.ResponseChan <- r.flush()
	case SnapshotMessage:
		m.ResponseChan <- r.snapshot()
	}
}

func (r *Runner) handleApply(m ApplyMessage) {
	best, err := r.seq.Apply(m.Pos, m.Value)

	logItem := types.ApplyLogItem{
		JournalEntryBase: types.JournalEntryBase{Type: types.LogTypeApply},
		Pos:              m.Pos,
		Value:            m.Value,
		Success:          err == nil,
	}

	if err == nil {
		r.step++
		r.total = (r.total + uint64(best)) % r.modulus
		logItem.Step = int64(r.step)
		logItem.Best = best
		logItem.Total = r.total
	} else if err == types.ErrIndexOutOfRange {
		logItem.Error = types.ErrorIndexOutOfRange
	}

	walErr := r.ctx.Journal.LogApply(logItem)
	r.pendingLogs = append(r.pendingLogs, &logItem)
	if r.streamer != nil {
		r.streamer.Stream(&logItem)
	}

	if len(r.pendingLogs) >= r.flushAfterNSteps {
		r.flush()
	}

	resp := ApplyResponse{Step: r.step, Best: best, Total: r.total, Err: err}
	if err == nil && walErr != nil {
		resp.Err = walErr
	}
	m.ResponseChan <- resp
}

func (r *Runner) flush() error {
	if len(r.pendingLogs) == 0 {
		return nil
	}

	flushErr := r.ctx.Journal.Flush()
	if flushErr == types.ErrJournalFull {
		return r.handleJournalFull()
	}
	if flushErr != nil {
		// The audit trail for these steps is lost; the index itself is
		// unaffected. Drop the buffered records and surface the error.
		r.ctx.Journal.Reset()
		r.pendingLogs = r.pendingLogs[:0]
		if logger := r.ctx.Utils.GetLogger(); logger != nil {
			logger.Error("[Runner] journal flush failed, dropping buffered records", "error", flushErr)
		}
		return flushErr
	}

	if logger := r.ctx.Utils.GetLogger(); logger != nil {
		logger.Debug(fmt.Sprintf("[Runner] journal flush - %d records", len(r.pendingLogs)))
	}
	r.pendingLogs = r.pendingLogs[:0]
	return nil
}

// handleJournalFull rotates to a fresh segment and re-stages the records
// that did not fit, so a full file costs no audit data.
func (r *Runner) handleJournalFull() error {
	logger := r.ctx.Utils.GetLogger()
	if logger != nil {
		logger.Info("journal is full, rotating to a new segment")
	}

	// 1. Park the records that did not fit and clear both buffers.
	logsToRelog := make([]types.JournalEntry, len(r.pendingLogs))
	copy(logsToRelog, r.pendingLogs)
	r.pendingLogs = r.pendingLogs[:0]
	r.ctx.Journal.Reset()

	// 2. Rotate to the next segment.
	rotatedPath := r.ctx.Utils.GenRotatedJournalPath()
	if rotatedPath == nil {
		if logger != nil {
			logger.Error("journal full and rotation disabled, records dropped", "count", len(logsToRelog))
		}
		return types.ErrJournalFull
	}
	if err := r.ctx.Journal.Rotate(*rotatedPath); err != nil {
		if logger != nil {
			logger.Error("failed to rotate journal", "error", err)
		}
		return err
	}

	// 3. Open the new segment with a snapshot marker, like Init.
	if err := r.snapshot(); err != nil {
		return err
	}

	// 4. Re-stage the parked records into the new segment.
	for _, entry := range logsToRelog {
		if item, ok := entry.(*types.ApplyLogItem); ok {
			r.ctx.Journal.LogApply(*item)
			r.pendingLogs = append(r.pendingLogs, item)
		}
	}

	// 5. Final flush into the new segment.
	if err := r.ctx.Journal.Flush(); err != nil {
		if logger != nil {
			logger.Error("flush failed even after journal rotation", "error", err)
		}
		r.ctx.Journal.Reset()
		r.pendingLogs = r.pendingLogs[:0]
		return err
	}
	r.pendingLogs = r.pendingLogs[:0]
	return nil
}

func (r *Runner) snapshot() error {
	snapshotPath := r.ctx.Utils.GenSnapshotPath()
	if snapshotPath == nil {
		return nil // Snapshotting is disabled.
	}

	if logger := r.ctx.Utils.GetLogger(); logger != nil {
		logger.Info("writing snapshot", "path", *snapshotPath)
	}

	snap := r.seq.CreateSnapshot()
	snap.LastStep = r.step
	snap.RunningTotal = r.total

	if err := sequence.WriteSnapshotFile(*snapshotPath, snap); err != nil {
		return err
	}

	logItem := types.SnapshotLogItem{
		JournalEntryBase: types.JournalEntryBase{Type: types.LogTypeSnapshot},
		Path:             *snapshotPath,
	}
	if err := r.ctx.Journal.LogSnapshot(logItem); err != nil {
		return err
	}
	r.pendingLogs = append(r.pendingLogs, &logItem)
	return nil
}

func (r *Runner) shutdown() {
	if logger := r.ctx.Utils.GetLogger(); logger != nil {
		logger.Debug("[Runner] shutdown")
	}

	// Drain the mailbox and cancel pending requests.
	close(r.mailbox)
	for msg := range r.mailbox {
		if m, ok := msg.(ApplyMessage); ok {
			m.ResponseChan <- ApplyResponse{Err: types.ErrShuttingDown}
		}
	}

	r.flush()
	r.ctx.Journal.Close()
}
