package driver

import (
	"context"
	"fmt"
	"sync"

	"github.com/ltnguyen02/tiny-range-index-go/internal/journalstream"
	"github.com/ltnguyen02/tiny-range-index-go/internal/sequence"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// System manages the lifecycle of a Runner and provides a client-facing API.
// All methods are safe for concurrent use: they only post messages to the
// runner's mailbox and wait on a private response channel.
type System struct {
	runner   *Runner
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// SystemOptional provides optional parameters for creating a new System.
type SystemOptional struct {
	FlushAfterNSteps int
	MailboxSize      int
	Modulus          uint64
	Streamer         journalstream.Streamer
}

// NewSystem creates, starts, and returns a new driver system.
func NewSystem(ctx *types.Context, seq *sequence.Sequence, opt *SystemOptional) (*System, error) {
	flushN := 10
	if opt != nil && opt.FlushAfterNSteps > 0 {
		flushN = opt.FlushAfterNSteps
	}
	mailboxSize := 100
	if opt != nil && opt.MailboxSize > 0 {
		mailboxSize = opt.MailboxSize
	}
	modulus := uint64(0)
	if opt != nil {
		modulus = opt.Modulus
	}

	runner := NewRunner(ctx, seq, mailboxSize, flushN, modulus)
	if opt != nil && opt.Streamer != nil {
		runner.SetStreamer(opt.Streamer)
	}

	if err := runner.Init(); err != nil {
		ctx.Journal.Close()
		return nil, fmt.Errorf("runner initialization failed: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	sys := &System{
		runner: runner,
		cancel: cancel,
	}

	sys.wg.Add(1)
	go func() {
		defer sys.wg.Done()
		sys.runner.Receive(runCtx)
	}()

	return sys, nil
}

// Apply submits one point update and waits for the step result.
func (s *System) Apply(pos int, value int64) ApplyResponse {
	respChan := make(chan ApplyResponse, 1)
	s.runner.mailbox <- ApplyMessage{Pos: pos, Value: value, ResponseChan: respChan}
	return <-respChan
}

// Run applies a batch of updates in order. It stops at the first failed
// step and returns the running total reached so far together with the
// step's error.
func (s *System) Run(updates []types.Update) (uint64, error) {
	var total uint64
	for _, u := range updates {
		resp := s.Apply(u.Pos, u.Value)
		if resp.Err != nil {
			return total, fmt.Errorf("update (pos=%d, value=%d) failed: %w", u.Pos, u.Value, resp.Err)
		}
		total = resp.Total
	}
	return total, nil
}

// Best returns the current best non-adjacent sum.
func (s *System) Best() int64 {
	respChan := make(chan int64, 1)
	s.runner.mailbox <- BestMessage{ResponseChan: respChan}
	return <-respChan
}

// Total returns the modular running total of all successful steps.
func (s *System) Total() uint64 {
	respChan := make(chan uint64, 1)
	s.runner.mailbox <- TotalMessage{ResponseChan: respChan}
	return <-respChan
}

// State returns a copy of the current weights.
func (s *System) State() []int64 {
	respChan := make(chan []int64, 1)
	s.runner.mailbox <- StateMessage{ResponseChan: respChan}
	return <-respChan
}

// Flush manually triggers a journal flush.
func (s *System) Flush() error {
	respChan := make(chan error, 1)
	s.runner.mailbox <- FlushMessage{ResponseChan: respChan}
	return <-respChan
}

// Snapshot manually triggers a sequence snapshot.
func (s *System) Snapshot() error {
	respChan := make(chan error, 1)
	s.runner.mailbox <- SnapshotMessage{ResponseChan: respChan}
	return <-respChan
}

// Stop gracefully shuts down the system: remaining mailbox messages are
// cancelled, buffered journal records are flushed and the journal closed.
func (s *System) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
}
