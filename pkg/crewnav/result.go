package crewnav

import (
	"context"
	"sync"
)

// Outcome describes how a navigation entry's result slot was settled.
type Outcome int

const (
	OutcomeNone      Outcome = iota // Entry was replaced, reset, or popped without a result
	OutcomeResult                   // Entry was popped with a caller-supplied result
	OutcomeCancelled                // Request was superseded by a newer navigation
)

// PopResult is the value a result slot settles with.
type PopResult struct {
	Outcome Outcome
	Value   any // Set when Outcome == OutcomeResult
}

// ResultSlot is a single-assignment future tied to a navigation entry.
// It is created when the entry is pushed and settled exactly once: by Pop
// with the popped result, by Replace/Reset with no result, or with a
// cancelled outcome when the navigation was superseded. Every operation
// guarantees its slot settles eventually; callers never wait forever.
type ResultSlot struct {
	once   sync.Once
	done   chan struct{}
	result PopResult
}

func newResultSlot() *ResultSlot {
	return &ResultSlot{done: make(chan struct{})}
}

func settledSlot(r PopResult) *ResultSlot {
	s := newResultSlot()
	s.settle(r)
	return s
}

func (s *ResultSlot) settle(r PopResult) {
	s.once.Do(func() {
		s.result = r
		close(s.done)
	})
}

// Done returns a channel closed when the slot settles.
func (s *ResultSlot) Done() <-chan struct{} {
	return s.done
}

// Get blocks until the slot settles or ctx is cancelled.
func (s *ResultSlot) Get(ctx context.Context) (PopResult, error) {
	select {
	case <-s.done:
		return s.result, nil
	case <-ctx.Done():
		return PopResult{}, ctx.Err()
	}
}

// TryGet returns the settled result, or false if the slot is still pending.
func (s *ResultSlot) TryGet() (PopResult, bool) {
	select {
	case <-s.done:
		return s.result, true
	default:
		return PopResult{}, false
	}
}
