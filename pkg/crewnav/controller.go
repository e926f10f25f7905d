package crewnav

import (
	"context"
	"log/slog"
	"sync"

	"go.uber.org/atomic"

	"github.com/fieldstack/crewnav/pkg/crewnav/internal"
	"github.com/fieldstack/crewnav/pkg/crewnav/route"
)

type entry struct {
	location string
	slot     *ResultSlot
}

// Controller owns the navigation stack and current-location state and is the
// engine's public API. Every transition goes through the resolver first, so
// the committed destination is always guard-approved.
//
// The controller is the single writer of its state: all mutations happen
// under its mutex, and no two operations interleave their read-modify-write
// of the stack. Guard evaluation runs outside the lock and may suspend; a
// newer navigation supersedes an in-flight one (last requested wins), and
// the loser's result slot settles as cancelled without touching the stack.
type Controller struct {
	resolver *Resolver
	initial  string

	mu             sync.Mutex
	stack          []entry
	current        string
	cancelInflight context.CancelFunc
	observers      []TransitionFunc
	notifyCh       chan Transition

	gen           atomic.Uint64
	signalPending atomic.Bool

	logger *slog.Logger
}

// NewController creates a controller seeded with a sentinel root entry at
// the initial location. The root is never popped, so the stack is never
// empty.
func NewController(resolver *Resolver, initial string) *Controller {
	initial = route.Normalize(initial)
	return &Controller{
		resolver: resolver,
		initial:  initial,
		stack:    []entry{{location: initial, slot: newResultSlot()}},
		current:  initial,
		logger:   internal.GetInternalLogger(),
	}
}

// Current returns the engine's current location.
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Depth returns the navigation stack depth, root included.
func (c *Controller) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stack)
}

// NavigateTo resolves location through the guard chain and pushes the
// effective destination onto the stack. The returned slot settles with the
// eventual pop result of the pushed entry.
//
// When the resolved destination equals the current location and there is
// nothing beneath it to return to, the call is a no-op and the returned slot
// is already settled with an empty result, avoiding duplicate stack entries
// for the same screen.
//
// A *route.NotFoundError or *RedirectLoopError leaves the stack unchanged
// and is returned alongside an already-settled slot. If a newer navigation
// supersedes this one mid-evaluation, the slot settles cancelled and
// ErrSuperseded is returned.
func (c *Controller) NavigateTo(ctx context.Context, location string, extra any) (*ResultSlot, error) {
	return c.navigate(ctx, location, extra, false)
}

// ReplaceTo is NavigateTo except the effective destination replaces the top
// stack entry instead of pushing. The replaced entry's slot settles
// immediately with no result: a replaced entry can never receive a pop
// result.
func (c *Controller) ReplaceTo(ctx context.Context, location string, extra any) (*ResultSlot, error) {
	return c.navigate(ctx, location, extra, true)
}

func (c *Controller) navigate(ctx context.Context, location string, extra any, replace bool) (*ResultSlot, error) {
	location = route.Normalize(location)

	navCtx, cancel, myGen := c.begin(ctx)
	defer cancel()

	resolved, _, err := c.resolver.Resolve(navCtx, location, extra)

	c.mu.Lock()
	if c.gen.Load() != myGen {
		c.mu.Unlock()
		return settledSlot(PopResult{Outcome: OutcomeCancelled}), ErrSuperseded
	}
	c.cancelInflight = nil

	if err != nil {
		c.mu.Unlock()
		c.drainSignal()
		return settledSlot(PopResult{}), err
	}

	from := c.current
	cause := CauseUser
	if resolved != location {
		cause = CauseRedirect
	}

	slot := newResultSlot()
	if replace {
		top := len(c.stack) - 1
		prev := c.stack[top]
		c.stack[top] = entry{location: resolved, slot: slot}
		prev.slot.settle(PopResult{})
	} else {
		if resolved == c.current && len(c.stack) == 1 {
			c.mu.Unlock()
			c.drainSignal()
			return settledSlot(PopResult{}), nil
		}
		c.stack = append(c.stack, entry{location: resolved, slot: slot})
	}
	c.current = resolved
	c.mu.Unlock()

	c.notify(from, resolved, cause)
	c.drainSignal()
	return slot, nil
}

// begin registers a navigation attempt: it bumps the generation counter,
// cancels any evaluation still in flight, and installs this attempt's cancel
// func so a later request can supersede it in turn.
func (c *Controller) begin(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	myGen := c.gen.Inc()
	if c.cancelInflight != nil {
		c.cancelInflight()
	}
	navCtx, cancel := context.WithCancel(ctx)
	c.cancelInflight = cancel
	return navCtx, cancel, myGen
}

// Pop removes the top stack entry, settling its slot with result.
// Popping the sentinel root is a silent no-op; Pop reports whether an entry
// was actually removed.
func (c *Controller) Pop(result any) bool {
	c.mu.Lock()
	if len(c.stack) <= 1 {
		c.mu.Unlock()
		return false
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	from := c.current
	c.current = c.stack[len(c.stack)-1].location
	to := c.current
	c.mu.Unlock()

	top.slot.settle(PopResult{Outcome: OutcomeResult, Value: result})
	c.notify(from, to, CauseUser)
	return true
}

// PopUntil pops entries until the current location equals location or only
// the root remains. A location that is not on the stack is not an error: the
// stack simply unwinds to the root and stops. Popped entries settle with no
// result.
func (c *Controller) PopUntil(location string) {
	location = route.Normalize(location)

	c.mu.Lock()
	var popped []entry
	from := c.current
	for c.current != location && len(c.stack) > 1 {
		popped = append(popped, c.stack[len(c.stack)-1])
		c.stack = c.stack[:len(c.stack)-1]
		c.current = c.stack[len(c.stack)-1].location
	}
	to := c.current
	c.mu.Unlock()

	for _, e := range popped {
		e.slot.settle(PopResult{})
	}
	if len(popped) > 0 {
		c.notify(from, to, CauseUser)
	}
}

// Reset clears the stack back to a single root entry at the configured
// initial location. All discarded entries settle with no result.
func (c *Controller) Reset() {
	c.mu.Lock()
	discarded := c.stack
	from := c.current
	c.stack = []entry{{location: c.initial, slot: newResultSlot()}}
	c.current = c.initial
	to := c.current
	c.mu.Unlock()

	for _, e := range discarded {
		e.slot.settle(PopResult{})
	}
	if from != to {
		c.notify(from, to, CauseUser)
	}
}

// beginSignal registers a signal re-evaluation attempt. Unlike begin, it
// never supersedes: a navigation already in flight takes precedence, so the
// firing is latched for that navigation to drain once it settles. The check
// and the registration happen under one lock acquisition, leaving no window
// for a signal to cancel a navigation that started in between.
func (c *Controller) beginSignal() (context.Context, context.CancelFunc, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelInflight != nil {
		c.signalPending.Store(true)
		return nil, nil, 0, false
	}
	myGen := c.gen.Inc()
	navCtx, cancel := context.WithCancel(context.Background())
	c.cancelInflight = cancel
	return navCtx, cancel, myGen, true
}

// reevaluate re-runs redirect resolution against the current location and
// performs an implicit replace when the destination changed, e.g. a session
// expiring mid-screen forcing a redirect to login. A user action arriving
// mid-evaluation supersedes it; firings latched while it runs are drained
// once it settles, like any other navigation.
func (c *Controller) reevaluate() {
	navCtx, cancel, myGen, ok := c.beginSignal()
	if !ok {
		return
	}
	defer cancel()

	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	resolved, _, err := c.resolver.Resolve(navCtx, current, nil)

	c.mu.Lock()
	if c.gen.Load() != myGen {
		c.mu.Unlock()
		return
	}
	c.cancelInflight = nil
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("signal re-evaluation failed", "location", current, "error", err)
		c.drainSignal()
		return
	}
	if resolved == c.current {
		c.mu.Unlock()
		c.drainSignal()
		return
	}

	from := c.current
	top := len(c.stack) - 1
	prev := c.stack[top]
	slot := newResultSlot()
	c.stack[top] = entry{location: resolved, slot: slot}
	c.current = resolved
	c.mu.Unlock()

	prev.slot.settle(PopResult{})
	c.notify(from, resolved, CauseSignal)
	c.drainSignal()
}

// drainSignal runs a latched ChangeSignal firing after a navigation settles.
// Firings that arrive while a navigation is in flight are queued against the
// state after it settles, never interleaved into it.
func (c *Controller) drainSignal() {
	if c.signalPending.CompareAndSwap(true, false) {
		c.reevaluate()
	}
}
