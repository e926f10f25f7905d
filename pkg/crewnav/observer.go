package crewnav

import (
	"github.com/google/uuid"
)

// Cause identifies what initiated a committed transition.
type Cause int

const (
	CauseUser     Cause = iota // Direct caller navigation (push, replace, pop)
	CauseRedirect              // Guard fallback redirected the requested location
	CauseSignal                // ChangeSignal forced re-evaluation of the current location
)

func (c Cause) String() string {
	switch c {
	case CauseUser:
		return "user"
	case CauseRedirect:
		return "redirect"
	case CauseSignal:
		return "signal"
	}
	return "unknown"
}

// Transition describes one committed navigation, emitted to observers after
// the state change. Collection logic (analytics, logging) lives outside the
// engine.
type Transition struct {
	ID    uuid.UUID
	From  string
	To    string
	Cause Cause
}

// TransitionFunc receives committed transitions.
type TransitionFunc func(Transition)

// notifyQueueSize bounds the observation queue. Delivery is best-effort:
// when observers fall this far behind, transitions are dropped and logged
// rather than blocking navigation.
const notifyQueueSize = 64

// OnTransition registers an observer for committed transitions.
//
// Observers run on a dedicated dispatch goroutine, in commit order. They can
// neither block nor fail a navigation; a panicking observer is logged and
// the engine carries on.
func (c *Controller) OnTransition(fn TransitionFunc) *Controller {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	if c.notifyCh == nil {
		c.notifyCh = make(chan Transition, notifyQueueSize)
		go c.dispatch(c.notifyCh)
	}
	c.mu.Unlock()
	return c
}

func (c *Controller) notify(from, to string, cause Cause) {
	c.mu.Lock()
	ch := c.notifyCh
	c.mu.Unlock()
	if ch == nil {
		return
	}

	t := Transition{ID: uuid.New(), From: from, To: to, Cause: cause}
	select {
	case ch <- t:
	default:
		c.logger.Warn("transition observers lagging, dropping notification",
			"from", t.From, "to", t.To, "cause", t.Cause.String())
	}
}

func (c *Controller) dispatch(ch <-chan Transition) {
	for t := range ch {
		c.deliver(t)
	}
}

func (c *Controller) deliver(t Transition) {
	c.mu.Lock()
	observers := make([]TransitionFunc, len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, fn := range observers {
		c.deliverOne(fn, t)
	}
}

// deliverOne isolates a single observer call so one panicking observer
// cannot starve the rest of the transition.
func (c *Controller) deliverOne(fn TransitionFunc, t Transition) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("transition observer panicked",
				"from", t.From, "to", t.To, "panic", r)
		}
	}()
	fn(t)
}
