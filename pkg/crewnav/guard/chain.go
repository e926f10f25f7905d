package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldstack/crewnav/pkg/crewnav/route"
)

// Chain is an ordered composition of capability-tagged guards.
//
// Registration order is a contract, not an implementation detail: guards run
// in the order they were added with Use, so an authentication guard
// registered before an authorization guard is guaranteed to deny first,
// sending an unauthenticated user to login rather than to an access-denied
// screen. Evaluation short-circuits on the first denial; later guards must
// not run, since their checks may be meaningless without the earlier ones
// passing.
//
// Build the chain once at startup; after that it is read-only and safe for
// concurrent use.
type Chain struct {
	guards          []tagged
	failureFallback string
}

type tagged struct {
	tag   string
	guard Guard
}

// NewChain creates an empty guard chain.
func NewChain() *Chain {
	return &Chain{}
}

// Use appends a guard under the given capability tag.
// Routes declaring that tag are evaluated by this guard, in Use order.
func (c *Chain) Use(tag string, g Guard) *Chain {
	c.guards = append(c.guards, tagged{tag: tag, guard: g})
	return c
}

// WithFailureFallback sets the location a failing guard denies to when the
// guard itself supplied no fallback. Without it, a guard error with no
// fallback propagates as an error (fail closed).
func (c *Chain) WithFailureFallback(location string) *Chain {
	c.failureFallback = location
	return c
}

// Evaluate runs the guards selected by the route's capability tags, in chain
// order, against nc.
//
// The first denial wins and stops evaluation. A route with no capability
// tags, or whose tags select no guards, is allowed. A guard error is treated
// as a denial using the guard-supplied fallback, then the chain's failure
// fallback; if neither exists the error propagates. A denial without any
// fallback is a *ConfigError.
func (c *Chain) Evaluate(ctx context.Context, def route.Definition, nc Context) (Decision, error) {
	for _, entry := range c.guards {
		if !def.RequiresCapability(entry.tag) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Decision{}, err
		}

		decision, err := entry.guard.Evaluate(ctx, nc)
		if err != nil {
			fallback := decision.Fallback
			if fallback == "" {
				fallback = c.failureFallback
			}
			if fallback == "" {
				return Decision{}, fmt.Errorf("guard %q failed evaluating %s: %w", entry.tag, nc.Target, err)
			}
			return Decision{Allowed: false, Fallback: fallback}, nil
		}
		if decision.Allowed {
			continue
		}
		if decision.Fallback == "" {
			return Decision{}, &ConfigError{Tag: entry.tag, Target: nc.Target}
		}
		return decision, nil
	}
	return Allow(), nil
}

// ConfigError indicates a guard denied a navigation without supplying a
// fallback location.
type ConfigError struct {
	Tag    string
	Target string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("guard %q denied %s without a fallback location", e.Tag, e.Target)
}

// IsConfigError checks if an error indicates a misconfigured guard decision.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
