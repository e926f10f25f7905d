// Package guard defines the access-control abstraction for the navigation
// engine: a Guard approves or denies a navigation and supplies a fallback
// location when denying, and a Chain composes guards in a significant order.
//
// Guards are constructed by the application (typically through the dependency
// registry) and handed to the chain as ready instances; the engine never
// builds guards itself.
package guard

import "context"

// Context carries the per-request navigation data a guard evaluates against.
// It is constructed once per navigation and never mutated afterwards; guards
// receive it by value. Cancellation is propagated through the separate
// context.Context argument of Evaluate.
type Context struct {
	Target string            // The location under evaluation
	Params map[string]string // Parameters bound by route matching
	Extra  any               // Opaque caller payload, passed through untouched
}

// Decision is a guard's verdict on a navigation.
// Fallback is required when Allowed is false; a denying decision without a
// fallback is a configuration error surfaced by the chain.
type Decision struct {
	Allowed  bool
	Fallback string
}

// Allow returns an approving decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision redirecting to fallback.
func Deny(fallback string) Decision {
	return Decision{Fallback: fallback}
}

// Guard is a unit of access-control logic.
//
// Evaluate may perform asynchronous work (e.g., validating a session token)
// and must be safe to invoke repeatedly and concurrently with itself. A
// guard honors ctx cancellation; it is the only cancellation mechanism the
// engine provides. A guard that fails (returns an error) is always treated
// as denying, never as allowing.
type Guard interface {
	Evaluate(ctx context.Context, nc Context) (Decision, error)
}

// Func adapts a plain function to the Guard interface.
type Func func(ctx context.Context, nc Context) (Decision, error)

// Evaluate calls f.
func (f Func) Evaluate(ctx context.Context, nc Context) (Decision, error) {
	return f(ctx, nc)
}
