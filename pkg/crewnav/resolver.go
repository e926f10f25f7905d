package crewnav

import (
	"context"

	"github.com/fieldstack/crewnav/pkg/crewnav/guard"
	"github.com/fieldstack/crewnav/pkg/crewnav/route"
)

// Resolver computes the canonical destination for a requested location by
// matching it against the route table and following guard fallbacks until a
// guard-approved location is reached or a loop is detected.
type Resolver struct {
	table *route.Table
	chain *guard.Chain
}

// NewResolver creates a resolver over the given table and guard chain.
func NewResolver(table *route.Table, chain *guard.Chain) *Resolver {
	return &Resolver{table: table, chain: chain}
}

// Resolve returns the effective destination for requested.
//
// Each candidate location is matched against the table (an unmatched
// location propagates *route.NotFoundError, it is not retried here) and
// evaluated against the guard chain. An approved candidate is returned
// together with its match. A denial moves resolution to the decision's
// fallback.
//
// Fallback chains must be acyclic: revisiting a location, or exceeding a cap
// of registered routes + 1 hops, fails with *RedirectLoopError. The cap is a
// defense-in-depth bound on top of the visited set.
func (r *Resolver) Resolve(ctx context.Context, requested string, extra any) (string, route.Match, error) {
	current := requested
	visited := make(map[string]struct{})
	var hops []string

	maxHops := r.table.Len() + 1
	for i := 0; i < maxHops; i++ {
		match, err := r.table.Resolve(current)
		if err != nil {
			return "", route.Match{}, err
		}

		nc := guard.Context{Target: current, Params: match.Params, Extra: extra}
		decision, err := r.chain.Evaluate(ctx, match.Route, nc)
		if err != nil {
			return "", route.Match{}, err
		}
		if decision.Allowed {
			return current, match, nil
		}

		next := decision.Fallback
		if _, seen := visited[next]; seen {
			return "", route.Match{}, &RedirectLoopError{Requested: requested, Chain: append(hops, current, next)}
		}
		visited[current] = struct{}{}
		hops = append(hops, current)
		current = next
	}
	return "", route.Match{}, &RedirectLoopError{Requested: requested, Chain: hops}
}
