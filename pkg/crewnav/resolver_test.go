package crewnav_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstack/crewnav/pkg/crewnav"
	"github.com/fieldstack/crewnav/pkg/crewnav/guard"
	"github.com/fieldstack/crewnav/pkg/crewnav/route"
)

func newTable(t *testing.T, defs ...route.Definition) *route.Table {
	t.Helper()
	table := route.NewTable()
	for _, def := range defs {
		require.NoError(t, table.Register(def))
	}
	return table
}

// staticGuard always returns the same decision.
type staticGuard struct {
	decision guard.Decision
}

func (g staticGuard) Evaluate(context.Context, guard.Context) (guard.Decision, error) {
	return g.decision, nil
}

func deny(fallback string) guard.Guard {
	return staticGuard{decision: guard.Deny(fallback)}
}

func TestResolveUnguardedRoutesNeverRedirect(t *testing.T) {
	table := newTable(t,
		route.Definition{Name: "home", Pattern: "/home"},
		route.Definition{Name: "jobs", Pattern: "/jobs/:id"},
	)
	resolver := crewnav.NewResolver(table, guard.NewChain())

	for _, location := range []string{"/home", "/jobs/42"} {
		resolved, match, err := resolver.Resolve(context.Background(), location, nil)
		require.NoError(t, err)
		assert.Equal(t, location, resolved)
		assert.NotEmpty(t, match.Route.Name)
	}
}

func TestResolveFollowsFallback(t *testing.T) {
	table := newTable(t,
		route.Definition{Name: "dashboard", Pattern: "/dashboard", Capabilities: []string{"authenticated"}},
		route.Definition{Name: "login", Pattern: "/login"},
	)
	chain := guard.NewChain().Use("authenticated", deny("/login"))
	resolver := crewnav.NewResolver(table, chain)

	resolved, match, err := resolver.Resolve(context.Background(), "/dashboard", nil)
	require.NoError(t, err)
	assert.Equal(t, "/login", resolved)
	assert.Equal(t, "login", match.Route.Name)
}

func TestResolveFollowsFallbacksTransitively(t *testing.T) {
	// /a denies to /b, /b denies to /c, /c is open.
	table := newTable(t,
		route.Definition{Name: "a", Pattern: "/a", Capabilities: []string{"gate-a"}},
		route.Definition{Name: "b", Pattern: "/b", Capabilities: []string{"gate-b"}},
		route.Definition{Name: "c", Pattern: "/c"},
	)
	chain := guard.NewChain().
		Use("gate-a", deny("/b")).
		Use("gate-b", deny("/c"))
	resolver := crewnav.NewResolver(table, chain)

	resolved, _, err := resolver.Resolve(context.Background(), "/a", nil)
	require.NoError(t, err)
	assert.Equal(t, "/c", resolved)
}

func TestResolveDetectsTwoNodeCycle(t *testing.T) {
	table := newTable(t,
		route.Definition{Name: "a", Pattern: "/a", Capabilities: []string{"gate-a"}},
		route.Definition{Name: "b", Pattern: "/b", Capabilities: []string{"gate-b"}},
	)
	chain := guard.NewChain().
		Use("gate-a", deny("/b")).
		Use("gate-b", deny("/a"))
	resolver := crewnav.NewResolver(table, chain)

	_, _, err := resolver.Resolve(context.Background(), "/a", nil)
	require.Error(t, err)
	assert.True(t, crewnav.IsRedirectLoop(err))

	var loop *crewnav.RedirectLoopError
	require.ErrorAs(t, err, &loop)
	assert.Equal(t, "/a", loop.Requested)
	assert.Contains(t, loop.Chain, "/a")
	assert.Contains(t, loop.Chain, "/b")
}

func TestResolveDetectsSelfLoop(t *testing.T) {
	table := newTable(t,
		route.Definition{Name: "a", Pattern: "/a", Capabilities: []string{"gate-a"}},
	)
	chain := guard.NewChain().Use("gate-a", deny("/a"))
	resolver := crewnav.NewResolver(table, chain)

	_, _, err := resolver.Resolve(context.Background(), "/a", nil)
	assert.True(t, crewnav.IsRedirectLoop(err))
}

func TestResolvePropagatesNotFound(t *testing.T) {
	table := newTable(t, route.Definition{Name: "home", Pattern: "/home"})
	resolver := crewnav.NewResolver(table, guard.NewChain())

	_, _, err := resolver.Resolve(context.Background(), "/missing", nil)
	require.Error(t, err)
	assert.True(t, route.IsNotFound(err))
}

func TestResolvePropagatesNotFoundFallback(t *testing.T) {
	// A fallback pointing at an unregistered location surfaces as not found,
	// not as a loop.
	table := newTable(t,
		route.Definition{Name: "a", Pattern: "/a", Capabilities: []string{"gate-a"}},
	)
	chain := guard.NewChain().Use("gate-a", deny("/nowhere"))
	resolver := crewnav.NewResolver(table, chain)

	_, _, err := resolver.Resolve(context.Background(), "/a", nil)
	assert.True(t, route.IsNotFound(err))
}
