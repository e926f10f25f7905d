package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstack/crewnav/pkg/crewnav/route"
)

func buildTable(t *testing.T, defs ...route.Definition) *route.Table {
	t.Helper()
	table := route.NewTable()
	for _, def := range defs {
		require.NoError(t, table.Register(def))
	}
	return table
}

func TestRegisterDuplicateName(t *testing.T) {
	table := route.NewTable()
	require.NoError(t, table.Register(route.Definition{Name: "home", Pattern: "/home"}))

	err := table.Register(route.Definition{Name: "home", Pattern: "/other"})
	require.Error(t, err)
	assert.True(t, route.IsDuplicate(err))
}

func TestRegisterDuplicatePattern(t *testing.T) {
	table := route.NewTable()
	require.NoError(t, table.Register(route.Definition{Name: "home", Pattern: "/home"}))

	err := table.Register(route.Definition{Name: "start", Pattern: "/home"})
	require.Error(t, err)
	assert.True(t, route.IsDuplicate(err))

	// Normalization collapses trailing slashes before the collision check.
	err = table.Register(route.Definition{Name: "start2", Pattern: "/home/"})
	assert.True(t, route.IsDuplicate(err))
}

func TestResolveLiteral(t *testing.T) {
	table := buildTable(t,
		route.Definition{Name: "home", Pattern: "/home"},
		route.Definition{Name: "jobs", Pattern: "/jobs"},
	)

	match, err := table.Resolve("/jobs")
	require.NoError(t, err)
	assert.Equal(t, "jobs", match.Route.Name)
	assert.Empty(t, match.Params)
}

func TestResolveBindsParams(t *testing.T) {
	table := buildTable(t,
		route.Definition{Name: "job-detail", Pattern: "/jobs/:id/tasks/:task"},
	)

	match, err := table.Resolve("/jobs/42/tasks/7")
	require.NoError(t, err)
	assert.Equal(t, "job-detail", match.Route.Name)
	assert.Equal(t, map[string]string{"id": "42", "task": "7"}, match.Params)
}

func TestResolveSpecificity(t *testing.T) {
	// The placeholder pattern registers first, yet the literal one must win:
	// fewest parameter segments takes precedence over registration order.
	table := buildTable(t,
		route.Definition{Name: "job-detail", Pattern: "/jobs/:id"},
		route.Definition{Name: "job-new", Pattern: "/jobs/new"},
	)

	match, err := table.Resolve("/jobs/new")
	require.NoError(t, err)
	assert.Equal(t, "job-new", match.Route.Name)

	match, err = table.Resolve("/jobs/42")
	require.NoError(t, err)
	assert.Equal(t, "job-detail", match.Route.Name)
	assert.Equal(t, "42", match.Params["id"])
}

func TestResolveSpecificityTieBreaksOnRegistrationOrder(t *testing.T) {
	// Both patterns carry one placeholder and match "/x/y"; the earlier
	// registration wins the tie.
	table := buildTable(t,
		route.Definition{Name: "first", Pattern: "/x/:b"},
		route.Definition{Name: "second", Pattern: "/:a/y"},
	)

	match, err := table.Resolve("/x/y")
	require.NoError(t, err)
	assert.Equal(t, "first", match.Route.Name)
}

func TestResolveNotFound(t *testing.T) {
	table := buildTable(t, route.Definition{Name: "home", Pattern: "/home"})

	_, err := table.Resolve("/nope")
	require.Error(t, err)
	assert.True(t, route.IsNotFound(err))

	// Segment count must match exactly.
	_, err = table.Resolve("/home/extra")
	assert.True(t, route.IsNotFound(err))
}

func TestResolveNormalizesLocation(t *testing.T) {
	table := buildTable(t, route.Definition{Name: "home", Pattern: "/home"})

	match, err := table.Resolve("home/")
	require.NoError(t, err)
	assert.Equal(t, "home", match.Route.Name)
}

func TestLookup(t *testing.T) {
	table := buildTable(t, route.Definition{Name: "home", Pattern: "/home"})

	def, ok := table.Lookup("home")
	assert.True(t, ok)
	assert.Equal(t, "/home", def.Pattern)

	_, ok = table.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, 1, table.Len())
}

func TestRequiresCapability(t *testing.T) {
	def := route.Definition{Name: "admin", Pattern: "/admin", Capabilities: []string{"authenticated", "admin"}}
	assert.True(t, def.RequiresCapability("admin"))
	assert.False(t, def.RequiresCapability("billing"))

	open := route.Definition{Name: "home", Pattern: "/home"}
	assert.False(t, open.RequiresCapability("authenticated"))
}
