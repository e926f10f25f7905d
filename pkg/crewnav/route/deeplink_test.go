package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstack/crewnav/pkg/crewnav/route"
)

func deepLinkTable(t *testing.T) *route.Table {
	t.Helper()
	return buildTable(t,
		route.Definition{Name: "home", Pattern: "/home"},
		route.Definition{Name: "profile", Pattern: "/profile/:id"},
		route.Definition{Name: "jobs", Pattern: "/jobs/:id"},
	)
}

func TestParseDeepLinkPlainPath(t *testing.T) {
	table := deepLinkTable(t)

	location, match, err := route.ParseDeepLink(table, "/jobs/42")
	require.NoError(t, err)
	assert.Equal(t, "/jobs/42", location)
	assert.Equal(t, "jobs", match.Route.Name)
	assert.Equal(t, "42", match.Params["id"])
}

func TestParseDeepLinkFullURL(t *testing.T) {
	table := deepLinkTable(t)

	// Scheme and host syntax puts the first path segment in the host.
	location, match, err := route.ParseDeepLink(table, "crewapp://jobs/42?ref=push")
	require.NoError(t, err)
	assert.Equal(t, "/jobs/42", location)
	assert.Equal(t, "jobs", match.Route.Name)
	assert.Equal(t, "42", match.Params["id"])
	assert.Equal(t, "push", match.Params["ref"])
}

func TestParseDeepLinkQueryDoesNotOverridePathParams(t *testing.T) {
	table := deepLinkTable(t)

	_, match, err := route.ParseDeepLink(table, "/jobs/42?id=999")
	require.NoError(t, err)
	assert.Equal(t, "42", match.Params["id"])
}

func TestParseDeepLinkUnmatched(t *testing.T) {
	table := deepLinkTable(t)

	_, _, err := route.ParseDeepLink(table, "/unknown/location")
	require.Error(t, err)
	assert.True(t, route.IsNotFound(err))
}

func TestParseDeepLinkUnparseable(t *testing.T) {
	table := deepLinkTable(t)

	// Invalid percent-encoding fails URL parsing; treated exactly like an
	// unknown location.
	_, _, err := route.ParseDeepLink(table, "/jobs/%zz")
	require.Error(t, err)
	assert.True(t, route.IsNotFound(err))
}

func TestBuildLocationRoundTrip(t *testing.T) {
	table := deepLinkTable(t)

	location, err := route.BuildLocation(table, "profile", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/profile/42", location)

	_, match, err := route.ParseDeepLink(table, location)
	require.NoError(t, err)
	assert.Equal(t, "profile", match.Route.Name)
	assert.Equal(t, "42", match.Params["id"])
}

func TestBuildLocationExtraParamsBecomeQuery(t *testing.T) {
	table := deepLinkTable(t)

	location, err := route.BuildLocation(table, "profile", map[string]string{"id": "42", "tab": "shifts"})
	require.NoError(t, err)
	assert.Equal(t, "/profile/42?tab=shifts", location)

	_, match, err := route.ParseDeepLink(table, location)
	require.NoError(t, err)
	assert.Equal(t, "42", match.Params["id"])
	assert.Equal(t, "shifts", match.Params["tab"])
}

func TestBuildLocationMissingParam(t *testing.T) {
	table := deepLinkTable(t)

	_, err := route.BuildLocation(table, "profile", nil)
	require.Error(t, err)
	var pe *route.ParamError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "id", pe.Param)
}

func TestBuildLocationUnknownRoute(t *testing.T) {
	table := deepLinkTable(t)

	_, err := route.BuildLocation(table, "missing", nil)
	require.Error(t, err)
	assert.True(t, route.IsNotFound(err))
}
