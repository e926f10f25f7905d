// Package route implements the immutable route registry for the navigation
// engine. Routes are registered once at startup and matched against requested
// locations with deterministic precedence rules.
package route

import (
	"strings"
)

// Definition describes a single navigable route.
// Definitions are created at registry build time and immutable thereafter.
type Definition struct {
	Name         string   // Unique route name (e.g., "profile")
	Pattern      string   // Path pattern, ":param" segments bind parameters (e.g., "/profile/:id")
	Capabilities []string // Capability tags whose guards must approve navigation; empty = always navigable
}

// RequiresCapability reports whether the route declares the given capability tag.
func (d Definition) RequiresCapability(tag string) bool {
	for _, c := range d.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// Match is the result of resolving a location against the table.
type Match struct {
	Route  Definition
	Params map[string]string
}

// Table is the route registry. Build it once at startup with Register;
// after that it is read-only and safe for concurrent use.
type Table struct {
	routes   []compiled
	byName   map[string]int
	patterns map[string]struct{}
}

type compiled struct {
	def      Definition
	segments []string
	wildcard int // number of ":param" segments, used for specificity ordering
}

// NewTable creates an empty route table.
func NewTable() *Table {
	return &Table{
		byName:   make(map[string]int),
		patterns: make(map[string]struct{}),
	}
}

// Register adds a route definition to the table.
// Returns a *DuplicateError if the name or the pattern collides with an
// existing entry. Registration failures are configuration errors and should
// be treated as fatal at startup.
func (t *Table) Register(def Definition) error {
	if _, exists := t.byName[def.Name]; exists {
		return &DuplicateError{Name: def.Name, Pattern: def.Pattern}
	}
	pattern := Normalize(def.Pattern)
	if _, exists := t.patterns[pattern]; exists {
		return &DuplicateError{Name: def.Name, Pattern: def.Pattern}
	}

	segments := splitPath(pattern)
	wildcard := 0
	for _, s := range segments {
		if isParam(s) {
			wildcard++
		}
	}

	t.byName[def.Name] = len(t.routes)
	t.patterns[pattern] = struct{}{}
	t.routes = append(t.routes, compiled{def: def, segments: segments, wildcard: wildcard})
	return nil
}

// Resolve matches a location against the registered patterns.
//
// Literal segments must match exactly; ":param" segments bind the
// corresponding location segment into Match.Params. When several patterns
// match, the one with the fewest parameter segments wins; remaining ties are
// broken by registration order. Returns a *NotFoundError when no pattern
// matches.
func (t *Table) Resolve(location string) (Match, error) {
	segments := splitPath(Normalize(location))

	best := -1
	var bestParams map[string]string
	for i, r := range t.routes {
		params, ok := matchSegments(r.segments, segments)
		if !ok {
			continue
		}
		if best == -1 || r.wildcard < t.routes[best].wildcard {
			best = i
			bestParams = params
		}
	}
	if best == -1 {
		return Match{}, &NotFoundError{Location: location}
	}
	return Match{Route: t.routes[best].def, Params: bestParams}, nil
}

// Lookup returns the definition registered under the given name.
func (t *Table) Lookup(name string) (Definition, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Definition{}, false
	}
	return t.routes[i].def, true
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return len(t.routes)
}

func matchSegments(pattern, location []string) (map[string]string, bool) {
	if len(pattern) != len(location) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if isParam(p) {
			if location[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = location[i]
			continue
		}
		if p != location[i] {
			return nil, false
		}
	}
	return params, true
}

func isParam(segment string) bool {
	return strings.HasPrefix(segment, ":")
}

// Normalize returns the canonical form of a location path: leading slash,
// no trailing slash (except the root itself).
func Normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func splitPath(path string) []string {
	if path == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}
