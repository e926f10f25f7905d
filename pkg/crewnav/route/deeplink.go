package route

import (
	"net/url"
	"sort"
	"strings"
)

// ParseDeepLink maps an externally supplied link onto a registered route
// using the same matching rules as Table.Resolve. The scheme and host of a
// full URL (e.g., "crewapp://jobs/42?ref=push") are ignored; query values
// are merged into the match parameters without overriding path parameters.
//
// An unparseable or unmatched link returns a *NotFoundError, identical to
// an unknown internal location.
func ParseDeepLink(t *Table, raw string) (string, Match, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", Match{}, &NotFoundError{Location: raw}
	}

	location := u.Path
	if location == "" && u.Opaque != "" {
		location = u.Opaque
	}
	if u.Scheme != "" && u.Host != "" {
		// "crewapp://jobs/42" parses the first segment as host.
		location = "/" + u.Host + u.Path
	}
	if location == "" {
		return "", Match{}, &NotFoundError{Location: raw}
	}
	location = Normalize(location)

	match, err := t.Resolve(location)
	if err != nil {
		return "", Match{}, err
	}

	query := u.Query()
	if len(query) > 0 {
		if match.Params == nil {
			match.Params = make(map[string]string)
		}
		for key, values := range query {
			if _, bound := match.Params[key]; bound || len(values) == 0 {
				continue
			}
			match.Params[key] = values[0]
		}
	}
	return location, match, nil
}

// BuildLocation constructs the canonical location string for a named route,
// substituting parameters into the pattern's ":param" segments. Parameters
// not consumed by the pattern are appended as query values so the result
// survives a ParseDeepLink round trip.
//
// Returns a *NotFoundError for an unknown name and a *ParamError when a
// pattern parameter is missing from params.
func BuildLocation(t *Table, name string, params map[string]string) (string, error) {
	def, ok := t.Lookup(name)
	if !ok {
		return "", &NotFoundError{Location: name}
	}

	segments := splitPath(Normalize(def.Pattern))
	parts := make([]string, 0, len(segments))
	used := make(map[string]struct{}, len(params))
	for _, s := range segments {
		if !isParam(s) {
			parts = append(parts, s)
			continue
		}
		key := s[1:]
		value, ok := params[key]
		if !ok || value == "" {
			return "", &ParamError{Route: name, Param: key}
		}
		parts = append(parts, value)
		used[key] = struct{}{}
	}

	location := "/" + strings.Join(parts, "/")
	if len(parts) == 0 {
		location = "/"
	}

	var extra []string
	for key := range params {
		if _, ok := used[key]; !ok {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		values := url.Values{}
		for _, key := range extra {
			values.Set(key, params[key])
		}
		location += "?" + values.Encode()
	}
	return location, nil
}

// ParamError indicates BuildLocation was missing a value for a pattern
// parameter.
type ParamError struct {
	Route string
	Param string
}

func (e *ParamError) Error() string {
	return "route: missing parameter :" + e.Param + " for " + e.Route
}
