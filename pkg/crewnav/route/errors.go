package route

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a location matched no registered pattern.
// Callers surface this as a renderable not-found state; it must never
// crash navigation or mutate the navigation stack.
type NotFoundError struct {
	Location string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("route: no pattern matches %q", e.Location)
}

// DuplicateError indicates a registration collided with an existing route
// on name or pattern. This is a startup configuration error: the registry
// fails closed rather than keeping an ambiguous table.
type DuplicateError struct {
	Name    string
	Pattern string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("route: duplicate registration for %q (%s)", e.Name, e.Pattern)
}

// IsNotFound checks if an error indicates an unmatched location.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDuplicate checks if an error indicates a colliding registration.
func IsDuplicate(err error) bool {
	var d *DuplicateError
	return errors.As(err, &d)
}
