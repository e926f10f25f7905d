package crewnav

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSuperseded indicates a navigation request lost to a newer one before
// its guard evaluation finished. This is normal flow control under the
// last-requested-wins policy, not an infrastructure failure.
var ErrSuperseded = errors.New("navigation superseded by a newer request")

// RedirectLoopError indicates guard fallbacks revisited a location or
// exceeded the iteration cap while resolving a navigation. This is a guard
// configuration error: fallback chains must be acyclic. The attempted
// navigation fails and the stack is left unchanged; it is never silently
// retried.
type RedirectLoopError struct {
	Requested string   // The originally requested location
	Chain     []string // Locations visited while following fallbacks, in order
}

func (e *RedirectLoopError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("redirect loop resolving %q", e.Requested)
	}
	return fmt.Sprintf("redirect loop resolving %q: %s", e.Requested, strings.Join(e.Chain, " -> "))
}

// IsRedirectLoop checks if an error indicates a cyclic fallback chain.
func IsRedirectLoop(err error) bool {
	var rl *RedirectLoopError
	return errors.As(err, &rl)
}

// IsSuperseded checks if an error indicates a navigation lost the
// last-requested-wins race.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
