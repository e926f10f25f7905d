package crewnav

// ChangeSignal notifies the controller that external state a guard depends
// on has changed (e.g., session validity), forcing redirect resolution to
// re-run against the current location. When the resolved destination
// differs, the controller performs an implicit replace with CauseSignal.
//
// A firing that arrives while any navigation is in flight, including an
// earlier firing's own re-evaluation, is latched and applied after that
// navigation settles. Coalescing is deliberate: two firings before the
// engine quiesces trigger one re-evaluation, which is sufficient since
// evaluation always runs against the latest state.
type ChangeSignal struct {
	controller *Controller
}

// NewChangeSignal binds a signal to the controller it pushes results into.
func NewChangeSignal(c *Controller) *ChangeSignal {
	return &ChangeSignal{controller: c}
}

// Fire requests re-evaluation of the current location.
// Safe to call from any goroutine.
func (s *ChangeSignal) Fire() {
	s.controller.reevaluate()
}
