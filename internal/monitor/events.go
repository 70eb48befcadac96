package monitor

import (
	"github.com/nerrad567/locmux/internal/authz"
	"github.com/nerrad567/locmux/internal/geo"
)

// EventKind discriminates the inbound events the manager handles from the
// positioning source.
type EventKind int

const (
	// EventFixes carries an ordered batch of successful position samples.
	EventFixes EventKind = iota

	// EventFailure carries a runtime positioning failure.
	EventFailure

	// EventAuthorizationChanged carries an externally observed
	// authorization-status transition.
	EventAuthorizationChanged
)

// String returns the event kind name for logging.
func (k EventKind) String() string {
	switch k {
	case EventFixes:
		return "fixes"
	case EventFailure:
		return "failure"
	case EventAuthorizationChanged:
		return "authorization_changed"
	default:
		return "unknown"
	}
}

// Event is one inbound source event. Exactly the field matching Kind is
// meaningful. Decoupling the event shape from the source keeps "being the
// platform's single delegate" separate from being the policy engine.
type Event struct {
	Kind   EventKind
	Fixes  []geo.Position
	Err    error
	Status authz.Status
}
