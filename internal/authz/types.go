package authz

// Level is the permission level a caller may request. The two levels are
// requested distinctly; Always is a capability superset of WhenInUse but the
// levels are deliberately not ordered.
type Level int

const (
	// WhenInUse permits monitoring while the application is in active use.
	WhenInUse Level = iota

	// Always permits monitoring at any time, including low-power
	// significant-change monitoring.
	Always
)

// String returns the level name for logging.
func (l Level) String() string {
	switch l {
	case WhenInUse:
		return "when_in_use"
	case Always:
		return "always"
	default:
		return "unknown"
	}
}

// Status is the OS-owned authorization state. locmux never mutates it
// directly; it only requests transitions and observes the result later.
type Status int

const (
	// NotDetermined means the user has never been prompted.
	NotDetermined Status = iota

	// Denied means the user explicitly refused permission.
	Denied

	// Restricted means a device policy forbids location access.
	Restricted

	// AuthorizedWhenInUse grants foreground monitoring only.
	AuthorizedWhenInUse

	// AuthorizedAlways grants unrestricted monitoring.
	AuthorizedAlways
)

// String returns the status name for logging and the API surface.
func (s Status) String() string {
	switch s {
	case NotDetermined:
		return "not_determined"
	case Denied:
		return "denied"
	case Restricted:
		return "restricted"
	case AuthorizedWhenInUse:
		return "authorized_when_in_use"
	case AuthorizedAlways:
		return "authorized_always"
	default:
		return "unknown"
	}
}

// PermitsMonitoring reports whether any monitoring at all is allowed under s.
func (s Status) PermitsMonitoring() bool {
	return s == AuthorizedWhenInUse || s == AuthorizedAlways
}

// Action is the coordinator's decision about what permission prompt, if any,
// should be issued to the position source.
type Action int

const (
	// ActionNone means the current status already satisfies the request.
	ActionNone Action = iota

	// ActionRequestWhenInUse means a when-in-use prompt should be issued.
	ActionRequestWhenInUse

	// ActionRequestAlways means an always prompt should be issued.
	ActionRequestAlways
)

// String returns the action name for logging.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRequestWhenInUse:
		return "request_when_in_use"
	case ActionRequestAlways:
		return "request_always"
	default:
		return "unknown"
	}
}
