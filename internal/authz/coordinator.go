package authz

// Host supplies the user-facing justification texts shown alongside a
// permission prompt. A prompt is only issued when the text for the requested
// level is present; prompting without one is an application defect.
//
// Implemented by config.AuthorizationConfig in production and by test stubs.
type Host interface {
	// WhenInUseJustification returns the when-in-use justification text.
	// ok is false when no text is configured.
	WhenInUseJustification() (text string, ok bool)

	// AlwaysJustification returns the always justification text.
	// ok is false when no text is configured.
	AlwaysJustification() (text string, ok bool)
}

// Decide evaluates a permission request against a fresh snapshot of the
// authorization state and returns the single prompt action to take, if any.
//
// enabled is the device-level "location services on" capability switch; when
// false every request fails with ErrServicesDisabled regardless of status.
//
// Decide has no side effects. The caller is responsible for issuing exactly
// one prompt to the position source when the returned action is not
// ActionNone; the resulting status change arrives later, asynchronously.
func Decide(enabled bool, status Status, requested Level, host Host) (Action, error) {
	if !enabled {
		return ActionNone, ErrServicesDisabled
	}

	switch status {
	case Denied:
		return ActionNone, ErrDenied

	case Restricted:
		return ActionNone, ErrRestricted

	case AuthorizedAlways:
		// Sufficient for either requested level.
		return ActionNone, nil

	case AuthorizedWhenInUse:
		if requested == Always {
			return ActionNone, ErrWhenInUseOnly
		}
		return ActionNone, nil

	case NotDetermined:
		if requested == Always {
			if _, ok := host.AlwaysJustification(); !ok {
				return ActionNone, ErrUsageDescriptionMissing
			}
			return ActionRequestAlways, nil
		}
		if _, ok := host.WhenInUseJustification(); !ok {
			return ActionNone, ErrUsageDescriptionMissing
		}
		return ActionRequestWhenInUse, nil

	default:
		// Unknown status values deny conservatively.
		return ActionNone, ErrRestricted
	}
}
