package authz

import "errors"

// Authorization errors. All are surfaced synchronously from the call that
// triggered them and are never delivered through the async notification
// channel. Check with errors.Is().
var (
	// ErrServicesDisabled is returned when the location subsystem is switched
	// off at the device level. Never retried automatically.
	ErrServicesDisabled = errors.New("authz: location services disabled")

	// ErrDenied is returned when the user has refused permission. Permanent
	// until the user changes OS-level settings.
	ErrDenied = errors.New("authz: authorization denied")

	// ErrRestricted is returned when device policy forbids location access.
	ErrRestricted = errors.New("authz: authorization restricted")

	// ErrWhenInUseOnly is returned when Always is requested but only
	// WhenInUse is granted. Upgrading requires a fresh OS-level prompt the
	// application cannot force.
	ErrWhenInUseOnly = errors.New("authz: only when-in-use authorization granted")

	// ErrUsageDescriptionMissing is returned when the justification text for
	// the requested level is not configured. An application-configuration
	// defect, fatal to the request until configuration is fixed.
	ErrUsageDescriptionMissing = errors.New("authz: usage description missing")
)
