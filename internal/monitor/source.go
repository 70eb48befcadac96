package monitor

import "github.com/nerrad567/locmux/internal/authz"

// Source is the external positioning subsystem the manager drives. In
// production it is the MQTT GPS bridge; tests substitute a stub.
//
// The configuration methods are fire-and-forget: the source is owned and
// paced externally, and results (fixes, failures, authorization changes)
// arrive later through the Manager's event intake. Only the engine's
// reconciliation step may call the mutate-and-start methods; it is the
// single writer of device configuration.
type Source interface {
	// LocationServicesEnabled reports the device-level capability switch.
	LocationServicesEnabled() bool

	// AuthorizationStatus returns a fresh snapshot of the OS-owned
	// authorization state.
	AuthorizationStatus() authz.Status

	// SetDesiredPrecision sets the precision target in metres.
	SetDesiredPrecision(meters float64)

	// SetDistanceFilter sets the device-level distance filter in metres.
	SetDistanceFilter(meters float64)

	// StartStandardTracking begins full-resolution tracking.
	StartStandardTracking()

	// StopStandardTracking stops full-resolution tracking.
	StopStandardTracking()

	// StartSignificantChangeTracking begins low-power coarse tracking.
	StartSignificantChangeTracking()

	// StopSignificantChangeTracking stops low-power coarse tracking.
	StopSignificantChangeTracking()

	// RequestWhenInUseAuthorization issues a when-in-use permission prompt.
	// Asynchronous; the status change arrives as an authorization event.
	RequestWhenInUseAuthorization()

	// RequestAlwaysAuthorization issues an always permission prompt.
	// Asynchronous; the status change arrives as an authorization event.
	RequestAlwaysAuthorization()
}
