package gps

import (
	"fmt"
	"time"

	"github.com/nerrad567/locmux/internal/authz"
	"github.com/nerrad567/locmux/internal/geo"
)

// MQTT message types exchanged with the GPS tracker firmware.

// FixMessage is a single position fix as published by the tracker.
type FixMessage struct {
	// Latitude in decimal degrees, WGS 84.
	Latitude float64 `json:"latitude"`

	// Longitude in decimal degrees, WGS 84.
	Longitude float64 `json:"longitude"`

	// AltitudeM is metres above the WGS 84 ellipsoid.
	AltitudeM float64 `json:"altitude_m"`

	// AccuracyM is the estimated horizontal accuracy radius in metres.
	AccuracyM float64 `json:"accuracy_m"`

	// Timestamp is when the fix was measured (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`
}

// Position converts the wire fix to the core position type.
func (f FixMessage) Position() geo.Position {
	return geo.Position{
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		AltitudeM: f.AltitudeM,
		AccuracyM: f.AccuracyM,
		Timestamp: f.Timestamp,
	}
}

// FixBatchMessage is the payload on {prefix}/fixes. Fixes are ordered
// oldest first; the most recent fix is last.
// Topic: {prefix}/fixes
type FixBatchMessage struct {
	Fixes []FixMessage `json:"fixes"`
}

// FailureMessage reports a fix failure from the tracker.
// Topic: {prefix}/failure
type FailureMessage struct {
	// Message describes the failure (e.g., "no satellite lock").
	Message string `json:"message"`

	// Timestamp is when the failure occurred (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`
}

// AuthorizationMessage is the retained authorization snapshot the tracker
// keeps current on {prefix}/authorization.
// Topic: {prefix}/authorization (retained)
type AuthorizationMessage struct {
	// ServicesEnabled is the device-level location services switch.
	ServicesEnabled bool `json:"services_enabled"`

	// Status is the authorization state name: not_determined, denied,
	// restricted, authorized_when_in_use, authorized_always.
	Status string `json:"status"`

	// Timestamp is when the state last changed (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`
}

// ConfigMessage carries the desired device configuration to the tracker.
// Retained so the tracker picks it up after a restart.
// Topic: {prefix}/config (retained)
type ConfigMessage struct {
	// DesiredPrecisionM is the precision target in metres.
	DesiredPrecisionM float64 `json:"desired_precision_m"`

	// DistanceFilterM is the device-level distance filter in metres.
	DistanceFilterM float64 `json:"distance_filter_m"`

	// Timestamp is when the configuration was computed (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`
}

// Command actions understood by the tracker.
const (
	CommandStartStandard          = "start_standard"
	CommandStopStandard           = "stop_standard"
	CommandStartSignificantChange = "start_significant_change"
	CommandStopSignificantChange  = "stop_significant_change"
)

// CommandMessage starts or stops a tracking session on the tracker.
// Topic: {prefix}/command
type CommandMessage struct {
	// ID uniquely identifies this command for tracker-side deduplication.
	ID string `json:"id"`

	// Action is one of the Command* constants.
	Action string `json:"action"`

	// Timestamp is when the command was issued (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`
}

// PermissionMessage asks the tracker to show a permission prompt.
// Topic: {prefix}/permission
type PermissionMessage struct {
	// ID uniquely identifies this prompt request.
	ID string `json:"id"`

	// Level is "when_in_use" or "always".
	Level string `json:"level"`

	// Justification is the user-facing text shown with the prompt.
	Justification string `json:"justification"`

	// Timestamp is when the request was issued (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`
}

// parseStatus maps a wire status name to the core authorization status.
func parseStatus(name string) (authz.Status, error) {
	switch name {
	case "not_determined":
		return authz.NotDetermined, nil
	case "denied":
		return authz.Denied, nil
	case "restricted":
		return authz.Restricted, nil
	case "authorized_when_in_use":
		return authz.AuthorizedWhenInUse, nil
	case "authorized_always":
		return authz.AuthorizedAlways, nil
	default:
		return authz.NotDetermined, fmt.Errorf("gps: unknown authorization status %q", name)
	}
}
