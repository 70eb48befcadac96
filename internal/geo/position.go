package geo

import "time"

// Position is a single reported location sample (a "fix") from a positioning
// subsystem.
//
// Latitude and Longitude are WGS84 decimal degrees. AccuracyM is the
// estimated horizontal error radius in metres (0 = unknown). Positions are
// immutable values; pass them by value.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	AltitudeM float64   `json:"altitude_m,omitempty"`
	AccuracyM float64   `json:"accuracy_m,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
