package gps

import "errors"

// Sentinel errors for bridge operations.
var (
	// ErrNotConnected is returned when Start is called with a disconnected
	// MQTT client.
	ErrNotConnected = errors.New("gps: mqtt client not connected")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("gps: bridge already started")

	// ErrTrackerFailure wraps fix failures reported by the tracker. Check
	// with errors.Is.
	ErrTrackerFailure = errors.New("gps: tracker failure")
)
