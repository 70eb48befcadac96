// Package gps bridges the monitoring core to a GPS tracker over MQTT.
//
// The tracker firmware owns the positioning hardware and the user-facing
// permission state. The bridge translates between the core's Source calls
// and the tracker's topic tree, and feeds tracker events back into the
// manager:
//
//	                 ┌──────────────────────────────┐
//	                 │        monitor.Manager       │
//	                 └───────▲──────────────┬───────┘
//	            events       │              │  Source calls
//	  (fixes, failures,      │              │  (config, start/stop,
//	   authorization)        │              │   permission prompts)
//	                 ┌───────┴──────────────▼───────┐
//	                 │          gps.Bridge          │
//	                 └───────▲──────────────┬───────┘
//	              subscribe  │              │  publish
//	                 ┌───────┴──────────────▼───────┐
//	                 │         MQTT broker          │
//	                 └───────▲──────────────┬───────┘
//	                         │              │
//	                 ┌───────┴──────────────▼───────┐
//	                 │        GPS tracker           │
//	                 └──────────────────────────────┘
//
// Inbound topics (tracker to core):
//   - {prefix}/fixes          batches of position fixes, most recent last
//   - {prefix}/failure        fix failures
//   - {prefix}/authorization  retained authorization + services state
//
// Outbound topics (core to tracker):
//   - {prefix}/config      retained desired precision and distance filter
//   - {prefix}/command     start/stop tracking commands
//   - {prefix}/permission  permission prompt requests
//
// The authorization topic is retained so the bridge learns the current
// state on startup without a request round-trip. Until the first message
// arrives the bridge reports location services disabled, which the core
// treats as a registration precondition failure.
package gps
