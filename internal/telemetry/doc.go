// Package telemetry provides InfluxDB connectivity for locmux.
//
// It wraps the official influxdb-client-go v2 library with locmux-specific
// patterns for connection management, metric writing, and health monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Position fixes (latitude, longitude, altitude, accuracy)
//   - Fix failure rates
//   - Device configuration transitions (mode, precision, distance filter)
//
// The Client implements monitor.Recorder, so it can be attached to the
// monitoring manager and observes every raw fix before per-listener
// filtering.
//
// # Usage
//
//	cfg := config.TelemetryConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "locmux",
//	    Bucket:  "tracking",
//	}
//
//	client, err := telemetry.Connect(cfg, "locmux-001")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteFix(fix)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via the
// SetOnError callback. Connection and health check errors are returned
// directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size,
// flush_interval). This reduces network overhead for high-frequency fix
// streams.
package telemetry
