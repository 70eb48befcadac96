package telemetry

import (
	"context"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/locmux/internal/geo"
	"github.com/nerrad567/locmux/internal/monitor"
)

// WriteFix writes a position fix measurement.
//
// The point carries the fix's own timestamp, not the ingestion time, so
// delayed batches land at the right place in the series. The write is
// non-blocking; data is batched and sent asynchronously.
func (c *Client) WriteFix(pos geo.Position) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"fixes",
		map[string]string{
			"service_id": c.serviceID,
		},
		map[string]interface{}{
			"latitude":   pos.Latitude,
			"longitude":  pos.Longitude,
			"altitude_m": pos.AltitudeM,
			"accuracy_m": pos.AccuracyM,
		},
		pos.Timestamp,
	)

	c.writeAPI.WritePoint(point)
}

// WriteFailure writes a fix failure event.
//
// Failure messages go in as a field, not a tag, to keep series cardinality
// bounded.
func (c *Client) WriteFailure(message string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"fix_failures",
		map[string]string{
			"service_id": c.serviceID,
		},
		map[string]interface{}{
			"message": message,
			"count":   1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteConfig writes a device configuration transition.
//
// Mode is a tag (three possible values) so dashboards can group time spent
// per mode; the numeric knobs are fields.
func (c *Client) WriteConfig(cfg monitor.DeviceConfig) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_config",
		map[string]string{
			"service_id": c.serviceID,
			"mode":       cfg.Mode.String(),
		},
		map[string]interface{}{
			"desired_precision_m": cfg.DesiredPrecisionM,
			"distance_filter_m":   cfg.DistanceFilterM,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// ─── monitor.Recorder ────────────────────────────────────────────────────────

// RecordFix implements monitor.Recorder.
func (c *Client) RecordFix(_ context.Context, pos geo.Position) {
	c.WriteFix(pos)
}

// RecordFailure implements monitor.Recorder.
func (c *Client) RecordFailure(_ context.Context, failure error) {
	msg := "unknown failure"
	if failure != nil {
		msg = failure.Error()
	}
	c.WriteFailure(msg)
}

// RecordConfig implements monitor.Recorder.
func (c *Client) RecordConfig(_ context.Context, cfg monitor.DeviceConfig) {
	c.WriteConfig(cfg)
}
