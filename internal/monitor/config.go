package monitor

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/locmux/internal/accuracy"
	"github.com/nerrad567/locmux/internal/authz"
	"github.com/nerrad567/locmux/internal/listener"
)

// Mode is the monitoring mode the device runs in. The ordering
// (ModeSignificant < ModeStandard) is relied on by max-aggregation: any
// listener needing standard tracking pulls the whole device up to it.
type Mode int

const (
	// ModeOff stops all monitoring.
	ModeOff Mode = iota

	// ModeSignificant runs low-power significant-change tracking. Requires
	// always-level authorization.
	ModeSignificant

	// ModeStandard runs full-resolution tracking.
	ModeStandard
)

// MarshalJSON encodes the mode as its string name for the API surface.
func (m Mode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes a mode from its string name.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "off":
		*m = ModeOff
	case "significant_change":
		*m = ModeSignificant
	case "standard":
		*m = ModeStandard
	default:
		return fmt.Errorf("monitor: unknown mode %q", name)
	}
	return nil
}

// String returns the mode name for logging and the API surface.
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeSignificant:
		return "significant_change"
	case ModeStandard:
		return "standard"
	default:
		return "unknown"
	}
}

// Fallback parameters reported while no listener makes them observable.
const (
	fallbackPrecisionM = 100.0
	fallbackFilterM    = 0.0 // no filtering
)

// DeviceConfig is the single aggregate configuration applied to the device.
// It is a derived value, recomputed from scratch on every registry or
// authorization change and never persisted.
type DeviceConfig struct {
	DesiredPrecisionM float64 `json:"desired_precision_m"`
	DistanceFilterM   float64 `json:"distance_filter_m"`
	Mode              Mode    `json:"mode"`
}

// Aggregate computes the device configuration for the given authorization
// status and live entries. It is a pure function.
//
// Rules:
//   - A status that permits no monitoring, or an empty listener set, yields
//     ModeOff with conservative fallback parameters.
//   - DesiredPrecisionM is the minimum precision target over all entries:
//     the device must satisfy the most demanding listener.
//   - DistanceFilterM is the minimum per-listener filter: the most
//     permissive common denominator. Coarser listeners are still protected
//     from over-notification by their own filter at dispatch time.
//   - Mode is the maximum required mode over all entries. Only a coarse,
//     changes-only listener is satisfied by significant-change monitoring;
//     anything else needs standard tracking. When-in-use authorization
//     forces standard tracking, since significant-change monitoring needs
//     always-level permission.
func Aggregate(status authz.Status, entries []*listener.Entry) DeviceConfig {
	if !status.PermitsMonitoring() || len(entries) == 0 {
		return DeviceConfig{
			DesiredPrecisionM: fallbackPrecisionM,
			DistanceFilterM:   fallbackFilterM,
			Mode:              ModeOff,
		}
	}

	cfg := DeviceConfig{Mode: ModeSignificant}
	for i, entry := range entries {
		req := entry.Request()
		precision := accuracy.DesiredPrecision(req.Tier)
		filter := accuracy.DistanceFilter(req.Tier)

		if i == 0 || precision < cfg.DesiredPrecisionM {
			cfg.DesiredPrecisionM = precision
		}
		if i == 0 || filter < cfg.DistanceFilterM {
			cfg.DistanceFilterM = filter
		}
		if requiredMode(req) > cfg.Mode {
			cfg.Mode = requiredMode(req)
		}
	}

	if status == authz.AuthorizedWhenInUse {
		cfg.Mode = ModeStandard
	}
	return cfg
}

// requiredMode returns the monitoring mode a single request needs.
func requiredMode(req listener.Request) Mode {
	if req.Tier != accuracy.TierCoarse || req.Frequency == accuracy.Continuous {
		return ModeStandard
	}
	return ModeSignificant
}
