package accuracy

import "math"

// Tier is an ordered accuracy preference. Higher tiers demand smaller
// positional error from the device. The ordering (Coarse < Good < Better <
// Best) is relied on by the monitoring engine's aggregation.
type Tier int

const (
	// TierCoarse tolerates roughly kilometre-scale error. The only tier
	// eligible for low-power significant-change monitoring.
	TierCoarse Tier = iota

	// TierGood targets ~100m error, suitable for neighbourhood-level features.
	TierGood

	// TierBetter targets ~10m error, suitable for street-level navigation.
	TierBetter

	// TierBest requests the smallest error the hardware can produce.
	TierBest
)

// String returns the tier name for logging.
func (t Tier) String() string {
	switch t {
	case TierCoarse:
		return "coarse"
	case TierGood:
		return "good"
	case TierBetter:
		return "better"
	case TierBest:
		return "best"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t >= TierCoarse && t <= TierBest
}

// Frequency is an ordered update-frequency preference.
type Frequency int

const (
	// ChangesOnly delivers a fix only when the device has moved at least the
	// tier's distance filter from the last delivered fix.
	ChangesOnly Frequency = iota

	// Continuous delivers every fix the device produces.
	Continuous
)

// String returns the frequency name for logging.
func (f Frequency) String() string {
	switch f {
	case ChangesOnly:
		return "changes_only"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// Valid reports whether f is one of the defined frequencies.
func (f Frequency) Valid() bool {
	return f == ChangesOnly || f == Continuous
}

// Per-tier precision targets in metres.
const (
	precisionCoarseM = 1000.0
	precisionGoodM   = 100.0
	precisionBetterM = 10.0

	// bestFilterFloorM is the distance filter for TierBest. "Best effort"
	// precision still needs a small non-zero filter so changes-only
	// listeners are not flooded by stationary GPS jitter.
	bestFilterFloorM = 2.0
)

// DesiredPrecision returns the device-level precision target in metres for a
// tier. TierBest maps to the smallest representable positive value: it is
// interpreted as "best effort" by the device, never as exactly zero.
func DesiredPrecision(t Tier) float64 {
	switch t {
	case TierCoarse:
		return precisionCoarseM
	case TierGood:
		return precisionGoodM
	case TierBetter:
		return precisionBetterM
	case TierBest:
		return math.SmallestNonzeroFloat64
	default:
		return precisionCoarseM
	}
}

// DistanceFilter returns the per-listener notification threshold in metres
// for a tier. Filtering at half the requested error lets a listener still
// see corrective updates while mostly ignoring stationary jitter; TierBest
// uses a hard 2m floor instead.
func DistanceFilter(t Tier) float64 {
	if t == TierBest {
		return bestFilterFloorM
	}
	return DesiredPrecision(t) / 2
}
