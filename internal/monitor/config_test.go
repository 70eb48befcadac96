package monitor

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/nerrad567/locmux/internal/accuracy"
	"github.com/nerrad567/locmux/internal/authz"
)

func TestModeJSONRoundTrip(t *testing.T) {
	for _, mode := range []Mode{ModeOff, ModeSignificant, ModeStandard} {
		data, err := json.Marshal(mode)
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", mode, err)
		}
		var decoded Mode
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if decoded != mode {
			t.Errorf("round trip of %v yielded %v", mode, decoded)
		}
	}
}

func TestModeUnmarshalUnknown(t *testing.T) {
	var mode Mode
	if err := json.Unmarshal([]byte(`"turbo"`), &mode); err == nil {
		t.Error("expected error for unknown mode name")
	}
}

func TestDeviceConfigJSONRoundTrip(t *testing.T) {
	in := DeviceConfig{DesiredPrecisionM: 10, DistanceFilterM: 5, Mode: ModeStandard}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out DeviceConfig
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestAggregateNoMonitoringStatuses(t *testing.T) {
	entries, owners := makeEntries(t, request(accuracy.TierBest, accuracy.Continuous))
	defer keepAll(owners)

	for _, status := range []authz.Status{authz.NotDetermined, authz.Denied, authz.Restricted} {
		cfg := Aggregate(status, entries)
		if cfg.Mode != ModeOff {
			t.Errorf("Aggregate(%v) mode = %v, want ModeOff", status, cfg.Mode)
		}
	}
}

func TestAggregateEmptyRegistry(t *testing.T) {
	cfg := Aggregate(authz.AuthorizedAlways, nil)
	if cfg.Mode != ModeOff {
		t.Errorf("mode = %v, want ModeOff", cfg.Mode)
	}
	if cfg.DesiredPrecisionM != 100 {
		t.Errorf("precision = %v, want conservative 100m fallback", cfg.DesiredPrecisionM)
	}
	if cfg.DistanceFilterM != 0 {
		t.Errorf("filter = %v, want 0 (none)", cfg.DistanceFilterM)
	}
}

func TestAggregateModeTable(t *testing.T) {
	tiers := []accuracy.Tier{accuracy.TierCoarse, accuracy.TierGood, accuracy.TierBetter, accuracy.TierBest}
	freqs := []accuracy.Frequency{accuracy.ChangesOnly, accuracy.Continuous}

	for _, status := range []authz.Status{authz.AuthorizedWhenInUse, authz.AuthorizedAlways} {
		for _, tier := range tiers {
			for _, freq := range freqs {
				entries, owners := makeEntries(t, request(tier, freq))
				cfg := Aggregate(status, entries)

				// (AuthorizedAlways, Coarse, ChangesOnly) is the unique
				// combination yielding significant-change monitoring.
				want := ModeStandard
				if status == authz.AuthorizedAlways && tier == accuracy.TierCoarse && freq == accuracy.ChangesOnly {
					want = ModeSignificant
				}
				if cfg.Mode != want {
					t.Errorf("Aggregate(%v, %v, %v) mode = %v, want %v",
						status, tier, freq, cfg.Mode, want)
				}
				keepAll(owners)
			}
		}
	}
}

func TestAggregateMinPrecision(t *testing.T) {
	entries, owners := makeEntries(t,
		request(accuracy.TierCoarse, accuracy.ChangesOnly),
		request(accuracy.TierGood, accuracy.ChangesOnly),
	)
	defer keepAll(owners)

	cfg := Aggregate(authz.AuthorizedAlways, entries)
	if !approxEqual(cfg.DesiredPrecisionM, accuracy.DesiredPrecision(accuracy.TierGood)) {
		t.Errorf("precision = %v, want min over tiers (%v)",
			cfg.DesiredPrecisionM, accuracy.DesiredPrecision(accuracy.TierGood))
	}

	// Adding a stricter listener never relaxes the precision.
	stricter, owners2 := makeEntries(t,
		request(accuracy.TierCoarse, accuracy.ChangesOnly),
		request(accuracy.TierGood, accuracy.ChangesOnly),
		request(accuracy.TierBest, accuracy.ChangesOnly),
	)
	defer keepAll(owners2)

	cfg2 := Aggregate(authz.AuthorizedAlways, stricter)
	if cfg2.DesiredPrecisionM > cfg.DesiredPrecisionM {
		t.Errorf("adding stricter listener relaxed precision: %v > %v",
			cfg2.DesiredPrecisionM, cfg.DesiredPrecisionM)
	}
	if cfg2.DesiredPrecisionM != math.SmallestNonzeroFloat64 {
		t.Errorf("precision = %v, want best-effort minimum", cfg2.DesiredPrecisionM)
	}

	// Removing the strictest listener relaxes by re-aggregation.
	cfg3 := Aggregate(authz.AuthorizedAlways, stricter[:2])
	if !approxEqual(cfg3.DesiredPrecisionM, accuracy.DesiredPrecision(accuracy.TierGood)) {
		t.Errorf("after removing strictest: precision = %v, want %v",
			cfg3.DesiredPrecisionM, accuracy.DesiredPrecision(accuracy.TierGood))
	}
}

func TestAggregateMinFilter(t *testing.T) {
	entries, owners := makeEntries(t,
		request(accuracy.TierCoarse, accuracy.ChangesOnly),
		request(accuracy.TierBest, accuracy.Continuous),
	)
	defer keepAll(owners)

	cfg := Aggregate(authz.AuthorizedAlways, entries)
	if cfg.DistanceFilterM != 2 {
		t.Errorf("filter = %v, want min(500, 2) = 2", cfg.DistanceFilterM)
	}
}

func TestAggregateWhenInUseForcesStandard(t *testing.T) {
	entries, owners := makeEntries(t, request(accuracy.TierCoarse, accuracy.ChangesOnly))
	defer keepAll(owners)

	cfg := Aggregate(authz.AuthorizedWhenInUse, entries)
	if cfg.Mode != ModeStandard {
		t.Errorf("mode = %v under when-in-use, want ModeStandard", cfg.Mode)
	}
}

func TestAggregateIsPure(t *testing.T) {
	entries, owners := makeEntries(t,
		request(accuracy.TierBetter, accuracy.Continuous),
		request(accuracy.TierCoarse, accuracy.ChangesOnly),
	)
	defer keepAll(owners)

	a := Aggregate(authz.AuthorizedAlways, entries)
	b := Aggregate(authz.AuthorizedAlways, entries)
	if a != b {
		t.Errorf("Aggregate not deterministic: %+v vs %+v", a, b)
	}
}
