package monitor

import (
	"testing"

	"github.com/nerrad567/locmux/internal/accuracy"
	"github.com/nerrad567/locmux/internal/authz"
)

func TestReconcileAppliesStandard(t *testing.T) {
	source := newStubSource(authz.AuthorizedAlways)
	engine := NewEngine(source)

	entries, owners := makeEntries(t, request(accuracy.TierBetter, accuracy.Continuous))
	defer keepAll(owners)

	cfg, changed := engine.Reconcile(authz.AuthorizedAlways, entries)
	if !changed {
		t.Error("first Reconcile() changed = false, want true")
	}
	if cfg.Mode != ModeStandard {
		t.Errorf("mode = %v, want ModeStandard", cfg.Mode)
	}
	std, sig := source.running()
	if !std || sig {
		t.Errorf("running = (standard=%v, significant=%v), want (true, false)", std, sig)
	}
	if source.precisionM != 10 || source.filterM != 5 {
		t.Errorf("device params = (%v, %v), want (10, 5)", source.precisionM, source.filterM)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	source := newStubSource(authz.AuthorizedAlways)
	engine := NewEngine(source)

	entries, owners := makeEntries(t, request(accuracy.TierGood, accuracy.Continuous))
	defer keepAll(owners)

	first, changed := engine.Reconcile(authz.AuthorizedAlways, entries)
	if !changed {
		t.Fatal("first Reconcile() changed = false, want true")
	}
	after := source.transitions()

	// Redundant reconciliations with identical inputs touch nothing.
	for range 3 {
		cfg, changed := engine.Reconcile(authz.AuthorizedAlways, entries)
		if changed {
			t.Error("redundant Reconcile() changed = true, want false")
		}
		if cfg != first {
			t.Errorf("redundant Reconcile() = %+v, want %+v", cfg, first)
		}
	}
	if got := source.transitions(); got != after {
		t.Errorf("transitions = %d after redundant reconciles, want %d", got, after)
	}
}

func TestReconcileSignificantChange(t *testing.T) {
	source := newStubSource(authz.AuthorizedAlways)
	engine := NewEngine(source)

	entries, owners := makeEntries(t, request(accuracy.TierCoarse, accuracy.ChangesOnly))
	defer keepAll(owners)

	cfg, _ := engine.Reconcile(authz.AuthorizedAlways, entries)
	if cfg.Mode != ModeSignificant {
		t.Fatalf("mode = %v, want ModeSignificant", cfg.Mode)
	}
	std, sig := source.running()
	if std || !sig {
		t.Errorf("running = (standard=%v, significant=%v), want (false, true)", std, sig)
	}
}

func TestReconcileStopsOnUnauthorized(t *testing.T) {
	source := newStubSource(authz.AuthorizedAlways)
	engine := NewEngine(source)

	entries, owners := makeEntries(t, request(accuracy.TierBest, accuracy.Continuous))
	defer keepAll(owners)

	engine.Reconcile(authz.AuthorizedAlways, entries)
	cfg, changed := engine.Reconcile(authz.Denied, entries)
	if !changed {
		t.Error("status change did not change configuration")
	}
	if cfg.Mode != ModeOff {
		t.Errorf("mode = %v after denial, want ModeOff", cfg.Mode)
	}
	std, sig := source.running()
	if std || sig {
		t.Errorf("running = (standard=%v, significant=%v) after denial, want (false, false)", std, sig)
	}
}

func TestReconcileModeSwitchStopsOther(t *testing.T) {
	source := newStubSource(authz.AuthorizedAlways)
	engine := NewEngine(source)

	coarse, owners1 := makeEntries(t, request(accuracy.TierCoarse, accuracy.ChangesOnly))
	defer keepAll(owners1)
	best, owners2 := makeEntries(t, request(accuracy.TierBest, accuracy.Continuous))
	defer keepAll(owners2)

	engine.Reconcile(authz.AuthorizedAlways, coarse)
	engine.Reconcile(authz.AuthorizedAlways, best)

	// Exactly one of the two tracking modes may run at a time.
	std, sig := source.running()
	if !std || sig {
		t.Errorf("running = (standard=%v, significant=%v), want (true, false)", std, sig)
	}
}

func TestAppliedBeforeFirstReconcile(t *testing.T) {
	engine := NewEngine(newStubSource(authz.AuthorizedAlways))
	if _, ok := engine.Applied(); ok {
		t.Error("Applied() ok = true before first reconcile, want false")
	}
}
