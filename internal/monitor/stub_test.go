package monitor

import (
	"math"
	"runtime"
	"sync"
	"testing"

	"github.com/nerrad567/locmux/internal/accuracy"
	"github.com/nerrad567/locmux/internal/authz"
	"github.com/nerrad567/locmux/internal/geo"
	"github.com/nerrad567/locmux/internal/listener"
)

// ─── Stub Source ────────────────────────────────────────────────────────────

// stubSource is a test double for the external positioning subsystem. It
// counts every device call so tests can assert reconciliation idempotence.
type stubSource struct {
	mu      sync.Mutex
	enabled bool
	status  authz.Status

	precisionM float64
	filterM    float64

	setPrecisionCalls int
	setFilterCalls    int
	startStandard     int
	stopStandard      int
	startSignificant  int
	stopSignificant   int
	promptWhenInUse   int
	promptAlways      int

	standardRunning    bool
	significantRunning bool
}

func newStubSource(status authz.Status) *stubSource {
	return &stubSource{enabled: true, status: status}
}

func (s *stubSource) LocationServicesEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *stubSource) AuthorizationStatus() authz.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *stubSource) setStatus(status authz.Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func (s *stubSource) SetDesiredPrecision(meters float64) {
	s.mu.Lock()
	s.precisionM = meters
	s.setPrecisionCalls++
	s.mu.Unlock()
}

func (s *stubSource) SetDistanceFilter(meters float64) {
	s.mu.Lock()
	s.filterM = meters
	s.setFilterCalls++
	s.mu.Unlock()
}

func (s *stubSource) StartStandardTracking() {
	s.mu.Lock()
	s.startStandard++
	s.standardRunning = true
	s.mu.Unlock()
}

func (s *stubSource) StopStandardTracking() {
	s.mu.Lock()
	s.stopStandard++
	s.standardRunning = false
	s.mu.Unlock()
}

func (s *stubSource) StartSignificantChangeTracking() {
	s.mu.Lock()
	s.startSignificant++
	s.significantRunning = true
	s.mu.Unlock()
}

func (s *stubSource) StopSignificantChangeTracking() {
	s.mu.Lock()
	s.stopSignificant++
	s.significantRunning = false
	s.mu.Unlock()
}

func (s *stubSource) RequestWhenInUseAuthorization() {
	s.mu.Lock()
	s.promptWhenInUse++
	s.mu.Unlock()
}

func (s *stubSource) RequestAlwaysAuthorization() {
	s.mu.Lock()
	s.promptAlways++
	s.mu.Unlock()
}

// transitions returns the total number of start/stop calls issued so far.
func (s *stubSource) transitions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startStandard + s.stopStandard + s.startSignificant + s.stopSignificant
}

func (s *stubSource) running() (standard, significant bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.standardRunning, s.significantRunning
}

// ─── Stub Host ──────────────────────────────────────────────────────────────

type stubHost struct {
	whenInUse string
	always    string
}

func (h stubHost) WhenInUseJustification() (string, bool) {
	return h.whenInUse, h.whenInUse != ""
}

func (h stubHost) AlwaysJustification() (string, bool) {
	return h.always, h.always != ""
}

var fullHost = stubHost{whenInUse: "foreground use", always: "background use"}

// ─── Helpers ────────────────────────────────────────────────────────────────

// request builds a listener request with a no-op callback.
func request(tier accuracy.Tier, freq accuracy.Frequency) listener.Request {
	return listener.Request{Tier: tier, Frequency: freq, Notify: func(listener.Update) {}}
}

// makeEntries registers reqs in order and returns the live entries plus the
// owners keeping them alive. Callers must keep the owners reachable (e.g.
// runtime.KeepAlive) until assertions are done.
func makeEntries(t *testing.T, reqs ...listener.Request) ([]*listener.Entry, []*listener.Owner) {
	t.Helper()
	reg := listener.NewRegistry()
	owners := make([]*listener.Owner, len(reqs))
	for i, req := range reqs {
		owners[i] = listener.NewOwner()
		if err := reg.Register(owners[i], req); err != nil {
			t.Fatalf("Register(%d) = %v", i, err)
		}
	}
	entries, _ := reg.SnapshotLive()
	if len(entries) != len(reqs) {
		t.Fatalf("got %d live entries, want %d", len(entries), len(reqs))
	}
	return entries, owners
}

// keepAll pins owners for the duration of a test body.
func keepAll(owners []*listener.Owner) {
	runtime.KeepAlive(owners)
}

// approxEqual compares floats with a small tolerance.
func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// offsetM returns p shifted north by the given number of metres.
func offsetM(p geo.Position, meters float64) geo.Position {
	const metersPerDegreeLat = math.Pi * 6371008.8 / 180
	p.Latitude += meters / metersPerDegreeLat
	return p
}
