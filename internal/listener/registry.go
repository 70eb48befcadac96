package listener

import (
	"sort"
	"sync"
	"weak"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry stores the active observation requests, at most one per observer
// identity. All methods are safe for concurrent use; see the package
// documentation for the locking and liveness model.
type Registry struct {
	mu      sync.Mutex
	entries map[weak.Pointer[Owner]]*Entry
	nextSeq uint64
	logger  Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[weak.Pointer[Owner]]*Entry),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Register stores a fresh entry for owner carrying req, replacing any
// existing entry for the same identity and resetting its delivery history.
// The registry holds owner only weakly.
func (r *Registry) Register(owner *Owner, req Request) error {
	if owner == nil {
		return ErrNilOwner
	}
	if req.Notify == nil {
		return ErrNilCallback
	}
	if !req.Tier.Valid() {
		return ErrInvalidTier
	}
	if !req.Frequency.Valid() {
		return ErrInvalidFrequency
	}

	key := weak.Make(owner)
	entry := &Entry{key: key, req: req}

	r.mu.Lock()
	entry.seq = r.nextSeq
	r.nextSeq++
	_, replaced := r.entries[key]
	r.entries[key] = entry
	count := len(r.entries)
	r.mu.Unlock()

	r.logger.Debug("listener registered",
		"tier", req.Tier.String(),
		"frequency", req.Frequency.String(),
		"replaced", replaced,
		"count", count,
	)
	return nil
}

// Deregister removes the entry for owner if present. Idempotent; reports
// whether an entry was removed. Effective immediately for all future fixes,
// though a delivery already scheduled may still arrive.
func (r *Registry) Deregister(owner *Owner) bool {
	if owner == nil {
		return false
	}
	key := weak.Make(owner)

	r.mu.Lock()
	_, ok := r.entries[key]
	if ok {
		delete(r.entries, key)
	}
	count := len(r.entries)
	r.mu.Unlock()

	if ok {
		r.logger.Debug("listener deregistered", "count", count)
	}
	return ok
}

// SnapshotLive returns a consistent point-in-time copy of all entries whose
// owner is still reachable, in registration order. Entries whose owner has
// become unreachable are removed as a side effect; reaped is the number
// removed. A non-zero reaped count means the aggregate device configuration
// may be stale and should be reconciled.
func (r *Registry) SnapshotLive() (live []*Entry, reaped int) {
	r.mu.Lock()
	live = make([]*Entry, 0, len(r.entries))
	for key, entry := range r.entries {
		if key.Value() == nil {
			delete(r.entries, key)
			reaped++
			continue
		}
		live = append(live, entry)
	}
	r.mu.Unlock()

	sort.Slice(live, func(i, j int) bool { return live[i].seq < live[j].seq })

	if reaped > 0 {
		r.logger.Debug("reaped dead listeners", "reaped", reaped, "live", len(live))
	}
	return live, reaped
}

// Reap removes entries whose owner is no longer reachable and returns the
// number removed, without building a snapshot.
func (r *Registry) Reap() int {
	r.mu.Lock()
	reaped := 0
	for key := range r.entries {
		if key.Value() == nil {
			delete(r.entries, key)
			reaped++
		}
	}
	r.mu.Unlock()

	if reaped > 0 {
		r.logger.Debug("reaped dead listeners", "reaped", reaped)
	}
	return reaped
}

// Len returns the number of stored entries, including any not yet reaped.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
