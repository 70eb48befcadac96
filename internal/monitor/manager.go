package monitor

import (
	"context"
	"sync"

	"github.com/nerrad567/locmux/internal/authz"
	"github.com/nerrad567/locmux/internal/geo"
	"github.com/nerrad567/locmux/internal/listener"
)

// Recorder observes raw fixes, failures, and configuration transitions for
// persistence or telemetry. Recorders are not listeners: they see every raw
// event and never participate in policy aggregation, so wiring a journal or
// a telemetry writer cannot distort the device configuration.
//
// Recorders run synchronously on the event path and should return quickly.
// Sinks with slow backends buffer or batch internally rather than stalling
// fix delivery; a failed recorder write is logged by the implementation and
// never fails the event.
type Recorder interface {
	RecordFix(ctx context.Context, pos geo.Position)
	RecordFailure(ctx context.Context, err error)
	RecordConfig(ctx context.Context, cfg DeviceConfig)
}

// Broadcaster pushes events to an out-of-band fan-out surface such as the
// WebSocket hub. May be nil.
type Broadcaster interface {
	Broadcast(channel string, payload any)
}

// Broadcast channels used by the manager.
const (
	ChannelFixes         = "fixes"
	ChannelConfig        = "config"
	ChannelAuthorization = "authorization"
)

// Manager is the policy core tying the registry, engine, and dispatcher
// together behind the public registration and authorization surface.
//
// One Manager instance drives one positioning source. It is constructed
// with its collaborators injected so tests can substitute fakes; any
// process-wide singleton is a wiring choice of the embedding layer, not a
// structural requirement of the core.
//
// Thread Safety: all methods are safe for concurrent use. Registration and
// authorization calls are synchronous and non-blocking beyond the registry
// critical section; they never wait on delivery completion.
type Manager struct {
	source      Source
	host        authz.Host
	registry    *listener.Registry
	engine      *Engine
	dispatcher  *Dispatcher
	recorders   []Recorder
	broadcaster Broadcaster
	logger      Logger

	// reconcileMu orders snapshot-and-apply pairs so a reconciliation
	// computed from an older registry state can never overwrite one computed
	// from a newer state.
	reconcileMu sync.Mutex

	startOnce sync.Once
	closeOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}

	// ctx is the lifetime context passed to recorders; set by Start.
	ctx context.Context
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger, shared with its engine, dispatcher,
// and registry.
func WithLogger(logger Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithRecorder adds a recorder for raw fixes, failures, and configuration
// transitions. May be given multiple times.
func WithRecorder(rec Recorder) Option {
	return func(m *Manager) {
		if rec != nil {
			m.recorders = append(m.recorders, rec)
		}
	}
}

// WithBroadcaster sets the out-of-band event fan-out surface.
func WithBroadcaster(b Broadcaster) Option {
	return func(m *Manager) { m.broadcaster = b }
}

// New creates a manager driving source, with host supplying permission
// justification texts. The manager is inert until Start is called.
func New(source Source, host authz.Host, opts ...Option) *Manager {
	m := &Manager{
		source: source,
		host:   host,
		logger: noopLogger{},
		done:   make(chan struct{}),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.registry = listener.NewRegistry()
	m.registry.SetLogger(m.logger)
	m.engine = NewEngine(source)
	m.engine.SetLogger(m.logger)
	m.dispatcher = NewDispatcher(m.registry)
	m.dispatcher.SetLogger(m.logger)
	return m
}

// Start launches the delivery goroutine and performs the initial
// reconciliation. Idempotent. The manager stops when ctx is cancelled or
// Close is called.
func (m *Manager) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		m.ctx = runCtx
		m.cancel = cancel

		go func() {
			defer close(m.done)
			m.dispatcher.Run(runCtx)
		}()

		m.reconcile()
		m.logger.Info("monitor manager started")
	})
}

// Close stops the delivery goroutine and waits for it to exit. Deliveries
// still queued are dropped.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		if m.cancel != nil {
			m.cancel()
			<-m.done
		}
		m.logger.Info("monitor manager stopped")
	})
}

// RequestAuthorization evaluates a permission request against a fresh status
// snapshot and issues at most one prompt to the source. The decision is
// synchronous; the user's actual response arrives later as an authorization
// event. Precondition failures are returned here and never through the
// notification channel.
func (m *Manager) RequestAuthorization(level authz.Level) error {
	action, err := authz.Decide(
		m.source.LocationServicesEnabled(),
		m.source.AuthorizationStatus(),
		level,
		m.host,
	)
	if err != nil {
		return err
	}

	switch action {
	case authz.ActionRequestWhenInUse:
		m.logger.Info("requesting when-in-use authorization")
		m.source.RequestWhenInUseAuthorization()
	case authz.ActionRequestAlways:
		m.logger.Info("requesting always authorization")
		m.source.RequestAlwaysAuthorization()
	case authz.ActionNone:
		// Current status already satisfies the request.
	}
	return nil
}

// Register stores an observation request for owner, replacing any previous
// registration for the same identity, and reconciles the device. Fails with
// authz.ErrServicesDisabled when the location subsystem is switched off, in
// which case no entry is created or modified.
func (m *Manager) Register(owner *listener.Owner, req listener.Request) error {
	if !m.source.LocationServicesEnabled() {
		return authz.ErrServicesDisabled
	}
	if err := m.registry.Register(owner, req); err != nil {
		return err
	}
	m.reconcile()
	return nil
}

// Deregister removes the registration for owner. Idempotent; always
// reconciles. Effective immediately for all future fixes, though a delivery
// already scheduled may still arrive.
func (m *Manager) Deregister(owner *listener.Owner) {
	m.registry.Deregister(owner)
	m.reconcile()
}

// HandleEvent is the single dispatch point for inbound source events.
func (m *Manager) HandleEvent(ev Event) {
	switch ev.Kind {
	case EventFixes:
		m.handleFixes(ev.Fixes)
	case EventFailure:
		m.handleFailure(ev.Err)
	case EventAuthorizationChanged:
		m.handleAuthorizationChanged(ev.Status)
	default:
		m.logger.Warn("unknown source event", "kind", int(ev.Kind))
	}
}

// OnFixes feeds an ordered batch of successful fixes into the manager.
func (m *Manager) OnFixes(fixes []geo.Position) {
	m.HandleEvent(Event{Kind: EventFixes, Fixes: fixes})
}

// OnFailure feeds a runtime positioning failure into the manager.
func (m *Manager) OnFailure(err error) {
	m.HandleEvent(Event{Kind: EventFailure, Err: err})
}

// OnAuthorizationChanged feeds an externally observed status change into
// the manager.
func (m *Manager) OnAuthorizationChanged(status authz.Status) {
	m.HandleEvent(Event{Kind: EventAuthorizationChanged, Status: status})
}

func (m *Manager) handleFixes(fixes []geo.Position) {
	if len(fixes) == 0 {
		return
	}
	delivered, reaped := m.dispatcher.HandleFixes(fixes)

	pos := fixes[len(fixes)-1]
	for _, rec := range m.recorders {
		rec.RecordFix(m.ctx, pos)
	}
	if m.broadcaster != nil {
		m.broadcaster.Broadcast(ChannelFixes, pos)
	}

	m.logger.Debug("fix processed",
		"delivered", delivered,
		"reaped", reaped,
		"latitude", pos.Latitude,
		"longitude", pos.Longitude,
	)
	if reaped > 0 {
		m.reconcile()
	}
}

func (m *Manager) handleFailure(err error) {
	if err == nil {
		return
	}
	notified, reaped := m.dispatcher.HandleFailure(err)

	for _, rec := range m.recorders {
		rec.RecordFailure(m.ctx, err)
	}

	m.logger.Warn("positioning failure forwarded", "error", err, "notified", notified)
	if reaped > 0 {
		m.reconcile()
	}
}

func (m *Manager) handleAuthorizationChanged(status authz.Status) {
	// No notification to listeners; authorization transitions only drive
	// reconciliation.
	m.logger.Info("authorization status changed", "status", status.String())
	m.reconcile()
	if m.broadcaster != nil {
		m.broadcaster.Broadcast(ChannelAuthorization, status.String())
	}
}

// reconcile snapshots the live registry state and applies the aggregate
// configuration. The snapshot and the apply happen under one mutex: without
// it, two racing reconciliations could apply their configurations in the
// opposite order to their snapshots, leaving the device matching a stale
// listener set.
func (m *Manager) reconcile() {
	m.reconcileMu.Lock()
	live, _ := m.registry.SnapshotLive()
	status := m.source.AuthorizationStatus()
	cfg, changed := m.engine.Reconcile(status, live)
	m.reconcileMu.Unlock()

	if changed {
		for _, rec := range m.recorders {
			rec.RecordConfig(m.ctx, cfg)
		}
		if m.broadcaster != nil {
			m.broadcaster.Broadcast(ChannelConfig, cfg)
		}
	}
}

// Status is a point-in-time view of the manager for the API surface.
type Status struct {
	ServicesEnabled bool         `json:"services_enabled"`
	Authorization   string       `json:"authorization"`
	Listeners       int          `json:"listeners"`
	Config          DeviceConfig `json:"config"`
	Configured      bool         `json:"configured"`
}

// CurrentStatus returns a snapshot of authorization state, listener count,
// and the configuration last applied to the device.
func (m *Manager) CurrentStatus() Status {
	cfg, ok := m.engine.Applied()
	return Status{
		ServicesEnabled: m.source.LocationServicesEnabled(),
		Authorization:   m.source.AuthorizationStatus().String(),
		Listeners:       m.registry.Len(),
		Config:          cfg,
		Configured:      ok,
	}
}
