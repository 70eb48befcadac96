package gps

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/locmux/internal/authz"
	"github.com/nerrad567/locmux/internal/geo"
	"github.com/nerrad567/locmux/internal/infrastructure/mqtt"
)

// defaultStartupTimeout bounds the wait for the tracker's retained
// authorization message during Start.
const defaultStartupTimeout = 5 * time.Second

// Config holds bridge settings, derived from the tracker and authorization
// sections of config.yaml.
type Config struct {
	// TopicPrefix is the tracker topic root (e.g., "locmux/gps").
	TopicPrefix string

	// QoS for all bridge publishes and subscriptions.
	QoS byte

	// StartupTimeout bounds the wait for the retained authorization
	// message during Start. Zero means defaultStartupTimeout.
	StartupTimeout time.Duration

	// WhenInUseJustification is the prompt text for when-in-use requests.
	WhenInUseJustification string

	// AlwaysJustification is the prompt text for always requests.
	AlwaysJustification string
}

// MQTTClient is the interface for MQTT operations.
// Satisfied by *mqtt.Client; tests substitute a fake.
type MQTTClient interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// EventSink receives tracker events decoded by the bridge.
// Satisfied by *monitor.Manager.
type EventSink interface {
	// OnFixes delivers a batch of fixes, most recent last.
	OnFixes(fixes []geo.Position)

	// OnFailure delivers a fix failure.
	OnFailure(err error)

	// OnAuthorizationChanged delivers a new authorization status.
	OnAuthorizationChanged(status authz.Status)
}

// Logger defines the logging interface used by the bridge.
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

// Bridge connects the monitoring core to a GPS tracker over MQTT.
//
// It implements monitor.Source on the outbound side and decodes inbound
// tracker messages into EventSink calls. The Source methods are
// fire-and-forget: publish errors are logged, and the resulting state
// arrives later as tracker events.
//
// Thread Safety: all methods are safe for concurrent use.
type Bridge struct {
	cfg    Config
	topics mqtt.TrackerTopics
	client MQTTClient

	sinkMu sync.RWMutex
	sink   EventSink

	// Authorization state cached from the retained authorization topic.
	stateMu         sync.RWMutex
	servicesEnabled bool
	status          authz.Status

	// Desired configuration, republished as a whole on every change.
	cfgMu      sync.Mutex
	precisionM float64
	filterM    float64

	// authSeen is closed when the first authorization message arrives.
	authSeen     chan struct{}
	authSeenOnce sync.Once

	startMu sync.Mutex
	started bool

	logger   Logger
	loggerMu sync.RWMutex

	now func() time.Time
}

// New creates a bridge publishing through client and delivering tracker
// events to sink. A nil sink may be supplied and wired later with SetSink;
// events arriving before then are dropped.
func New(cfg Config, client MQTTClient, sink EventSink) *Bridge {
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = defaultStartupTimeout
	}
	return &Bridge{
		cfg:      cfg,
		topics:   mqtt.TrackerTopics{Prefix: cfg.TopicPrefix},
		client:   client,
		sink:     sink,
		status:   authz.NotDetermined,
		authSeen: make(chan struct{}),
		logger:   noopLogger{},
		now:      time.Now,
	}
}

// SetLogger sets the bridge logger.
func (b *Bridge) SetLogger(logger Logger) {
	b.loggerMu.Lock()
	b.logger = logger
	b.loggerMu.Unlock()
}

// SetSink sets the event sink. The bridge and the monitoring manager are
// mutually dependent at construction time; the bridge is built first with a
// nil sink and the manager is attached here before Start.
func (b *Bridge) SetSink(sink EventSink) {
	b.sinkMu.Lock()
	b.sink = sink
	b.sinkMu.Unlock()
}

func (b *Bridge) getSink() EventSink {
	b.sinkMu.RLock()
	defer b.sinkMu.RUnlock()
	return b.sink
}

func (b *Bridge) getLogger() Logger {
	b.loggerMu.RLock()
	defer b.loggerMu.RUnlock()
	return b.logger
}

// Start subscribes to the tracker's topics and waits up to the configured
// startup timeout for the retained authorization snapshot. A missing
// snapshot is not fatal: the bridge keeps reporting location services
// disabled until the tracker publishes one.
func (b *Bridge) Start(ctx context.Context) error {
	b.startMu.Lock()
	defer b.startMu.Unlock()

	if b.started {
		return ErrAlreadyStarted
	}
	if !b.client.IsConnected() {
		return ErrNotConnected
	}

	subscriptions := []struct {
		topic   string
		handler mqtt.MessageHandler
	}{
		{b.topics.Authorization(), b.handleAuthorization},
		{b.topics.Fixes(), b.handleFixes},
		{b.topics.Failure(), b.handleFailure},
	}
	for _, sub := range subscriptions {
		if err := b.client.Subscribe(sub.topic, b.cfg.QoS, sub.handler); err != nil {
			return fmt.Errorf("subscribing to %s: %w", sub.topic, err)
		}
	}

	b.started = true

	// The retained authorization message arrives asynchronously after the
	// subscribe. Wait briefly so callers see real state instead of the
	// disabled default.
	select {
	case <-b.authSeen:
	case <-time.After(b.cfg.StartupTimeout):
		b.getLogger().Warn("no retained authorization state from tracker",
			"topic", b.topics.Authorization(),
			"timeout", b.cfg.StartupTimeout,
		)
	case <-ctx.Done():
		return fmt.Errorf("waiting for tracker state: %w", ctx.Err())
	}

	return nil
}

// ─── Inbound handlers ────────────────────────────────────────────────────────

func (b *Bridge) handleAuthorization(_ string, payload []byte) error {
	var msg AuthorizationMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decoding authorization message: %w", err)
	}

	status, err := parseStatus(msg.Status)
	if err != nil {
		return err
	}

	b.stateMu.Lock()
	b.servicesEnabled = msg.ServicesEnabled
	b.status = status
	b.stateMu.Unlock()

	b.authSeenOnce.Do(func() { close(b.authSeen) })

	b.getLogger().Info("tracker authorization state",
		"status", status,
		"services_enabled", msg.ServicesEnabled,
	)

	if sink := b.getSink(); sink != nil {
		sink.OnAuthorizationChanged(status)
	}
	return nil
}

func (b *Bridge) handleFixes(_ string, payload []byte) error {
	var msg FixBatchMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decoding fix batch: %w", err)
	}

	if len(msg.Fixes) == 0 {
		return nil
	}

	fixes := make([]geo.Position, len(msg.Fixes))
	for i, f := range msg.Fixes {
		fixes[i] = f.Position()
	}

	if sink := b.getSink(); sink != nil {
		sink.OnFixes(fixes)
	}
	return nil
}

func (b *Bridge) handleFailure(_ string, payload []byte) error {
	var msg FailureMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decoding failure message: %w", err)
	}

	if sink := b.getSink(); sink != nil {
		sink.OnFailure(fmt.Errorf("%w: %s", ErrTrackerFailure, msg.Message))
	}
	return nil
}

// ─── monitor.Source ──────────────────────────────────────────────────────────

// LocationServicesEnabled reports the tracker's device-level capability
// switch, from the cached retained snapshot.
func (b *Bridge) LocationServicesEnabled() bool {
	b.stateMu.RLock()
	defer b.stateMu.RUnlock()
	return b.servicesEnabled
}

// AuthorizationStatus returns the cached authorization state.
func (b *Bridge) AuthorizationStatus() authz.Status {
	b.stateMu.RLock()
	defer b.stateMu.RUnlock()
	return b.status
}

// SetDesiredPrecision sets the precision target and republishes the
// retained configuration.
func (b *Bridge) SetDesiredPrecision(meters float64) {
	b.cfgMu.Lock()
	b.precisionM = meters
	b.cfgMu.Unlock()
	b.publishConfig()
}

// SetDistanceFilter sets the device-level distance filter and republishes
// the retained configuration.
func (b *Bridge) SetDistanceFilter(meters float64) {
	b.cfgMu.Lock()
	b.filterM = meters
	b.cfgMu.Unlock()
	b.publishConfig()
}

// StartStandardTracking begins full-resolution tracking.
func (b *Bridge) StartStandardTracking() {
	b.publishCommand(CommandStartStandard)
}

// StopStandardTracking stops full-resolution tracking.
func (b *Bridge) StopStandardTracking() {
	b.publishCommand(CommandStopStandard)
}

// StartSignificantChangeTracking begins low-power coarse tracking.
func (b *Bridge) StartSignificantChangeTracking() {
	b.publishCommand(CommandStartSignificantChange)
}

// StopSignificantChangeTracking stops low-power coarse tracking.
func (b *Bridge) StopSignificantChangeTracking() {
	b.publishCommand(CommandStopSignificantChange)
}

// RequestWhenInUseAuthorization asks the tracker to show a when-in-use
// permission prompt. The status change arrives later on the authorization
// topic.
func (b *Bridge) RequestWhenInUseAuthorization() {
	b.publishPermission("when_in_use", b.cfg.WhenInUseJustification)
}

// RequestAlwaysAuthorization asks the tracker to show an always permission
// prompt.
func (b *Bridge) RequestAlwaysAuthorization() {
	b.publishPermission("always", b.cfg.AlwaysJustification)
}

// ─── Outbound publishes ──────────────────────────────────────────────────────

func (b *Bridge) publishConfig() {
	b.cfgMu.Lock()
	msg := ConfigMessage{
		DesiredPrecisionM: b.precisionM,
		DistanceFilterM:   b.filterM,
		Timestamp:         b.now().UTC(),
	}
	b.cfgMu.Unlock()

	b.publish(b.topics.Config(), msg, true)
}

func (b *Bridge) publishCommand(action string) {
	msg := CommandMessage{
		ID:        uuid.NewString(),
		Action:    action,
		Timestamp: b.now().UTC(),
	}
	b.publish(b.topics.Command(), msg, false)
}

func (b *Bridge) publishPermission(level, justification string) {
	msg := PermissionMessage{
		ID:            uuid.NewString(),
		Level:         level,
		Justification: justification,
		Timestamp:     b.now().UTC(),
	}
	b.publish(b.topics.Permission(), msg, false)
}

// publish marshals and publishes msg. Source calls are fire-and-forget, so
// failures are logged rather than returned; the reconciler's next pass
// republishes the full configuration anyway.
func (b *Bridge) publish(topic string, msg any, retained bool) {
	payload, err := json.Marshal(msg)
	if err != nil {
		b.getLogger().Error("marshalling bridge message", "topic", topic, "error", err)
		return
	}

	if err := b.client.Publish(topic, payload, b.cfg.QoS, retained); err != nil {
		b.getLogger().Error("publishing bridge message", "topic", topic, "error", err)
	}
}
