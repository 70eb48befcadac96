package monitor

import (
	"sync"

	"github.com/nerrad567/locmux/internal/authz"
	"github.com/nerrad567/locmux/internal/listener"
)

// Logger defines the logging interface used by the monitor package.
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

// Engine reconciles the external source with the aggregate configuration.
//
// It is the single writer of device configuration. Reconciliation is
// idempotent and safe to invoke redundantly: the configuration is recomputed
// from scratch each time, and the device is only touched when the result
// differs from what was last applied.
type Engine struct {
	source Source
	logger Logger

	mu      sync.Mutex
	applied *DeviceConfig // nil until the first apply
}

// NewEngine creates an engine driving source.
func NewEngine(source Source) *Engine {
	return &Engine{
		source: source,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) {
	e.logger = logger
}

// Reconcile recomputes the aggregate configuration from status and the live
// entries and applies it to the source. changed reports whether the device
// was touched; identical inputs produce no device calls beyond the first.
func (e *Engine) Reconcile(status authz.Status, entries []*listener.Entry) (cfg DeviceConfig, changed bool) {
	cfg = Aggregate(status, entries)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.applied != nil && *e.applied == cfg {
		return cfg, false
	}

	e.apply(cfg)
	e.applied = &cfg

	e.logger.Info("device configuration applied",
		"mode", cfg.Mode.String(),
		"precision_m", cfg.DesiredPrecisionM,
		"filter_m", cfg.DistanceFilterM,
		"status", status.String(),
		"listeners", len(entries),
	)
	return cfg, true
}

// apply pushes cfg to the source wholesale, assuming nothing about the prior
// device state. Exactly one of standard or significant-change tracking runs
// afterwards, or neither when the mode is off.
func (e *Engine) apply(cfg DeviceConfig) {
	switch cfg.Mode {
	case ModeStandard:
		e.source.SetDesiredPrecision(cfg.DesiredPrecisionM)
		e.source.SetDistanceFilter(cfg.DistanceFilterM)
		e.source.StopSignificantChangeTracking()
		e.source.StartStandardTracking()
	case ModeSignificant:
		e.source.SetDesiredPrecision(cfg.DesiredPrecisionM)
		e.source.SetDistanceFilter(cfg.DistanceFilterM)
		e.source.StopStandardTracking()
		e.source.StartSignificantChangeTracking()
	case ModeOff:
		e.source.StopStandardTracking()
		e.source.StopSignificantChangeTracking()
	}
}

// Applied returns the configuration last applied to the device. ok is false
// before the first reconciliation.
func (e *Engine) Applied() (cfg DeviceConfig, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.applied == nil {
		return DeviceConfig{}, false
	}
	return *e.applied, true
}
