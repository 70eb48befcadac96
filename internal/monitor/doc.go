// Package monitor aggregates many concurrent observation requests into a
// single device configuration and routes position updates back to the right
// subset of listeners.
//
// The shared positioning hardware accepts one configuration at a time: one
// desired precision, one distance filter, one monitoring mode. The Manager
// sits between arbitrarily many registered listeners and that single device.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────────────────────┐
//	│                             Manager                                │
//	│                                                                    │
//	│  ┌───────────────┐   ┌────────────────┐   ┌─────────────────────┐  │
//	│  │   listener.   │   │     Engine     │   │     Dispatcher      │  │
//	│  │   Registry    │──▶│  (engine.go)   │   │   (dispatcher.go)   │  │
//	│  │               │   │                │   │                     │  │
//	│  │ • weak owners │   │ • aggregation  │   │ • per-listener      │  │
//	│  │ • lazy reap   │   │ • idempotent   │   │   distance filter   │  │
//	│  │ • snapshots   │   │   re-apply     │   │ • FIFO delivery     │  │
//	│  └───────────────┘   └───────┬────────┘   └──────────┬──────────┘  │
//	└──────────────────────────────│───────────────────────│─────────────┘
//	                               ▼                       ▼
//	                     ┌──────────────────┐    ┌──────────────────┐
//	                     │  Source (device) │    │ listener callbacks│
//	                     │  precision/filter│    │ (single delivery │
//	                     │  standard/signif.│    │  goroutine)      │
//	                     └──────────────────┘    └──────────────────┘
//
// Control flow: a caller registers a request, the registry stores it, the
// engine recomputes the aggregate configuration and reconciles the external
// source. The source emits fixes asynchronously; the dispatcher filters and
// delivers them, the registry opportunistically reaps dead observers, and
// the engine re-reconciles.
//
// # Reconciliation
//
// The device configuration is always a pure function of the current
// authorization status and the set of live requests, never of history. Every
// reconciliation recomputes it from scratch and re-applies it wholesale; the
// engine caches the last applied configuration only to suppress redundant
// start/stop calls on the device.
//
// # Delivery
//
// Notifications are scheduled onto a single delivery goroutine rather than
// invoked inline, so a callback that re-enters Register or Deregister cannot
// deadlock against the registry lock. Delivery order across listeners within
// one round is unspecified; delivery order for a single listener across
// rounds is FIFO.
package monitor
