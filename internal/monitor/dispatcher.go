package monitor

import (
	"context"
	"sync"

	"github.com/nerrad567/locmux/internal/accuracy"
	"github.com/nerrad567/locmux/internal/geo"
	"github.com/nerrad567/locmux/internal/listener"
)

// delivery is one scheduled notification.
type delivery struct {
	notify listener.Callback
	update listener.Update
}

// Dispatcher decides per listener whether a raw fix or failure should be
// delivered, and schedules deliveries onto a single delivery goroutine.
//
// Scheduling never blocks the caller: the queue is unbounded, so a slow
// callback can delay later rounds but never stall fix processing. Run must
// be started before deliveries are expected to arrive.
type Dispatcher struct {
	registry *listener.Registry
	logger   Logger

	mu    sync.Mutex
	queue []delivery
	wake  chan struct{}
}

// NewDispatcher creates a dispatcher draining deliveries for registry.
func NewDispatcher(registry *listener.Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   noopLogger{},
		wake:     make(chan struct{}, 1),
	}
}

// SetLogger sets the logger for the dispatcher.
func (d *Dispatcher) SetLogger(logger Logger) {
	d.logger = logger
}

// Run executes scheduled deliveries in FIFO order until ctx is cancelled.
// It is the single execution context all callbacks observe results on, so a
// callback that registers or deregisters listeners cannot deadlock against
// the registry lock. Deliveries still queued at cancellation are dropped.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.wake:
		}

		for {
			d.mu.Lock()
			if len(d.queue) == 0 {
				d.mu.Unlock()
				break
			}
			batch := d.queue
			d.queue = nil
			d.mu.Unlock()

			for _, dl := range batch {
				d.invoke(dl)
			}
		}
	}
}

// invoke runs one callback, containing any panic so a misbehaving listener
// cannot take down the delivery goroutine.
func (d *Dispatcher) invoke(dl delivery) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic in listener callback", "panic", r)
		}
	}()
	dl.notify(dl.update)
}

// HandleFixes processes an ordered batch of raw fixes from the source. Only
// the most recent fix in the batch is considered. Listeners live at snapshot
// time are evaluated against their own distance filter; a post-round reap
// drops entries whose owner died during the round. A non-zero reaped count
// means the caller should reconcile.
func (d *Dispatcher) HandleFixes(fixes []geo.Position) (delivered, reaped int) {
	if len(fixes) == 0 {
		return 0, 0
	}
	pos := fixes[len(fixes)-1]

	live, reapedBefore := d.registry.SnapshotLive()
	batch := make([]delivery, 0, len(live))
	for _, entry := range live {
		if !shouldNotify(entry, pos) {
			continue
		}
		entry.MarkDelivered(pos)
		batch = append(batch, delivery{
			notify: entry.Request().Notify,
			update: listener.Update{Position: &pos},
		})
	}
	d.schedule(batch)

	reapedAfter := d.registry.Reap()
	return len(batch), reapedBefore + reapedAfter
}

// HandleFailure fans a positioning failure out to every live listener,
// with no distance filtering. Failures never stop monitoring by themselves.
func (d *Dispatcher) HandleFailure(err error) (notified, reaped int) {
	live, reaped := d.registry.SnapshotLive()
	batch := make([]delivery, 0, len(live))
	for _, entry := range live {
		batch = append(batch, delivery{
			notify: entry.Request().Notify,
			update: listener.Update{Err: err},
		})
	}
	d.schedule(batch)
	return len(batch), reaped
}

// schedule appends a batch to the queue and wakes the delivery goroutine.
func (d *Dispatcher) schedule(batch []delivery) {
	if len(batch) == 0 {
		return
	}
	d.mu.Lock()
	d.queue = append(d.queue, batch...)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// shouldNotify applies the listener's own notification threshold. The
// device-level filter is only the most permissive common denominator; a
// coarser listener is protected from over-notification here, measured from
// its last delivered position rather than the raw device position.
func shouldNotify(entry *listener.Entry, pos geo.Position) bool {
	req := entry.Request()
	if req.Frequency == accuracy.Continuous {
		return true
	}
	last := entry.LastDelivered()
	if last == nil {
		return true
	}
	return geo.Distance(*last, pos) >= accuracy.DistanceFilter(req.Tier)
}
