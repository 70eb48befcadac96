// Package listener provides the concurrency-safe registry of active
// observation requests, keyed by observer identity.
//
// # Identity and Liveness
//
// Callers anchor a registration to an Owner token they allocate with
// NewOwner and must keep reachable for as long as they want updates. The
// registry holds only a weak reference to the token, so it can never be the
// reason an observer's memory outlives its logical lifetime. Once the last
// strong reference to an Owner is dropped, its entry is logically dead: it
// is excluded from the next live snapshot and physically removed by the
// lazy-reap pass that snapshotting performs. Liveness is observed, never
// pushed; reaping is best-effort and may lag.
//
// The registry does hold the observation request (including its callback)
// strongly. A callback that captures its own Owner therefore keeps the
// registration alive forever; such listeners must deregister explicitly.
//
// # Locking
//
// A single mutex serialises all structural mutation and snapshot copies. It
// is held only for the duration of the mutation or copy, never across policy
// computation or notification delivery, so a notification callback that
// re-enters Register or Deregister cannot deadlock.
package listener
