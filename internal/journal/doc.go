// Package journal persists the raw event stream flowing through the
// monitoring core: position fixes, fix failures, and applied device
// configuration changes.
//
// The journal observes events through the monitor.Recorder interface, so it
// sees every raw fix before per-listener distance filtering and never
// participates in policy aggregation. Rows are written to SQLite via the
// shared database connection and queried newest first by the HTTP API.
//
//	monitor.Manager ──Recorder──▶ journal.SQLiteJournal ──▶ SQLite
//	                                      ▲
//	                    api (GET /fixes/recent) ──────────┘
//
// Recorder callbacks must not fail the event path, so write errors are
// logged and swallowed. Use the Insert* methods directly when the caller
// wants the error.
package journal
