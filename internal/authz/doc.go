// Package authz decides whether and how to request elevated location
// permission given the current OS-owned authorization status.
//
// The coordinator is a pure decision function: it never mutates
// authorization state, never blocks on the user's response, and never
// retries. Each call is a single decision against a fresh snapshot of
// status; the actual status change (if any) arrives later as an external
// event on the monitoring manager.
//
// # Decision Table
//
//	status               requested   outcome
//	Denied               any         ErrDenied
//	Restricted           any         ErrRestricted
//	AuthorizedWhenInUse  Always      ErrWhenInUseOnly (no silent upgrade)
//	AuthorizedWhenInUse  WhenInUse   no-op (already sufficient)
//	AuthorizedAlways     any         no-op (Always covers both)
//	NotDetermined        WhenInUse   prompt, if a justification text exists
//	NotDetermined        Always      prompt, if a justification text exists
//
// A missing justification text yields ErrUsageDescriptionMissing. Disabled
// location services fail every call with ErrServicesDisabled before the
// table is consulted.
package authz
