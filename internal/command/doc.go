// Package command implements the command table and dispatch rules.
//
// A client has at most one in-flight command at a time. The Dispatcher
// enforces that by doing the busy check and the reserved-key writes inside
// a single registry critical section; a second dispatch against a busy
// client fails and its command is discarded, never queued.
//
// The "current command" of a client is never stored as separate state: it
// is derived on demand from the reserved metric keys via Current, so the
// busy check and the view agree by construction.
//
// Lifecycle is monotonic (pending -> delivered -> completed). Completed
// commands leave the client's active view but stay in the table, and in
// the optional AuditLog, for history.
package command
