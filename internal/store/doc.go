// Package store persists the command audit trail to SQLite.
//
// The audit log is strictly write-behind history: the dispatcher records
// dispatch, delivery and completion events here, and the registry never
// reads them back. Losing the database loses history, not registry state.
// The store is optional; the dispatcher runs without one.
package store
