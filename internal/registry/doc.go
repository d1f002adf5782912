// Package registry tracks the population of registered game clients.
//
// # Overview
//
// The registry is the single shared mutable structure of the control plane:
// a map from registry-assigned client id to client record, guarded by one
// reader/writer lock. Request handlers, the command dispatcher, the push
// streamers and the liveness reaper all operate on it through the same lock
// discipline.
//
// # Registry
//
// Key operations:
//
//   - Register(name, type, version, maxPlayers): admit a client, returns its record
//   - Get(id): copy of one record
//   - Update(id, fn): atomic read-modify-write under the write lock
//   - Touch(id): refresh the liveness timestamp
//   - Snapshot(): copies of all records for administrative listing
//   - Remove(id) / EvictExpired(now, ttl): eviction paths
//
// Records handed out of the registry are always deep copies; mutation only
// happens inside Update's critical section. That makes "is this client
// busy" plus "mark it busy" a single linearizable step for callers like the
// command dispatcher.
//
// # Reserved metric keys
//
// A client's metrics bag is free-form except for the reserved keys
// (current_command_id, current_command, command_started_at, parameter_*)
// that encode the in-flight command. IsReservedKey filters them out of
// ordinary metric merges.
//
// # Reaper
//
// The Reaper is a background loop that evicts clients whose last contact
// exceeds the configured TTL, independent of request traffic.
package registry
