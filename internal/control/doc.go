// Package control is the RPC-facing facade of the control plane.
//
// # Service
//
// Service implements the GameControl gRPC contract: Register, SendCommand,
// GetStatus, UpdateStatus and StreamStatus. It is the only layer that
// speaks gRPC status codes; the registry and dispatcher below it return
// sentinel errors that are mapped here (ErrClientNotFound -> NOT_FOUND,
// ErrClientBusy -> FAILED_PRECONDITION).
//
// # Status propagation
//
// Pull mode: GetStatus/UpdateStatus refresh the client's liveness
// timestamp, return or merge the metrics bag, and route the
// completed_command_id signal to the dispatcher.
//
// Push mode: the Hub runs one streamer goroutine per subscribed client
// that produces periodic snapshots into a bounded channel. A consumer that
// falls a full buffer behind is treated as disconnected: the client record
// is removed and the streamer terminates. Streamers hold weak pointers to
// the registry and dispatcher so background tasks never keep that state
// alive past its owner.
package control
