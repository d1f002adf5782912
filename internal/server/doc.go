// Package server wires the robot-admin components together and manages
// their lifecycle. It owns the gRPC server that game clients connect to,
// the HTTP server that serves the admin UI and health endpoints, and the
// background liveness reaper, and shuts all of them down in order when
// the run context is canceled.
package server
