// ABOUTME: Server orchestrator that coordinates the gRPC and HTTP servers
// ABOUTME: Wires the registry, dispatcher, reaper, stream hub, and audit store

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/2389/robot-admin/internal/command"
	"github.com/2389/robot-admin/internal/config"
	"github.com/2389/robot-admin/internal/control"
	"github.com/2389/robot-admin/internal/registry"
	"github.com/2389/robot-admin/internal/store"
	"github.com/2389/robot-admin/internal/webadmin"
	pb "github.com/2389/robot-admin/proto/game"
)

// Server orchestrates the robot-admin components. It manages the gRPC server
// for game client connections and the HTTP server for the admin UI.
type Server struct {
	config     *config.Config
	registry   *registry.Registry
	dispatcher *command.Dispatcher
	reaper     *registry.Reaper
	hub        *control.Hub
	store      *store.SQLiteStore
	grpcServer *grpc.Server
	httpServer *http.Server
	webAdmin   *webadmin.Admin
	logger     *slog.Logger

	// reaperDone signals that the reaper goroutine has exited
	reaperDone chan struct{}
}

// initStore opens the command audit store, or returns nil when the
// database path is empty (audit disabled).
func initStore(cfg *config.Config, logger *slog.Logger) (*store.SQLiteStore, error) {
	if cfg.Database.Path == "" {
		logger.Info("command audit log disabled (no database path)")
		return nil, nil
	}
	return store.NewSQLiteStore(cfg.Database.Path)
}

// createGRPCServer creates the gRPC server with keepalive tuned for
// long-lived status streams over flaky client networks.
func createGRPCServer() *grpc.Server {
	return grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    15 * time.Second,
			Timeout: 5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	)
}

// New creates a new Server instance with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	s, err := initStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	reg := registry.New(logger.With("component", "registry"))

	// A nil *SQLiteStore must become a nil interface, not a typed nil.
	var audit command.AuditLog
	if s != nil {
		audit = s
	}
	disp := command.NewDispatcher(reg, audit, logger.With("component", "dispatcher"))

	hub := control.NewHub(reg, disp, cfg.Stream.Interval, cfg.Stream.BufferSize,
		logger.With("component", "stream-hub"))
	reaper := registry.NewReaper(reg, cfg.Registry.SweepInterval, cfg.Registry.TTL,
		logger.With("component", "reaper"))

	grpcServer := createGRPCServer()
	svc := control.NewService(reg, disp, hub, logger.With("component", "control"))
	pb.RegisterGameControlServer(grpcServer, svc)

	srv := &Server{
		config:     cfg,
		registry:   reg,
		dispatcher: disp,
		reaper:     reaper,
		hub:        hub,
		store:      s,
		grpcServer: grpcServer,
		logger:     logger.With("component", "server"),
		reaperDone: make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/health/ready", srv.handleReady)

	srv.webAdmin = webadmin.New(reg, disp, logger.With("component", "webadmin"))
	srv.webAdmin.RegisterRoutes(mux)

	srv.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv, nil
}

// setupListeners creates TCP listeners for gRPC and HTTP.
func (s *Server) setupListeners() (grpcLn, httpLn net.Listener, err error) {
	s.logger.Info("starting server",
		"grpc_addr", s.config.Server.GRPCAddr,
		"http_addr", s.config.Server.HTTPAddr)

	grpcLn, err = net.Listen("tcp", s.config.Server.GRPCAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("gRPC listen: %w", err)
	}

	httpLn, err = net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		grpcLn.Close()
		return nil, nil, fmt.Errorf("HTTP listen: %w", err)
	}

	return grpcLn, httpLn, nil
}

// startServers starts the gRPC and HTTP servers in goroutines, returning
// an error channel.
func (s *Server) startServers(grpcLn, httpLn net.Listener) chan error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("gRPC server listening", "addr", grpcLn.Addr())
		if err := s.grpcServer.Serve(grpcLn); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()

	go func() {
		s.logger.Info("HTTP server listening", "addr", httpLn.Addr())
		if err := s.httpServer.Serve(httpLn); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or server error.
func (s *Server) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		s.drainErrors(errCh)
		return err
	}
}

// drainErrors drains any remaining errors from the channel.
func (s *Server) drainErrors(errCh chan error) {
	select {
	case additionalErr := <-errCh:
		s.logger.Error("additional server error", "error", additionalErr)
	default:
	}
}

// Run starts all components and blocks until the context is canceled or a
// server fails, then performs a graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	grpcListener, httpListener, err := s.setupListeners()
	if err != nil {
		return err
	}

	reaperCtx, cancelReaper := context.WithCancel(context.Background())
	defer cancelReaper()
	go func() {
		defer close(s.reaperDone)
		s.reaper.Run(reaperCtx)
	}()

	errCh := s.startServers(grpcListener, httpListener)
	serverErr := s.waitForShutdownSignal(ctx, errCh)

	cancelReaper()
	shutdownErr := s.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is
// already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// shutdownGRPCServer gracefully stops the gRPC server or force-stops on
// context cancel.
func (s *Server) shutdownGRPCServer(ctx context.Context) {
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown gracefully stops all servers and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", s.httpServer.Shutdown(ctx))

	s.shutdownGRPCServer(ctx)
	s.hub.Close()

	select {
	case <-s.reaperDone:
	case <-ctx.Done():
	}

	if s.store != nil {
		errs = appendCloseError(errs, "store close", s.store.Close())
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK if at least one game client is registered.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	n := s.registry.Len()
	if n == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("no clients registered"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "ready (%d clients)", n)
}
