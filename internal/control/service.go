// ABOUTME: GameControl gRPC service implementation, the RPC facade over the registry.
// ABOUTME: Translates registry and dispatcher outcomes into protocol status codes.

package control

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/2389/robot-admin/internal/command"
	"github.com/2389/robot-admin/internal/registry"
	pb "github.com/2389/robot-admin/proto/game"
)

// Service implements pb.GameControlServer. All domain errors surface as
// gRPC status codes here and nowhere deeper in the stack.
type Service struct {
	pb.UnimplementedGameControlServer

	registry   *registry.Registry
	dispatcher *command.Dispatcher
	hub        *Hub
	logger     *slog.Logger
}

// NewService creates the GameControl service facade.
func NewService(reg *registry.Registry, disp *command.Dispatcher, hub *Hub, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry:   reg,
		dispatcher: disp,
		hub:        hub,
		logger:     logger.With("component", "grpc"),
	}
}

// Register admits a new client and returns its registry-assigned id.
func (s *Service) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	client := s.registry.Register(req.GetClientName(), req.GetClientType(), req.GetVersion(), req.GetMaxPlayers())

	return &pb.RegisterResponse{
		Success:  true,
		ClientId: client.ID,
		Message:  "Successfully registered",
	}, nil
}

// SendCommand dispatches a command to an idle client.
func (s *Service) SendCommand(ctx context.Context, req *pb.CommandRequest) (*pb.CommandResponse, error) {
	commandID, err := s.dispatcher.Dispatch(ctx, req.GetClientId(), req.GetCommand(), req.GetParameters())
	if err != nil {
		s.logger.Warn("command rejected",
			"client_id", req.GetClientId(),
			"command", req.GetCommand(),
			"error", err,
		)
		switch {
		case errors.Is(err, registry.ErrClientNotFound):
			return nil, status.Error(codes.NotFound, "Client not found")
		case errors.Is(err, command.ErrClientBusy):
			return nil, status.Error(codes.FailedPrecondition, "Client is busy processing another command")
		default:
			return nil, status.Errorf(codes.Internal, "dispatching command: %v", err)
		}
	}

	s.logger.Info("command sent",
		"command_id", commandID,
		"command", req.GetCommand(),
		"client_id", req.GetClientId(),
	)
	return &pb.CommandResponse{
		Success: true,
		Message: "Command accepted",
	}, nil
}

// GetStatus returns the client's metrics and derived current command,
// refreshing its liveness timestamp (pull mode).
func (s *Service) GetStatus(ctx context.Context, req *pb.StatusRequest) (*pb.StatusResponse, error) {
	client, err := s.registry.TouchAndGet(req.GetClientId())
	if err != nil {
		return nil, status.Error(codes.NotFound, "Client not found")
	}

	resp := statusSnapshot(client)
	if resp.CurrentCommand != nil {
		s.dispatcher.MarkDelivered(ctx, resp.CurrentCommand.CommandId)
	}
	return resp, nil
}

// UpdateStatus merges client-reported metrics, routing the completion
// signal to the dispatcher and filtering reserved keys out of the merge.
func (s *Service) UpdateStatus(ctx context.Context, req *pb.StatusUpdate) (*pb.StatusUpdateResponse, error) {
	clientID := req.GetClientId()
	metrics := req.GetMetrics()

	if err := s.registry.Touch(clientID); err != nil {
		return nil, status.Error(codes.NotFound, "Client not found")
	}

	// Completion signal first, so the reserved keys are stripped before the
	// merge writes the completed_command_id marker into the bag.
	if completedID, ok := metrics[registry.KeyCompletedCommandID]; ok {
		s.dispatcher.Complete(ctx, clientID, completedID)
	}

	err := s.registry.Update(clientID, func(c *registry.Client) error {
		for k, v := range metrics {
			if registry.IsReservedKey(k) {
				continue
			}
			c.Metrics[k] = v
		}
		return nil
	})
	if err != nil {
		// Client vanished between the touch and the merge.
		return nil, status.Error(codes.NotFound, "Client not found")
	}

	return &pb.StatusUpdateResponse{
		Success: true,
		Message: "Status updated",
	}, nil
}

// StreamStatus subscribes the caller to periodic status snapshots for one
// client (push mode). The consumer going away tears down the client record.
func (s *Service) StreamStatus(req *pb.StatusRequest, srv pb.GameControl_StreamStatusServer) error {
	clientID := req.GetClientId()

	ch, err := s.hub.Subscribe(clientID)
	if err != nil {
		if errors.Is(err, registry.ErrClientNotFound) {
			return status.Error(codes.NotFound, "Client not found")
		}
		return status.Errorf(codes.Unavailable, "subscribing: %v", err)
	}

	ctx := srv.Context()
	for {
		select {
		case <-ctx.Done():
			// Consumer hung up: explicit disconnect.
			s.hub.Disconnect(clientID)
			return nil

		case resp, ok := <-ch:
			if !ok {
				// Streamer exited: record evicted, consumer replaced, or
				// hub shut down. Nothing more to send.
				return nil
			}
			if err := srv.Send(resp); err != nil {
				s.hub.Disconnect(clientID)
				return err
			}
		}
	}
}

// statusSnapshot builds the wire status message for one client record.
func statusSnapshot(client *registry.Client) *pb.StatusResponse {
	return &pb.StatusResponse{
		ClientId:       client.ID,
		Status:         client.Type,
		Metrics:        client.Metrics,
		Timestamp:      time.Now().Unix(),
		CurrentCommand: activeToProto(command.Current(client.Metrics)),
	}
}

// activeToProto converts the derived current-command view to its wire form.
func activeToProto(active *command.Active) *pb.CurrentCommand {
	if active == nil {
		return nil
	}
	return &pb.CurrentCommand{
		CommandId:  active.CommandID,
		Command:    active.Command,
		Parameters: active.Parameters,
		StartedAt:  active.StartedAt,
	}
}
