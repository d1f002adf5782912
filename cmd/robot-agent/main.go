// ABOUTME: Simulated game client for exercising robot-admin end to end.
// ABOUTME: Usage: robot-agent [-addr localhost:50051] [-name "Game Server Alpha"] [-stream]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	pb "github.com/2389/robot-admin/proto/game"
)

const (
	pollInterval    = 1 * time.Second
	commandDuration = 5 * time.Second
	maxReconnects   = 10
	maxBackoff      = 30 * time.Second
)

func main() {
	addr := flag.String("addr", "localhost:50051", "gRPC server address")
	name := flag.String("name", "Game Server Alpha", "Client display name")
	clientType := flag.String("type", "game_server", "Client type")
	version := flag.String("version", "1.0.0", "Client version")
	maxPlayers := flag.Int("max-players", 64, "Maximum player count")
	stream := flag.Bool("stream", false, "Use StreamStatus push mode instead of polling")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	a := &agent{
		addr:       *addr,
		name:       *name,
		clientType: *clientType,
		version:    *version,
		maxPlayers: int32(*maxPlayers),
		streaming:  *stream,
	}

	if err := a.run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}

type agent struct {
	addr       string
	name       string
	clientType string
	version    string
	maxPlayers int32
	streaming  bool

	clientID string
}

// run connects and keeps the session alive, reconnecting with capped
// exponential backoff when the server goes away.
func (a *agent) run(ctx context.Context) error {
	backoff := 1 * time.Second
	attempts := 0

	for {
		err := a.session(ctx)
		if err == nil || ctx.Err() != nil {
			return nil
		}

		attempts++
		if attempts > maxReconnects {
			return fmt.Errorf("giving up after %d reconnect attempts: %w", maxReconnects, err)
		}

		log.Printf("connection lost (%v), reconnecting in %s (attempt %d/%d)", err, backoff, attempts, maxReconnects)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// session runs one connected lifetime: register, then poll or stream until
// the connection fails or the context is canceled.
func (a *agent) session(ctx context.Context) error {
	conn, err := grpc.NewClient(a.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	client := pb.NewGameControlClient(conn)

	if err := a.register(ctx, client); err != nil {
		return err
	}

	if a.streaming {
		return a.streamLoop(ctx, client)
	}
	return a.pollLoop(ctx, client)
}

func (a *agent) register(ctx context.Context, client pb.GameControlClient) error {
	resp, err := client.Register(ctx, &pb.RegisterRequest{
		ClientName: a.name,
		ClientType: a.clientType,
		Version:    a.version,
		MaxPlayers: a.maxPlayers,
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("register rejected: %s", resp.Message)
	}

	a.clientID = resp.ClientId
	log.Printf("registered as %s (%s)", a.name, a.clientID)
	return nil
}

// pollLoop fetches status every second and reports metrics, executing any
// command the server has queued for us.
func (a *agent) pollLoop(ctx context.Context, client pb.GameControlClient) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		resp, err := client.GetStatus(ctx, &pb.StatusRequest{ClientId: a.clientID})
		if err != nil {
			if status.Code(err) == codes.NotFound {
				// Reaped for inactivity. Register again under a fresh id.
				log.Printf("server forgot us, re-registering")
				if err := a.register(ctx, client); err != nil {
					return err
				}
				continue
			}
			return fmt.Errorf("get status: %w", err)
		}

		if err := a.handleStatus(ctx, client, resp); err != nil {
			return err
		}
	}
}

// streamLoop receives pushed status snapshots instead of polling. Metric
// updates still go over the unary UpdateStatus RPC.
func (a *agent) streamLoop(ctx context.Context, client pb.GameControlClient) error {
	stream, err := client.StreamStatus(ctx, &pb.StatusRequest{ClientId: a.clientID})
	if err != nil {
		return fmt.Errorf("stream status: %w", err)
	}

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("status stream closed")
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("stream recv: %w", err)
		}

		if err := a.handleStatus(ctx, client, resp); err != nil {
			return err
		}
	}
}

// handleStatus reports idle metrics, or executes the current command if the
// server assigned one.
func (a *agent) handleStatus(ctx context.Context, client pb.GameControlClient, resp *pb.StatusResponse) error {
	cmd := resp.CurrentCommand
	if cmd == nil {
		return a.sendMetrics(ctx, client, nil)
	}

	log.Printf("executing command %q (%s)", cmd.Command, cmd.CommandId)
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(commandDuration):
	}

	log.Printf("command %s complete", cmd.CommandId)
	return a.sendMetrics(ctx, client, map[string]string{
		"completed_command_id": cmd.CommandId,
		"last_command":         cmd.Command,
	})
}

// sendMetrics pushes a status update with simulated game metrics, plus any
// extra keys the caller wants to report.
func (a *agent) sendMetrics(ctx context.Context, client pb.GameControlClient, extra map[string]string) error {
	metrics := map[string]string{
		"players_online": strconv.Itoa(rand.Intn(int(a.maxPlayers) + 1)),
		"tick_rate":      "60",
		"uptime_seconds": strconv.FormatInt(int64(time.Since(startTime).Seconds()), 10),
	}
	for k, v := range extra {
		metrics[k] = v
	}

	_, err := client.UpdateStatus(ctx, &pb.StatusUpdate{
		ClientId: a.clientID,
		Metrics:  metrics,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			log.Printf("server forgot us, re-registering")
			return a.register(ctx, client)
		}
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

var startTime = time.Now()
