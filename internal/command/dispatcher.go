// ABOUTME: Admits commands against the busy-client invariant and tracks their lifecycle.
// ABOUTME: Lock order is always dispatcher.mu then registry; never the reverse.

package command

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2389/robot-admin/internal/registry"
)

// ErrClientBusy indicates the target client already has an in-flight command.
var ErrClientBusy = errors.New("client is busy processing another command")

// AuditLog receives command lifecycle events. Implementations must tolerate
// being called concurrently; errors are logged by the dispatcher, never
// surfaced to callers.
type AuditLog interface {
	RecordDispatch(ctx context.Context, cmd *Command) error
	RecordDelivered(ctx context.Context, commandID string, at time.Time) error
	RecordCompleted(ctx context.Context, commandID string, at time.Time) error
}

// Dispatcher owns the command table and enforces the single-in-flight-command
// invariant per client. The busy check and the reserved-key writes happen
// inside one registry critical section, so of two concurrent dispatches
// against the same idle client exactly one succeeds.
type Dispatcher struct {
	mu       sync.Mutex
	commands map[string]*Command
	registry *registry.Registry
	audit    AuditLog // optional
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given registry. audit may be
// nil to disable the audit log.
func NewDispatcher(reg *registry.Registry, audit AuditLog, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		commands: make(map[string]*Command),
		registry: reg,
		audit:    audit,
		logger:   logger.With("component", "dispatcher"),
	}
}

// Dispatch creates a Pending command for the client and records it as the
// client's current command. Unknown clients fail with
// registry.ErrClientNotFound; busy clients fail with ErrClientBusy and the
// command is discarded, never stored or queued.
func (d *Dispatcher) Dispatch(ctx context.Context, clientID, name string, parameters map[string]string) (string, error) {
	cmd := &Command{
		ID:         uuid.New().String(),
		ClientID:   clientID,
		Name:       name,
		Status:     StatusPending,
		Parameters: make(map[string]string, len(parameters)),
		CreatedAt:  time.Now(),
	}
	for k, v := range parameters {
		cmd.Parameters[k] = v
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.registry.Update(clientID, func(c *registry.Client) error {
		if c.Busy() {
			return ErrClientBusy
		}
		c.Metrics[registry.KeyCurrentCommandID] = cmd.ID
		c.Metrics[registry.KeyCurrentCommand] = cmd.Name
		c.Metrics[registry.KeyCommandStartedAt] = strconv.FormatInt(cmd.CreatedAt.Unix(), 10)
		for k, v := range cmd.Parameters {
			c.Metrics[registry.ParameterPrefix+k] = v
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	d.commands[cmd.ID] = cmd
	d.logger.Info("command dispatched",
		"command_id", cmd.ID,
		"command", name,
		"client_id", clientID,
	)

	if d.audit != nil {
		if err := d.audit.RecordDispatch(ctx, cmd.clone()); err != nil {
			d.logger.Warn("audit dispatch record failed", "command_id", cmd.ID, "error", err)
		}
	}
	return cmd.ID, nil
}

// MarkDelivered transitions a command from Pending to Delivered. Called the
// first time the current-command view is handed to the owning agent. Any
// other state is left untouched; unknown ids are ignored.
func (d *Dispatcher) MarkDelivered(ctx context.Context, commandID string) {
	d.mu.Lock()
	cmd, ok := d.commands[commandID]
	if !ok || cmd.Status != StatusPending {
		d.mu.Unlock()
		return
	}
	cmd.Status = StatusDelivered
	d.mu.Unlock()

	if d.audit != nil {
		if err := d.audit.RecordDelivered(ctx, commandID, time.Now()); err != nil {
			d.logger.Warn("audit delivery record failed", "command_id", commandID, "error", err)
		}
	}
}

// Complete marks a command Completed and strips the reserved metric keys
// from the owning client, returning it to idle. Unknown command ids are a
// no-op, not an error: stale and duplicate completion signals are expected
// from reconnecting agents. The owning client having vanished (reaped, or
// disconnected in push mode) is likewise tolerated.
func (d *Dispatcher) Complete(ctx context.Context, clientID, commandID string) {
	d.mu.Lock()
	cmd, ok := d.commands[commandID]
	if !ok {
		d.mu.Unlock()
		return
	}
	already := cmd.Status == StatusCompleted
	if !already {
		cmd.Status = StatusCompleted
		cmd.CompletedAt = time.Now()
	}

	err := d.registry.Update(clientID, func(c *registry.Client) error {
		delete(c.Metrics, registry.KeyCurrentCommandID)
		delete(c.Metrics, registry.KeyCurrentCommand)
		delete(c.Metrics, registry.KeyCommandStartedAt)
		for k := range c.Metrics {
			if strings.HasPrefix(k, registry.ParameterPrefix) {
				delete(c.Metrics, k)
			}
		}
		return nil
	})
	d.mu.Unlock()

	if err != nil && !errors.Is(err, registry.ErrClientNotFound) {
		d.logger.Warn("clearing completed command", "command_id", commandID, "error", err)
	}
	if already {
		return
	}

	d.logger.Info("command completed", "command_id", commandID, "client_id", clientID)
	if d.audit != nil {
		if err := d.audit.RecordCompleted(ctx, commandID, time.Now()); err != nil {
			d.logger.Warn("audit completion record failed", "command_id", commandID, "error", err)
		}
	}
}

// Get returns a copy of the command record, if known.
func (d *Dispatcher) Get(commandID string) (*Command, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cmd, ok := d.commands[commandID]
	if !ok {
		return nil, false
	}
	return cmd.clone(), true
}

// Snapshot returns copies of every command ever dispatched, for the
// administrative listing. Completed commands are retained for audit.
func (d *Dispatcher) Snapshot() []*Command {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*Command, 0, len(d.commands))
	for _, cmd := range d.commands {
		out = append(out, cmd.clone())
	}
	return out
}
