// ABOUTME: Command record types and the derived current-command view.
// ABOUTME: The view is always recomputed from the client's metrics bag, never cached.

package command

import (
	"strconv"
	"strings"
	"time"

	"github.com/2389/robot-admin/internal/registry"
)

// Status is the lifecycle state of a dispatched command. Transitions are
// monotonic: Pending -> Delivered -> Completed.
type Status int

const (
	StatusPending Status = iota
	StatusDelivered
	StatusCompleted
)

// String returns the lowercase label used in logs and the audit store.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDelivered:
		return "delivered"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Command is one dispatched command. It lives in the dispatcher's table
// independent of the owning client and is never deleted; Parameters are
// immutable after creation.
type Command struct {
	ID          string
	ClientID    string
	Name        string
	Status      Status
	Parameters  map[string]string
	CreatedAt   time.Time
	CompletedAt time.Time
}

// clone returns a copy safe to hand outside the dispatcher lock.
func (c *Command) clone() *Command {
	dup := *c
	dup.Parameters = make(map[string]string, len(c.Parameters))
	for k, v := range c.Parameters {
		dup.Parameters[k] = v
	}
	return &dup
}

// Active is the read-only view of a client's in-flight command, derived on
// demand from the reserved metric keys.
type Active struct {
	CommandID  string
	Command    string
	Parameters map[string]string
	StartedAt  int64
}

// Current derives the active-command view from a metrics bag. It returns
// nil when the client is idle, or when the bag's completion signal already
// names the recorded command. The metrics bag plus the command table are
// the only sources of truth; nothing else records command presence.
func Current(metrics map[string]string) *Active {
	cmdID, okID := metrics[registry.KeyCurrentCommandID]
	name, okName := metrics[registry.KeyCurrentCommand]
	startedAt, okStarted := metrics[registry.KeyCommandStartedAt]
	if !okID || !okName || !okStarted {
		return nil
	}
	if completed, ok := metrics[registry.KeyCompletedCommandID]; ok && completed == cmdID {
		return nil
	}

	params := make(map[string]string)
	for k, v := range metrics {
		if strings.HasPrefix(k, registry.ParameterPrefix) {
			params[strings.TrimPrefix(k, registry.ParameterPrefix)] = v
		}
	}

	started, err := strconv.ParseInt(startedAt, 10, 64)
	if err != nil {
		started = 0
	}
	return &Active{
		CommandID:  cmdID,
		Command:    name,
		Parameters: params,
		StartedAt:  started,
	}
}
