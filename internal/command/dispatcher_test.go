// ABOUTME: Tests for command dispatch, the busy-client invariant, and lifecycle transitions.
// ABOUTME: Validates reserved key writes, completion cleanup, and the derived current view.

package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/robot-admin/internal/registry"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *registry.Registry, *registry.Client) {
	t.Helper()
	reg := registry.New(nil)
	client := reg.Register("Game Server Alpha", "game_server", "1.0.0", 64)
	return NewDispatcher(reg, nil, nil), reg, client
}

func TestDispatcher_Dispatch(t *testing.T) {
	disp, reg, client := newTestDispatcher(t)

	cmdID, err := disp.Dispatch(context.Background(), client.ID, "restart_map", map[string]string{
		"map":  "de_dust2",
		"mode": "competitive",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, cmdID)

	// The reserved keys now encode the in-flight command
	got, err := reg.Get(client.ID)
	require.NoError(t, err)
	assert.Equal(t, cmdID, got.Metrics[registry.KeyCurrentCommandID])
	assert.Equal(t, "restart_map", got.Metrics[registry.KeyCurrentCommand])
	assert.NotEmpty(t, got.Metrics[registry.KeyCommandStartedAt])
	assert.Equal(t, "de_dust2", got.Metrics[registry.ParameterPrefix+"map"])
	assert.Equal(t, "competitive", got.Metrics[registry.ParameterPrefix+"mode"])
	assert.True(t, got.Busy())

	cmd, ok := disp.Get(cmdID)
	require.True(t, ok)
	assert.Equal(t, StatusPending, cmd.Status)
	assert.Equal(t, client.ID, cmd.ClientID)
	assert.Equal(t, "restart_map", cmd.Name)
}

func TestDispatcher_Dispatch_UnknownClient(t *testing.T) {
	disp, _, _ := newTestDispatcher(t)

	_, err := disp.Dispatch(context.Background(), "no-such-id", "restart_map", nil)
	assert.ErrorIs(t, err, registry.ErrClientNotFound)
}

func TestDispatcher_Dispatch_BusyClientRejected(t *testing.T) {
	disp, _, client := newTestDispatcher(t)

	first, err := disp.Dispatch(context.Background(), client.ID, "restart_map", nil)
	require.NoError(t, err)

	// Second dispatch is rejected outright, never stored or queued
	_, err = disp.Dispatch(context.Background(), client.ID, "shutdown", nil)
	assert.ErrorIs(t, err, ErrClientBusy)

	snapshot := disp.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, first, snapshot[0].ID)
}

func TestDispatcher_Dispatch_ConcurrentExactlyOneWins(t *testing.T) {
	disp, _, client := newTestDispatcher(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var winners, busy int

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := disp.Dispatch(context.Background(), client.ID, "restart_map", nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case assert.ErrorIs(t, err, ErrClientBusy):
				busy++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, 49, busy)
	assert.Len(t, disp.Snapshot(), 1)
}

func TestDispatcher_MarkDelivered(t *testing.T) {
	disp, _, client := newTestDispatcher(t)

	cmdID, err := disp.Dispatch(context.Background(), client.ID, "restart_map", nil)
	require.NoError(t, err)

	disp.MarkDelivered(context.Background(), cmdID)
	cmd, ok := disp.Get(cmdID)
	require.True(t, ok)
	assert.Equal(t, StatusDelivered, cmd.Status)

	// Unknown ids are ignored
	disp.MarkDelivered(context.Background(), "no-such-command")
}

func TestDispatcher_MarkDelivered_DoesNotRegress(t *testing.T) {
	disp, _, client := newTestDispatcher(t)

	cmdID, err := disp.Dispatch(context.Background(), client.ID, "restart_map", nil)
	require.NoError(t, err)
	disp.Complete(context.Background(), client.ID, cmdID)

	// A late delivery signal must not pull a completed command backward
	disp.MarkDelivered(context.Background(), cmdID)
	cmd, ok := disp.Get(cmdID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, cmd.Status)
}

func TestDispatcher_Complete(t *testing.T) {
	disp, reg, client := newTestDispatcher(t)

	cmdID, err := disp.Dispatch(context.Background(), client.ID, "restart_map", map[string]string{"map": "de_dust2"})
	require.NoError(t, err)

	disp.Complete(context.Background(), client.ID, cmdID)

	cmd, ok := disp.Get(cmdID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, cmd.Status)
	assert.False(t, cmd.CompletedAt.IsZero())

	// The client is idle again with every reserved key stripped
	got, err := reg.Get(client.ID)
	require.NoError(t, err)
	assert.False(t, got.Busy())
	assert.NotContains(t, got.Metrics, registry.KeyCurrentCommand)
	assert.NotContains(t, got.Metrics, registry.KeyCommandStartedAt)
	assert.NotContains(t, got.Metrics, registry.ParameterPrefix+"map")

	// Completed commands stay in the table
	assert.Len(t, disp.Snapshot(), 1)
}

func TestDispatcher_Complete_UnknownCommandIsNoOp(t *testing.T) {
	disp, _, client := newTestDispatcher(t)

	// Stale completion signals from reconnecting agents are expected
	disp.Complete(context.Background(), client.ID, "no-such-command")
	assert.Empty(t, disp.Snapshot())
}

func TestDispatcher_Complete_Idempotent(t *testing.T) {
	disp, _, client := newTestDispatcher(t)

	cmdID, err := disp.Dispatch(context.Background(), client.ID, "restart_map", nil)
	require.NoError(t, err)

	disp.Complete(context.Background(), client.ID, cmdID)
	cmd, _ := disp.Get(cmdID)
	completedAt := cmd.CompletedAt

	time.Sleep(5 * time.Millisecond)
	disp.Complete(context.Background(), client.ID, cmdID)

	cmd, _ = disp.Get(cmdID)
	assert.Equal(t, completedAt, cmd.CompletedAt)
}

func TestDispatcher_Complete_VanishedClientTolerated(t *testing.T) {
	disp, reg, client := newTestDispatcher(t)

	cmdID, err := disp.Dispatch(context.Background(), client.ID, "restart_map", nil)
	require.NoError(t, err)

	// Reaped between dispatch and completion
	reg.Remove(client.ID)

	disp.Complete(context.Background(), client.ID, cmdID)
	cmd, ok := disp.Get(cmdID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, cmd.Status)
}

func TestDispatcher_RedispatchAfterComplete(t *testing.T) {
	disp, _, client := newTestDispatcher(t)

	first, err := disp.Dispatch(context.Background(), client.ID, "restart_map", nil)
	require.NoError(t, err)
	disp.Complete(context.Background(), client.ID, first)

	second, err := disp.Dispatch(context.Background(), client.ID, "shutdown", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCurrent_Idle(t *testing.T) {
	assert.Nil(t, Current(map[string]string{"players_online": "12"}))
	assert.Nil(t, Current(map[string]string{}))
}

func TestCurrent_Active(t *testing.T) {
	metrics := map[string]string{
		registry.KeyCurrentCommandID:        "cmd-1",
		registry.KeyCurrentCommand:          "restart_map",
		registry.KeyCommandStartedAt:        "1700000000",
		registry.ParameterPrefix + "map":    "de_dust2",
		registry.ParameterPrefix + "rounds": "30",
		"players_online":                    "12",
	}

	active := Current(metrics)
	require.NotNil(t, active)
	assert.Equal(t, "cmd-1", active.CommandID)
	assert.Equal(t, "restart_map", active.Command)
	assert.Equal(t, int64(1700000000), active.StartedAt)
	assert.Equal(t, map[string]string{"map": "de_dust2", "rounds": "30"}, active.Parameters)
}

func TestCurrent_CompletedSignalHidesCommand(t *testing.T) {
	metrics := map[string]string{
		registry.KeyCurrentCommandID:   "cmd-1",
		registry.KeyCurrentCommand:     "restart_map",
		registry.KeyCommandStartedAt:   "1700000000",
		registry.KeyCompletedCommandID: "cmd-1",
	}
	assert.Nil(t, Current(metrics))

	// A completion for some other command does not hide the current one
	metrics[registry.KeyCompletedCommandID] = "cmd-0"
	assert.NotNil(t, Current(metrics))
}

func TestCurrent_BadStartedAtParsesToZero(t *testing.T) {
	metrics := map[string]string{
		registry.KeyCurrentCommandID: "cmd-1",
		registry.KeyCurrentCommand:   "restart_map",
		registry.KeyCommandStartedAt: "not-a-number",
	}
	active := Current(metrics)
	require.NotNil(t, active)
	assert.Equal(t, int64(0), active.StartedAt)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "delivered", StatusDelivered.String())
	assert.Equal(t, "completed", StatusCompleted.String())
}
