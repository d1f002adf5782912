// ABOUTME: Tests for the SQLite command audit log.
// ABOUTME: Validates lifecycle recording, monotone delivery updates, and history listing.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/robot-admin/internal/command"
	"github.com/2389/robot-admin/internal/registry"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testCommand(id, clientID string) *command.Command {
	return &command.Command{
		ID:         id,
		ClientID:   clientID,
		Name:       "restart_map",
		Status:     command.StatusPending,
		Parameters: map[string]string{"map": "de_dust2"},
		CreatedAt:  time.Now(),
	}
}

func TestSQLiteStore_RecordDispatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordDispatch(ctx, testCommand("cmd-1", "client-1")))

	entries, err := s.ListCommands(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "cmd-1", e.ID)
	assert.Equal(t, "client-1", e.ClientID)
	assert.Equal(t, "restart_map", e.Command)
	assert.Equal(t, "pending", e.Status)
	assert.Equal(t, map[string]string{"map": "de_dust2"}, e.Parameters)
	assert.Nil(t, e.DeliveredAt)
	assert.Nil(t, e.CompletedAt)
}

func TestSQLiteStore_RecordDispatch_DuplicateIDFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordDispatch(ctx, testCommand("cmd-1", "client-1")))
	assert.Error(t, s.RecordDispatch(ctx, testCommand("cmd-1", "client-1")))
}

func TestSQLiteStore_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordDispatch(ctx, testCommand("cmd-1", "client-1")))
	require.NoError(t, s.RecordDelivered(ctx, "cmd-1", time.Now()))
	require.NoError(t, s.RecordCompleted(ctx, "cmd-1", time.Now()))

	entries, err := s.ListCommands(ctx, "client-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "completed", e.Status)
	assert.NotNil(t, e.DeliveredAt)
	assert.NotNil(t, e.CompletedAt)
}

func TestSQLiteStore_RecordDelivered_OnlyFromPending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordDispatch(ctx, testCommand("cmd-1", "client-1")))
	require.NoError(t, s.RecordCompleted(ctx, "cmd-1", time.Now()))

	// A late delivery event must not pull a completed row backward
	require.NoError(t, s.RecordDelivered(ctx, "cmd-1", time.Now()))

	entries, err := s.ListCommands(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "completed", entries[0].Status)
}

func TestSQLiteStore_ListCommands_FilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	for i, id := range []string{"cmd-1", "cmd-2", "cmd-3"} {
		cmd := testCommand(id, "client-1")
		cmd.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, s.RecordDispatch(ctx, cmd))
	}
	other := testCommand("cmd-other", "client-2")
	require.NoError(t, s.RecordDispatch(ctx, other))

	// Newest first
	entries, err := s.ListCommands(ctx, "client-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "cmd-3", entries[0].ID)
	assert.Equal(t, "cmd-1", entries[2].ID)

	// Limit applies after ordering
	entries, err = s.ListCommands(ctx, "client-1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "cmd-3", entries[0].ID)

	// Empty client id lists across all clients
	entries, err = s.ListCommands(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestSQLiteStore_ImplementsAuditLog(t *testing.T) {
	var _ command.AuditLog = (*SQLiteStore)(nil)
}

func TestSQLiteStore_DispatcherIntegration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Wired as the dispatcher's audit log, the store sees the full cycle
	reg := registry.New(nil)
	disp := command.NewDispatcher(reg, s, nil)
	client := reg.Register("Game Server Alpha", "game_server", "1.0.0", 64)

	cmdID, err := disp.Dispatch(ctx, client.ID, "restart_map", map[string]string{"map": "de_dust2"})
	require.NoError(t, err)
	disp.MarkDelivered(ctx, cmdID)
	disp.Complete(ctx, client.ID, cmdID)

	entries, err := s.ListCommands(ctx, client.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, cmdID, e.ID)
	assert.Equal(t, "completed", e.Status)
	assert.Equal(t, map[string]string{"map": "de_dust2"}, e.Parameters)
	assert.NotNil(t, e.DeliveredAt)
	assert.NotNil(t, e.CompletedAt)
}
