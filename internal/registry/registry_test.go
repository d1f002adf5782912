// ABOUTME: Tests for the client registry covering registration, lookup, and eviction.
// ABOUTME: Validates copy isolation, atomic updates, and last-contact refresh semantics.

package registry

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	reg := New(nil)

	client := reg.Register("Game Server Alpha", "game_server", "1.0.0", 64)

	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "Game Server Alpha", client.Name)
	assert.Equal(t, "game_server", client.Type)
	assert.Equal(t, "1.0.0", client.Version)
	assert.Equal(t, int32(64), client.MaxPlayers)
	assert.False(t, client.LastContact.IsZero())
	assert.Empty(t, client.Metrics)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_Register_UniqueIDs(t *testing.T) {
	reg := New(nil)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		c := reg.Register("client", "game_server", "1.0.0", 8)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
	assert.Equal(t, 100, reg.Len())
}

func TestRegistry_Get_NotFound(t *testing.T) {
	reg := New(nil)

	_, err := reg.Get("no-such-id")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestRegistry_Get_ReturnsCopy(t *testing.T) {
	reg := New(nil)
	c := reg.Register("client", "game_server", "1.0.0", 8)

	got, err := reg.Get(c.ID)
	require.NoError(t, err)

	// Mutating the returned copy must not leak into the registry
	got.Metrics["players_online"] = "12"
	got.Name = "tampered"

	again, err := reg.Get(c.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Metrics)
	assert.Equal(t, "client", again.Name)
}

func TestRegistry_Update_NotFound(t *testing.T) {
	reg := New(nil)

	called := false
	err := reg.Update("no-such-id", func(c *Client) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.False(t, called)
}

func TestRegistry_Update_PropagatesError(t *testing.T) {
	reg := New(nil)
	c := reg.Register("client", "game_server", "1.0.0", 8)

	errNope := errors.New("nope")
	err := reg.Update(c.ID, func(c *Client) error {
		return errNope
	})
	assert.ErrorIs(t, err, errNope)
}

func TestRegistry_Update_CheckThenMutateIsAtomic(t *testing.T) {
	reg := New(nil)
	c := reg.Register("client", "game_server", "1.0.0", 8)

	// Many goroutines race to claim the client; the busy check and the mark
	// share a critical section, so exactly one must win.
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := reg.Update(c.ID, func(c *Client) error {
				if c.Busy() {
					return errors.New("busy")
				}
				c.Metrics[KeyCurrentCommandID] = "cmd-1"
				return nil
			})
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestRegistry_Touch_RefreshesLastContact(t *testing.T) {
	reg := New(nil)
	c := reg.Register("client", "game_server", "1.0.0", 8)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, reg.Touch(c.ID))

	got, err := reg.Get(c.ID)
	require.NoError(t, err)
	assert.True(t, got.LastContact.After(c.LastContact))
}

func TestRegistry_TouchAndGet(t *testing.T) {
	reg := New(nil)
	c := reg.Register("client", "game_server", "1.0.0", 8)

	time.Sleep(10 * time.Millisecond)
	got, err := reg.TouchAndGet(c.ID)
	require.NoError(t, err)
	assert.True(t, got.LastContact.After(c.LastContact))

	_, err = reg.TouchAndGet("no-such-id")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestRegistry_Remove(t *testing.T) {
	reg := New(nil)
	c := reg.Register("client", "game_server", "1.0.0", 8)

	removed, ok := reg.Remove(c.ID)
	require.True(t, ok)
	assert.Equal(t, c.ID, removed.ID)
	assert.Equal(t, 0, reg.Len())

	// Removing an absent id is not an error
	_, ok = reg.Remove(c.ID)
	assert.False(t, ok)
}

func TestRegistry_Snapshot(t *testing.T) {
	reg := New(nil)
	reg.Register("a", "game_server", "1.0.0", 8)
	reg.Register("b", "lobby", "2.0.0", 16)

	snap := reg.Snapshot()
	assert.Len(t, snap, 2)

	// Snapshot entries are copies
	snap[0].Metrics["tampered"] = "yes"
	for _, c := range reg.Snapshot() {
		assert.Empty(t, c.Metrics)
	}
}

func TestRegistry_EvictExpired(t *testing.T) {
	reg := New(nil)
	stale := reg.Register("stale", "game_server", "1.0.0", 8)
	fresh := reg.Register("fresh", "game_server", "1.0.0", 8)

	// Age the stale client past the TTL
	require.NoError(t, reg.Update(stale.ID, func(c *Client) error {
		c.LastContact = time.Now().Add(-10 * time.Second)
		return nil
	}))

	evicted := reg.EvictExpired(time.Now(), 6*time.Second)
	require.Len(t, evicted, 1)
	assert.Equal(t, stale.ID, evicted[0].ID)

	_, err := reg.Get(stale.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
	_, err = reg.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestRegistry_EvictExpired_BoundaryNotEvicted(t *testing.T) {
	reg := New(nil)
	c := reg.Register("client", "game_server", "1.0.0", 8)

	now := time.Now()
	require.NoError(t, reg.Update(c.ID, func(cl *Client) error {
		cl.LastContact = now.Add(-6 * time.Second)
		return nil
	}))

	// Exactly at TTL is still alive; eviction requires age strictly beyond it
	evicted := reg.EvictExpired(now, 6*time.Second)
	assert.Empty(t, evicted)
}

func TestIsReservedKey(t *testing.T) {
	assert.True(t, IsReservedKey(KeyCurrentCommandID))
	assert.True(t, IsReservedKey(KeyCurrentCommand))
	assert.True(t, IsReservedKey(KeyCommandStartedAt))
	assert.True(t, IsReservedKey(ParameterPrefix+"mode"))

	// The completion signal is handled before the merge, not filtered by it
	assert.False(t, IsReservedKey(KeyCompletedCommandID))
	assert.False(t, IsReservedKey("players_online"))
}

func TestClient_Busy(t *testing.T) {
	c := &Client{Metrics: map[string]string{}}
	assert.False(t, c.Busy())

	c.Metrics[KeyCurrentCommandID] = "cmd-1"
	assert.True(t, c.Busy())
}
