// ABOUTME: Tests for the liveness reaper's TTL eviction loop.
// ABOUTME: Validates stale clients are swept while refreshing clients survive.

package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReaper_Defaults(t *testing.T) {
	r := NewReaper(New(nil), 0, 0, nil)
	assert.Equal(t, DefaultSweepInterval, r.interval)
	assert.Equal(t, DefaultTTL, r.ttl)
}

func TestReaper_SweepsStaleClients(t *testing.T) {
	reg := New(nil)
	c := reg.Register("stale", "game_server", "1.0.0", 8)

	reaper := NewReaper(reg, 10*time.Millisecond, 30*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reaper.Run(ctx)

	// Never refreshed, so eviction has to land within a few sweeps
	assert.Eventually(t, func() bool {
		_, err := reg.Get(c.ID)
		return err != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, reg.Len())
}

func TestReaper_RefreshingClientSurvives(t *testing.T) {
	reg := New(nil)
	c := reg.Register("fresh", "game_server", "1.0.0", 8)

	reaper := NewReaper(reg, 10*time.Millisecond, 50*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reaper.Run(ctx)

	// Keep touching well inside the TTL across several sweep cycles
	for i := 0; i < 10; i++ {
		time.Sleep(15 * time.Millisecond)
		require.NoError(t, reg.Touch(c.ID))
	}

	_, err := reg.Get(c.ID)
	assert.NoError(t, err)
}

func TestReaper_StopsOnCancel(t *testing.T) {
	reg := New(nil)
	reaper := NewReaper(reg, 5*time.Millisecond, 50*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reaper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after cancel")
	}
}
