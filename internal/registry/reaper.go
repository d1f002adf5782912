// ABOUTME: Background liveness sweep that evicts clients past their contact TTL.
// ABOUTME: Runs independently of request traffic and stops on context cancel.

package registry

import (
	"context"
	"log/slog"
	"time"
)

const (
	// DefaultSweepInterval is how often the reaper scans the registry.
	DefaultSweepInterval = 2 * time.Second

	// DefaultTTL is the maximum allowed gap since a client's last contact.
	// Deliberately larger than the sweep interval so a client polling once
	// per second has headroom across a missed beat.
	DefaultTTL = 6 * time.Second
)

// Reaper periodically evicts clients whose last contact exceeds the TTL.
// Eviction is unconditional: an evicted client's in-flight command is
// abandoned and its command record stays in the dispatcher's table.
type Reaper struct {
	registry *Registry
	interval time.Duration
	ttl      time.Duration
	logger   *slog.Logger
}

// NewReaper creates a reaper over the given registry. Non-positive interval
// or ttl fall back to the defaults.
func NewReaper(reg *Registry, interval, ttl time.Duration, logger *slog.Logger) *Reaper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reaper{
		registry: reg,
		interval: interval,
		ttl:      ttl,
		logger:   logger.With("component", "reaper"),
	}
}

// Run sweeps until ctx is canceled. Call it in its own goroutine.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

// sweep evicts expired clients and logs each one.
func (r *Reaper) sweep(now time.Time) {
	for _, c := range r.registry.EvictExpired(now, r.ttl) {
		r.logger.Info("=== CLIENT DISCONNECTED ===",
			"client_id", c.ID,
			"name", c.Name,
			"type", c.Type,
			"last_seen", now.Sub(c.LastContact).Round(time.Millisecond).String(),
		)
	}
}
