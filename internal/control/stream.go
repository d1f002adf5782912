// ABOUTME: Push-mode status channel: per-client streamer goroutines feeding bounded channels.
// ABOUTME: Streamers reach the registry through weak pointers and self-terminate when their target is gone.

package control

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"weak"

	"github.com/2389/robot-admin/internal/command"
	"github.com/2389/robot-admin/internal/registry"
	pb "github.com/2389/robot-admin/proto/game"
)

// streamer is one per-client background producer. The channel is closed by
// the producer goroutine when it exits, never by consumers.
type streamer struct {
	clientID string
	ch       chan *pb.StatusResponse
	cancel   context.CancelFunc
}

// Hub owns the push-mode streamers, at most one per client. It holds only
// weak pointers back to the registry and dispatcher: streamer goroutines
// must never extend the registry's lifetime, and the registry must not
// depend on how many streaming tasks reference it.
type Hub struct {
	mu        sync.Mutex
	streamers map[string]*streamer

	registry   weak.Pointer[registry.Registry]
	dispatcher weak.Pointer[command.Dispatcher]

	interval time.Duration
	buffer   int
	logger   *slog.Logger
}

// NewHub creates the streaming hub. interval is the snapshot period and
// buffer the bounded per-subscriber channel capacity; non-positive values
// fall back to 1s / 128.
func NewHub(reg *registry.Registry, disp *command.Dispatcher, interval time.Duration, buffer int, logger *slog.Logger) *Hub {
	if interval <= 0 {
		interval = time.Second
	}
	if buffer <= 0 {
		buffer = 128
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		streamers:  make(map[string]*streamer),
		registry:   weak.Make(reg),
		dispatcher: weak.Make(disp),
		interval:   interval,
		buffer:     buffer,
		logger:     logger.With("component", "stream-hub"),
	}
}

// Subscribe starts (or replaces) the streamer for a client and returns its
// snapshot channel. A previous subscriber's streamer is canceled and its
// channel closed, so the old consumer observes end-of-stream rather than
// silence. Unknown clients fail with registry.ErrClientNotFound.
func (h *Hub) Subscribe(clientID string) (<-chan *pb.StatusResponse, error) {
	reg := h.registry.Value()
	if reg == nil {
		return nil, context.Canceled
	}
	if _, err := reg.Get(clientID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	st := &streamer{
		clientID: clientID,
		ch:       make(chan *pb.StatusResponse, h.buffer),
		cancel:   cancel,
	}

	h.mu.Lock()
	if old, ok := h.streamers[clientID]; ok {
		h.logger.Info("replacing status subscriber", "client_id", clientID)
		old.cancel()
	}
	h.streamers[clientID] = st
	h.mu.Unlock()

	go h.run(ctx, st)
	return st.ch, nil
}

// Disconnect tears down a client's streamer and removes its record from the
// registry. Called when the stream consumer goes away.
func (h *Hub) Disconnect(clientID string) {
	if reg := h.registry.Value(); reg != nil {
		reg.Remove(clientID)
	}

	h.mu.Lock()
	st, ok := h.streamers[clientID]
	if ok {
		st.cancel()
	}
	h.mu.Unlock()
}

// Close cancels every streamer. Registry records are left alone; process
// shutdown is not a client disconnect.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, st := range h.streamers {
		st.cancel()
	}
}

// remove deletes the map entry for st, unless a replacement already took
// its slot.
func (h *Hub) remove(st *streamer) {
	h.mu.Lock()
	if cur, ok := h.streamers[st.clientID]; ok && cur == st {
		delete(h.streamers, st.clientID)
	}
	h.mu.Unlock()
}

// run produces status snapshots on each tick until the client disappears,
// the consumer stalls, or the context is canceled. It owns st.ch.
func (h *Hub) run(ctx context.Context, st *streamer) {
	defer close(st.ch)
	defer h.remove(st)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !h.tick(st) {
				return
			}
		}
	}
}

// tick emits one snapshot. Returns false when the streamer should exit.
func (h *Hub) tick(st *streamer) bool {
	reg := h.registry.Value()
	if reg == nil {
		// Registry torn down; nothing to observe.
		return false
	}

	client, err := reg.Get(st.clientID)
	if err != nil {
		h.logger.Debug("streamed client gone", "client_id", st.clientID)
		return false
	}

	resp := statusSnapshot(client)
	if resp.CurrentCommand != nil {
		if disp := h.dispatcher.Value(); disp != nil {
			disp.MarkDelivered(context.Background(), resp.CurrentCommand.CommandId)
		}
	}

	select {
	case st.ch <- resp:
		// Accepted into the stream buffer: counts as contact.
		_ = reg.Touch(st.clientID)
		return true
	default:
		// Consumer stalled for a full buffer: treat as disconnect and
		// drop the record rather than pretending liveness.
		h.logger.Warn("status subscriber stalled, dropping client", "client_id", st.clientID)
		reg.Remove(st.clientID)
		return false
	}
}
