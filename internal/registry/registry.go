// ABOUTME: Concurrent store of registered game clients keyed by registry-assigned id.
// ABOUTME: All busy-check and metric mutation goes through a single write-locked critical section.

package registry

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Reserved metric keys. These encode a client's active or completed command
// and are written only by the command dispatcher and the completion-signal
// path of UpdateStatus, never by ordinary metric merges.
const (
	KeyCurrentCommandID   = "current_command_id"
	KeyCurrentCommand     = "current_command"
	KeyCommandStartedAt   = "command_started_at"
	KeyCompletedCommandID = "completed_command_id"

	// ParameterPrefix prefixes one metric entry per command parameter.
	ParameterPrefix = "parameter_"
)

// ErrClientNotFound indicates the specified client id is absent from the registry.
var ErrClientNotFound = errors.New("client not found")

// IsReservedKey reports whether a metrics-bag key is owned by the command
// dispatcher. The completion signal key is not reserved here: it is the one
// key agents are allowed to send, handled by the completion path before the
// merge.
func IsReservedKey(key string) bool {
	return strings.HasPrefix(key, KeyCurrentCommand) ||
		strings.HasPrefix(key, ParameterPrefix) ||
		key == KeyCommandStartedAt
}

// Client is one registered game client. Name, Type, Version and MaxPlayers
// are immutable after registration; LastContact and Metrics are mutated only
// inside Registry critical sections.
type Client struct {
	ID          string
	Name        string
	Type        string
	Version     string
	MaxPlayers  int32
	LastContact time.Time
	Metrics     map[string]string
}

// clone returns a deep copy safe to hand outside the registry lock.
func (c *Client) clone() *Client {
	dup := *c
	dup.Metrics = make(map[string]string, len(c.Metrics))
	for k, v := range c.Metrics {
		dup.Metrics[k] = v
	}
	return &dup
}

// Busy reports whether the client has an in-flight command recorded in its
// metrics bag.
func (c *Client) Busy() bool {
	_, ok := c.Metrics[KeyCurrentCommandID]
	return ok
}

// Registry is the shared mapping from client id to client record. A single
// RWMutex guards the whole map; read-modify-write sequences (busy check plus
// mark) happen under one write-lock hold via Update so concurrent dispatches
// against the same client linearize.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *slog.Logger
}

// New creates an empty Registry. Pass nil logger for the default.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		clients: make(map[string]*Client),
		logger:  logger.With("component", "registry"),
	}
}

// Register admits a new client and returns a copy of its record. Ids are
// random uuids, unique for the registry's lifetime.
func (r *Registry) Register(name, clientType, version string, maxPlayers int32) *Client {
	client := &Client{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        clientType,
		Version:     version,
		MaxPlayers:  maxPlayers,
		LastContact: time.Now(),
		Metrics:     make(map[string]string),
	}

	r.mu.Lock()
	r.clients[client.ID] = client
	total := len(r.clients)
	r.mu.Unlock()

	r.logger.Info("=== CLIENT REGISTERED ===",
		"client_id", client.ID,
		"name", name,
		"type", clientType,
		"version", version,
		"total_clients", total,
	)
	return client.clone()
}

// Get returns a copy of the client record, or ErrClientNotFound.
func (r *Registry) Get(id string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	return client.clone(), nil
}

// Update runs fn against the live record under the write lock. The whole of
// fn is one critical section, so a check-then-mutate sequence inside it is
// atomic with respect to every other mutator. If fn returns an error it must
// leave the record untouched; the error is returned as-is. Unknown ids
// return ErrClientNotFound without invoking fn.
func (r *Registry) Update(id string, fn func(*Client) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[id]
	if !ok {
		return ErrClientNotFound
	}
	return fn(client)
}

// Touch refreshes the client's last-contact timestamp. The read of "now" and
// the write happen in the same critical section, so per-client timestamps
// never move backward.
func (r *Registry) Touch(id string) error {
	return r.Update(id, func(c *Client) error {
		c.LastContact = time.Now()
		return nil
	})
}

// TouchAndGet refreshes the client's last-contact timestamp and returns a
// copy of the record, all in one critical section.
func (r *Registry) TouchAndGet(id string) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	client.LastContact = time.Now()
	return client.clone(), nil
}

// Remove deletes the client record, returning a copy of it and whether it
// existed. Removal of an absent id is not an error.
func (r *Registry) Remove(id string) (*Client, bool) {
	r.mu.Lock()
	client, ok := r.clients[id]
	if ok {
		delete(r.clients, id)
	}
	total := len(r.clients)
	r.mu.Unlock()

	if !ok {
		return nil, false
	}
	r.logger.Info("=== CLIENT REMOVED ===",
		"client_id", id,
		"name", client.Name,
		"total_clients", total,
	)
	return client.clone(), true
}

// Snapshot returns copies of all client records for administrative listing.
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c.clone())
	}
	return out
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// EvictExpired removes every client whose last contact is older than ttl
// relative to now, returning copies of the evicted records.
func (r *Registry) EvictExpired(now time.Time, ttl time.Duration) []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []*Client
	for id, c := range r.clients {
		if now.Sub(c.LastContact) > ttl {
			evicted = append(evicted, c.clone())
			delete(r.clients, id)
		}
	}
	return evicted
}
