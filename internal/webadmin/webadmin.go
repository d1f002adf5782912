// ABOUTME: Admin HTTP surface: client listing, command submission, command history.
// ABOUTME: A thin pass-through over the registry and dispatcher; no extra invariants live here.

package webadmin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/2389/robot-admin/internal/command"
	"github.com/2389/robot-admin/internal/registry"
)

// Admin serves the administrative read surface and the command-submission
// proxy consumed by the web panel.
type Admin struct {
	registry   *registry.Registry
	dispatcher *command.Dispatcher
	logger     *slog.Logger
}

// New creates the admin HTTP layer.
func New(reg *registry.Registry, disp *command.Dispatcher, logger *slog.Logger) *Admin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Admin{
		registry:   reg,
		dispatcher: disp,
		logger:     logger.With("component", "webadmin"),
	}
}

// RegisterRoutes mounts the admin API and the static panel on the mux.
func (a *Admin) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/clients", a.handleListClients)
	mux.HandleFunc("/api/commands", a.handleCommands)
	mux.Handle("/", staticHandler())
}

// CurrentCommandInfo is the derived current-command view in JSON form.
type CurrentCommandInfo struct {
	CommandID  string            `json:"command_id"`
	Command    string            `json:"command"`
	Parameters map[string]string `json:"parameters,omitempty"`
	StartedAt  int64             `json:"started_at"`
}

// ClientInfo is one registry entry in the listing response.
type ClientInfo struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	ClientType     string              `json:"client_type"`
	Version        string              `json:"version"`
	MaxPlayers     int32               `json:"max_players"`
	LastSeen       int64               `json:"last_seen"`
	Metrics        map[string]string   `json:"metrics"`
	CurrentCommand *CurrentCommandInfo `json:"current_command,omitempty"`
}

// ClientListResponse is the JSON response for GET /api/clients.
type ClientListResponse struct {
	Success bool         `json:"success"`
	Clients []ClientInfo `json:"clients"`
}

// SendCommandRequest is the JSON request body for POST /api/commands.
type SendCommandRequest struct {
	ClientID   string            `json:"client_id"`
	Command    string            `json:"command"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// CommandInfo is one command-table entry in the history response.
type CommandInfo struct {
	ID         string            `json:"id"`
	ClientID   string            `json:"client_id"`
	Command    string            `json:"command"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Status     string            `json:"status"`
	CreatedAt  int64             `json:"created_at"`
}

// handleListClients handles GET /api/clients: a snapshot of all client
// records with their derived current-command views.
func (a *Admin) handleListClients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clients := a.registry.Snapshot()
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })

	infos := make([]ClientInfo, 0, len(clients))
	for _, c := range clients {
		info := ClientInfo{
			ID:         c.ID,
			Name:       c.Name,
			ClientType: c.Type,
			Version:    c.Version,
			MaxPlayers: c.MaxPlayers,
			LastSeen:   c.LastContact.Unix(),
			Metrics:    c.Metrics,
		}
		if active := command.Current(c.Metrics); active != nil {
			info.CurrentCommand = &CurrentCommandInfo{
				CommandID:  active.CommandID,
				Command:    active.Command,
				Parameters: active.Parameters,
				StartedAt:  active.StartedAt,
			}
		}
		infos = append(infos, info)
	}

	a.writeJSON(w, http.StatusOK, ClientListResponse{Success: true, Clients: infos})
}

// handleCommands dispatches on method: POST submits a command, GET lists
// the command table.
func (a *Admin) handleCommands(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.handleSendCommand(w, r)
	case http.MethodGet:
		a.handleListCommands(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSendCommand handles POST /api/commands: a direct proxy to the
// dispatcher with the same semantics as the SendCommand RPC.
func (a *Admin) handleSendCommand(w http.ResponseWriter, r *http.Request) {
	var req SendCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ClientID == "" || req.Command == "" {
		a.writeError(w, http.StatusBadRequest, "client_id and command are required")
		return
	}

	commandID, err := a.dispatcher.Dispatch(r.Context(), req.ClientID, req.Command, req.Parameters)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrClientNotFound):
			a.writeError(w, http.StatusNotFound, "Client not found")
		case errors.Is(err, command.ErrClientBusy):
			a.writeError(w, http.StatusConflict, "Client is busy processing another command")
		default:
			a.logger.Error("dispatching command", "error", err)
			a.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Command sent successfully",
		"command_id": commandID,
	})
}

// handleListCommands handles GET /api/commands: the full command table,
// newest first. Completed commands are included for audit.
func (a *Admin) handleListCommands(w http.ResponseWriter, r *http.Request) {
	commands := a.dispatcher.Snapshot()
	sort.Slice(commands, func(i, j int) bool { return commands[i].CreatedAt.After(commands[j].CreatedAt) })

	infos := make([]CommandInfo, 0, len(commands))
	for _, cmd := range commands {
		infos = append(infos, CommandInfo{
			ID:         cmd.ID,
			ClientID:   cmd.ClientID,
			Command:    cmd.Name,
			Parameters: cmd.Parameters,
			Status:     cmd.Status.String(),
			CreatedAt:  cmd.CreatedAt.Unix(),
		})
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"commands": infos,
	})
}

// writeJSON writes v as a JSON response with the given status.
func (a *Admin) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("encoding response", "error", err)
	}
}

// writeError writes the standard error envelope.
func (a *Admin) writeError(w http.ResponseWriter, code int, msg string) {
	a.writeJSON(w, code, map[string]any{
		"success": false,
		"error":   msg,
	})
}
