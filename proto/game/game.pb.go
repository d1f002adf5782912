// ABOUTME: Wire types for the game_control protocol, kept in sync with game.proto.
// ABOUTME: Hand-maintained legacy-shape messages; the proto toolchain is not part of the build.

package game

import "fmt"

// RegisterRequest admits a new client into the registry.
type RegisterRequest struct {
	ClientName string `protobuf:"bytes,1,opt,name=client_name,json=clientName,proto3" json:"client_name,omitempty"`
	ClientType string `protobuf:"bytes,2,opt,name=client_type,json=clientType,proto3" json:"client_type,omitempty"`
	Version    string `protobuf:"bytes,3,opt,name=version,proto3" json:"version,omitempty"`
	MaxPlayers int32  `protobuf:"varint,4,opt,name=max_players,json=maxPlayers,proto3" json:"max_players,omitempty"`
}

func (m *RegisterRequest) Reset()         { *m = RegisterRequest{} }
func (m *RegisterRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*RegisterRequest) ProtoMessage()    {}

func (m *RegisterRequest) GetClientName() string {
	if m != nil {
		return m.ClientName
	}
	return ""
}

func (m *RegisterRequest) GetClientType() string {
	if m != nil {
		return m.ClientType
	}
	return ""
}

func (m *RegisterRequest) GetVersion() string {
	if m != nil {
		return m.Version
	}
	return ""
}

func (m *RegisterRequest) GetMaxPlayers() int32 {
	if m != nil {
		return m.MaxPlayers
	}
	return 0
}

// RegisterResponse carries the registry-assigned client id.
type RegisterResponse struct {
	Success  bool   `protobuf:"varint,1,opt,name=success,proto3" json:"success,omitempty"`
	ClientId string `protobuf:"bytes,2,opt,name=client_id,json=clientId,proto3" json:"client_id,omitempty"`
	Message  string `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *RegisterResponse) Reset()         { *m = RegisterResponse{} }
func (m *RegisterResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*RegisterResponse) ProtoMessage()    {}

func (m *RegisterResponse) GetSuccess() bool {
	if m != nil {
		return m.Success
	}
	return false
}

func (m *RegisterResponse) GetClientId() string {
	if m != nil {
		return m.ClientId
	}
	return ""
}

func (m *RegisterResponse) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

// CommandRequest asks the server to dispatch a command to a client.
type CommandRequest struct {
	ClientId   string            `protobuf:"bytes,1,opt,name=client_id,json=clientId,proto3" json:"client_id,omitempty"`
	Command    string            `protobuf:"bytes,2,opt,name=command,proto3" json:"command,omitempty"`
	Parameters map[string]string `protobuf:"bytes,3,rep,name=parameters,proto3" json:"parameters,omitempty" protobuf_key:"bytes,1,opt,name=key" protobuf_val:"bytes,2,opt,name=value"`
}

func (m *CommandRequest) Reset()         { *m = CommandRequest{} }
func (m *CommandRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandRequest) ProtoMessage()    {}

func (m *CommandRequest) GetClientId() string {
	if m != nil {
		return m.ClientId
	}
	return ""
}

func (m *CommandRequest) GetCommand() string {
	if m != nil {
		return m.Command
	}
	return ""
}

func (m *CommandRequest) GetParameters() map[string]string {
	if m != nil {
		return m.Parameters
	}
	return nil
}

// CommandResponse reports whether a command was accepted.
type CommandResponse struct {
	Success bool   `protobuf:"varint,1,opt,name=success,proto3" json:"success,omitempty"`
	Message string `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *CommandResponse) Reset()         { *m = CommandResponse{} }
func (m *CommandResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandResponse) ProtoMessage()    {}

func (m *CommandResponse) GetSuccess() bool {
	if m != nil {
		return m.Success
	}
	return false
}

func (m *CommandResponse) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

// StatusRequest identifies the client whose status is requested.
type StatusRequest struct {
	ClientId string `protobuf:"bytes,1,opt,name=client_id,json=clientId,proto3" json:"client_id,omitempty"`
}

func (m *StatusRequest) Reset()         { *m = StatusRequest{} }
func (m *StatusRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*StatusRequest) ProtoMessage()    {}

func (m *StatusRequest) GetClientId() string {
	if m != nil {
		return m.ClientId
	}
	return ""
}

// StatusUpdate carries client-reported metrics, including the
// completed_command_id completion signal.
type StatusUpdate struct {
	ClientId string            `protobuf:"bytes,1,opt,name=client_id,json=clientId,proto3" json:"client_id,omitempty"`
	Metrics  map[string]string `protobuf:"bytes,2,rep,name=metrics,proto3" json:"metrics,omitempty" protobuf_key:"bytes,1,opt,name=key" protobuf_val:"bytes,2,opt,name=value"`
}

func (m *StatusUpdate) Reset()         { *m = StatusUpdate{} }
func (m *StatusUpdate) String() string { return fmt.Sprintf("%+v", *m) }
func (*StatusUpdate) ProtoMessage()    {}

func (m *StatusUpdate) GetClientId() string {
	if m != nil {
		return m.ClientId
	}
	return ""
}

func (m *StatusUpdate) GetMetrics() map[string]string {
	if m != nil {
		return m.Metrics
	}
	return nil
}

// StatusUpdateResponse acknowledges a metrics update.
type StatusUpdateResponse struct {
	Success bool   `protobuf:"varint,1,opt,name=success,proto3" json:"success,omitempty"`
	Message string `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *StatusUpdateResponse) Reset()         { *m = StatusUpdateResponse{} }
func (m *StatusUpdateResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*StatusUpdateResponse) ProtoMessage()    {}

func (m *StatusUpdateResponse) GetSuccess() bool {
	if m != nil {
		return m.Success
	}
	return false
}

func (m *StatusUpdateResponse) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

// PendingCommand describes a queued command. Retained for wire
// compatibility; the server enforces a single in-flight command and the
// queue is always empty.
type PendingCommand struct {
	CommandId  string            `protobuf:"bytes,1,opt,name=command_id,json=commandId,proto3" json:"command_id,omitempty"`
	Command    string            `protobuf:"bytes,2,opt,name=command,proto3" json:"command,omitempty"`
	Parameters map[string]string `protobuf:"bytes,3,rep,name=parameters,proto3" json:"parameters,omitempty" protobuf_key:"bytes,1,opt,name=key" protobuf_val:"bytes,2,opt,name=value"`
	CreatedAt  int64             `protobuf:"varint,4,opt,name=created_at,json=createdAt,proto3" json:"created_at,omitempty"`
}

func (m *PendingCommand) Reset()         { *m = PendingCommand{} }
func (m *PendingCommand) String() string { return fmt.Sprintf("%+v", *m) }
func (*PendingCommand) ProtoMessage()    {}

func (m *PendingCommand) GetCommandId() string {
	if m != nil {
		return m.CommandId
	}
	return ""
}

func (m *PendingCommand) GetCommand() string {
	if m != nil {
		return m.Command
	}
	return ""
}

func (m *PendingCommand) GetParameters() map[string]string {
	if m != nil {
		return m.Parameters
	}
	return nil
}

func (m *PendingCommand) GetCreatedAt() int64 {
	if m != nil {
		return m.CreatedAt
	}
	return 0
}

// CurrentCommand is the derived view of a client's in-flight command.
type CurrentCommand struct {
	CommandId  string            `protobuf:"bytes,1,opt,name=command_id,json=commandId,proto3" json:"command_id,omitempty"`
	Command    string            `protobuf:"bytes,2,opt,name=command,proto3" json:"command,omitempty"`
	Parameters map[string]string `protobuf:"bytes,3,rep,name=parameters,proto3" json:"parameters,omitempty" protobuf_key:"bytes,1,opt,name=key" protobuf_val:"bytes,2,opt,name=value"`
	StartedAt  int64             `protobuf:"varint,4,opt,name=started_at,json=startedAt,proto3" json:"started_at,omitempty"`
}

func (m *CurrentCommand) Reset()         { *m = CurrentCommand{} }
func (m *CurrentCommand) String() string { return fmt.Sprintf("%+v", *m) }
func (*CurrentCommand) ProtoMessage()    {}

func (m *CurrentCommand) GetCommandId() string {
	if m != nil {
		return m.CommandId
	}
	return ""
}

func (m *CurrentCommand) GetCommand() string {
	if m != nil {
		return m.Command
	}
	return ""
}

func (m *CurrentCommand) GetParameters() map[string]string {
	if m != nil {
		return m.Parameters
	}
	return nil
}

func (m *CurrentCommand) GetStartedAt() int64 {
	if m != nil {
		return m.StartedAt
	}
	return 0
}

// StatusResponse is one status snapshot for a client, used by both the
// pull-mode GetStatus reply and each push-mode stream item.
type StatusResponse struct {
	ClientId        string            `protobuf:"bytes,1,opt,name=client_id,json=clientId,proto3" json:"client_id,omitempty"`
	Status          string            `protobuf:"bytes,2,opt,name=status,proto3" json:"status,omitempty"`
	Metrics         map[string]string `protobuf:"bytes,3,rep,name=metrics,proto3" json:"metrics,omitempty" protobuf_key:"bytes,1,opt,name=key" protobuf_val:"bytes,2,opt,name=value"`
	Timestamp       int64             `protobuf:"varint,4,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	PendingCommands []*PendingCommand `protobuf:"bytes,5,rep,name=pending_commands,json=pendingCommands,proto3" json:"pending_commands,omitempty"`
	CurrentCommand  *CurrentCommand   `protobuf:"bytes,6,opt,name=current_command,json=currentCommand,proto3" json:"current_command,omitempty"`
}

func (m *StatusResponse) Reset()         { *m = StatusResponse{} }
func (m *StatusResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*StatusResponse) ProtoMessage()    {}

func (m *StatusResponse) GetClientId() string {
	if m != nil {
		return m.ClientId
	}
	return ""
}

func (m *StatusResponse) GetStatus() string {
	if m != nil {
		return m.Status
	}
	return ""
}

func (m *StatusResponse) GetMetrics() map[string]string {
	if m != nil {
		return m.Metrics
	}
	return nil
}

func (m *StatusResponse) GetTimestamp() int64 {
	if m != nil {
		return m.Timestamp
	}
	return 0
}

func (m *StatusResponse) GetPendingCommands() []*PendingCommand {
	if m != nil {
		return m.PendingCommands
	}
	return nil
}

func (m *StatusResponse) GetCurrentCommand() *CurrentCommand {
	if m != nil {
		return m.CurrentCommand
	}
	return nil
}
