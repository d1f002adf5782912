// ABOUTME: gRPC client and server bindings for the GameControl service.
// ABOUTME: Mirrors the service definition in game.proto.

package game

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	GameControl_Register_FullMethodName     = "/game_control.GameControl/Register"
	GameControl_SendCommand_FullMethodName  = "/game_control.GameControl/SendCommand"
	GameControl_GetStatus_FullMethodName    = "/game_control.GameControl/GetStatus"
	GameControl_UpdateStatus_FullMethodName = "/game_control.GameControl/UpdateStatus"
	GameControl_StreamStatus_FullMethodName = "/game_control.GameControl/StreamStatus"
)

// GameControlClient is the client API for the GameControl service.
type GameControlClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	SendCommand(ctx context.Context, in *CommandRequest, opts ...grpc.CallOption) (*CommandResponse, error)
	GetStatus(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	UpdateStatus(ctx context.Context, in *StatusUpdate, opts ...grpc.CallOption) (*StatusUpdateResponse, error)
	StreamStatus(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (GameControl_StreamStatusClient, error)
}

type gameControlClient struct {
	cc grpc.ClientConnInterface
}

// NewGameControlClient returns a GameControlClient bound to the connection.
func NewGameControlClient(cc grpc.ClientConnInterface) GameControlClient {
	return &gameControlClient{cc}
}

func (c *gameControlClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	if err := c.cc.Invoke(ctx, GameControl_Register_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameControlClient) SendCommand(ctx context.Context, in *CommandRequest, opts ...grpc.CallOption) (*CommandResponse, error) {
	out := new(CommandResponse)
	if err := c.cc.Invoke(ctx, GameControl_SendCommand_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameControlClient) GetStatus(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	out := new(StatusResponse)
	if err := c.cc.Invoke(ctx, GameControl_GetStatus_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameControlClient) UpdateStatus(ctx context.Context, in *StatusUpdate, opts ...grpc.CallOption) (*StatusUpdateResponse, error) {
	out := new(StatusUpdateResponse)
	if err := c.cc.Invoke(ctx, GameControl_UpdateStatus_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameControlClient) StreamStatus(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (GameControl_StreamStatusClient, error) {
	stream, err := c.cc.NewStream(ctx, &GameControl_ServiceDesc.Streams[0], GameControl_StreamStatus_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &gameControlStreamStatusClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// GameControl_StreamStatusClient is the client side of the StreamStatus stream.
type GameControl_StreamStatusClient interface {
	Recv() (*StatusResponse, error)
	grpc.ClientStream
}

type gameControlStreamStatusClient struct {
	grpc.ClientStream
}

func (x *gameControlStreamStatusClient) Recv() (*StatusResponse, error) {
	m := new(StatusResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// GameControlServer is the server API for the GameControl service.
// Implementations should embed UnimplementedGameControlServer for forward
// compatibility.
type GameControlServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	SendCommand(context.Context, *CommandRequest) (*CommandResponse, error)
	GetStatus(context.Context, *StatusRequest) (*StatusResponse, error)
	UpdateStatus(context.Context, *StatusUpdate) (*StatusUpdateResponse, error)
	StreamStatus(*StatusRequest, GameControl_StreamStatusServer) error
}

// UnimplementedGameControlServer returns Unimplemented for all methods.
type UnimplementedGameControlServer struct{}

func (UnimplementedGameControlServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

func (UnimplementedGameControlServer) SendCommand(context.Context, *CommandRequest) (*CommandResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendCommand not implemented")
}

func (UnimplementedGameControlServer) GetStatus(context.Context, *StatusRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStatus not implemented")
}

func (UnimplementedGameControlServer) UpdateStatus(context.Context, *StatusUpdate) (*StatusUpdateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateStatus not implemented")
}

func (UnimplementedGameControlServer) StreamStatus(*StatusRequest, GameControl_StreamStatusServer) error {
	return status.Error(codes.Unimplemented, "method StreamStatus not implemented")
}

// GameControl_StreamStatusServer is the server side of the StreamStatus stream.
type GameControl_StreamStatusServer interface {
	Send(*StatusResponse) error
	grpc.ServerStream
}

type gameControlStreamStatusServer struct {
	grpc.ServerStream
}

func (x *gameControlStreamStatusServer) Send(m *StatusResponse) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterGameControlServer registers the GameControl service implementation
// on the given gRPC server.
func RegisterGameControlServer(s grpc.ServiceRegistrar, srv GameControlServer) {
	s.RegisterService(&GameControl_ServiceDesc, srv)
}

func _GameControl_Register_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RegisterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameControlServer).Register(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GameControl_Register_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GameControlServer).Register(ctx, req.(*RegisterRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GameControl_SendCommand_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CommandRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameControlServer).SendCommand(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GameControl_SendCommand_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GameControlServer).SendCommand(ctx, req.(*CommandRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GameControl_GetStatus_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameControlServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GameControl_GetStatus_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GameControlServer).GetStatus(ctx, req.(*StatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GameControl_UpdateStatus_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StatusUpdate)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameControlServer).UpdateStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GameControl_UpdateStatus_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GameControlServer).UpdateStatus(ctx, req.(*StatusUpdate))
	}
	return interceptor(ctx, in, info, handler)
}

func _GameControl_StreamStatus_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(StatusRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(GameControlServer).StreamStatus(m, &gameControlStreamStatusServer{ServerStream: stream})
}

// GameControl_ServiceDesc is the grpc.ServiceDesc for the GameControl
// service. It should only be used with grpc.RegisterService.
var GameControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "game_control.GameControl",
	HandlerType: (*GameControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    _GameControl_Register_Handler,
		},
		{
			MethodName: "SendCommand",
			Handler:    _GameControl_SendCommand_Handler,
		},
		{
			MethodName: "GetStatus",
			Handler:    _GameControl_GetStatus_Handler,
		},
		{
			MethodName: "UpdateStatus",
			Handler:    _GameControl_UpdateStatus_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamStatus",
			Handler:       _GameControl_StreamStatus_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "proto/game/game.proto",
}
