// Package rpcapi defines the gRPC contract of usersvc: the message types, the
// service descriptor shared by server and client, and the client stub.
// Messages travel JSON-encoded through the "json" codec registered here.
package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "usersvc.v1.UserService"

// Full method names, as seen by interceptors.
const (
	MethodPing       = "/" + ServiceName + "/Ping"
	MethodRegister   = "/" + ServiceName + "/Register"
	MethodLogin      = "/" + ServiceName + "/Login"
	MethodStatus     = "/" + ServiceName + "/Status"
	MethodListUsers  = "/" + ServiceName + "/ListUsers"
	MethodGetUser    = "/" + ServiceName + "/GetUser"
	MethodAddUser    = "/" + ServiceName + "/AddUser"
	MethodUpdateUser = "/" + ServiceName + "/UpdateUser"
)

// UserServiceServer is implemented by the server.
type UserServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Status(context.Context, *StatusRequest) (*UserResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	GetUser(context.Context, *GetUserRequest) (*UserResponse, error)
	AddUser(context.Context, *AddUserRequest) (*AddUserResponse, error)
	UpdateUser(context.Context, *UpdateUserRequest) (*UserResponse, error)
}

func unary[Req, Resp any](fullMethod string, call func(UserServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UserServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(UserServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes UserService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, UserServiceServer.Ping)},
		{MethodName: "Register", Handler: unary(MethodRegister, UserServiceServer.Register)},
		{MethodName: "Login", Handler: unary(MethodLogin, UserServiceServer.Login)},
		{MethodName: "Status", Handler: unary(MethodStatus, UserServiceServer.Status)},
		{MethodName: "ListUsers", Handler: unary(MethodListUsers, UserServiceServer.ListUsers)},
		{MethodName: "GetUser", Handler: unary(MethodGetUser, UserServiceServer.GetUser)},
		{MethodName: "AddUser", Handler: unary(MethodAddUser, UserServiceServer.AddUser)},
		{MethodName: "UpdateUser", Handler: unary(MethodUpdateUser, UserServiceServer.UpdateUser)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "usersvc/v1/user_service",
}

// RegisterUserServiceServer registers srv on s.
func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
