package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/rpcapi"
	"github.com/dmitrijs2005/usersvc/internal/server/gate"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service or gate error to the gRPC status the client sees.
func toStatus(ctx context.Context, logger logging.Logger, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidPayload):
		return status.Error(codes.InvalidArgument, common.MsgInvalidPayload)
	case errors.Is(err, common.ErrUserAlreadyExists):
		return status.Error(codes.AlreadyExists, common.MsgUserExists)
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.MsgInvalidLogin)
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, common.MsgInvalidToken)
	case errors.Is(err, common.ErrInsufficientPrivilege):
		return status.Error(codes.PermissionDenied, common.MsgForbidden)
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, common.MsgUserNotFound)
	default:
		logger.Error(ctx, "call failed", "error", err)
		return status.Error(codes.Internal, common.MsgInternal)
	}
}

func toRPCUser(u *models.User) *rpcapi.User {
	if u == nil {
		return nil
	}
	return &rpcapi.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Active:       u.Active,
		Admin:        u.Admin,
		RegisteredAt: u.RegisteredAt,
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpcapi.PingRequest) (*rpcapi.PingResponse, error) {
	return &rpcapi.PingResponse{Message: common.MsgPong}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *rpcapi.RegisterRequest) (*rpcapi.AuthResponse, error) {
	_, token, err := s.users.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &rpcapi.AuthResponse{Message: common.MsgRegistered, AuthToken: token}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpcapi.LoginRequest) (*rpcapi.AuthResponse, error) {
	token, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &rpcapi.AuthResponse{Message: common.MsgLoggedIn, AuthToken: token}, nil
}

func (s *GRPCServer) Status(ctx context.Context, req *rpcapi.StatusRequest) (*rpcapi.UserResponse, error) {
	user, ok := gate.UserFromContext(ctx)
	if !ok {
		return nil, toStatus(ctx, s.logger, common.ErrMissingToken)
	}
	return &rpcapi.UserResponse{User: toRPCUser(user)}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, req *rpcapi.ListUsersRequest) (*rpcapi.ListUsersResponse, error) {
	list, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}

	out := make([]*rpcapi.User, 0, len(list))
	for _, u := range list {
		out = append(out, toRPCUser(u))
	}
	return &rpcapi.ListUsersResponse{Users: out}, nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *rpcapi.GetUserRequest) (*rpcapi.UserResponse, error) {
	user, err := s.users.GetUser(ctx, req.ID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &rpcapi.UserResponse{User: toRPCUser(user)}, nil
}

func (s *GRPCServer) AddUser(ctx context.Context, req *rpcapi.AddUserRequest) (*rpcapi.AddUserResponse, error) {
	user, err := s.users.AddUser(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &rpcapi.AddUserResponse{
		Message: fmt.Sprintf(common.MsgUserAdded, user.Email),
		User:    toRPCUser(user),
	}, nil
}

func (s *GRPCServer) UpdateUser(ctx context.Context, req *rpcapi.UpdateUserRequest) (*rpcapi.UserResponse, error) {
	user, err := s.users.UpdateStatus(ctx, req.ID, models.StatusUpdate{Active: req.Active, Admin: req.Admin})
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &rpcapi.UserResponse{User: toRPCUser(user)}, nil
}
