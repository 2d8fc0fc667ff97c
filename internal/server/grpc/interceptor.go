package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/rpcapi"
	"github.com/dmitrijs2005/usersvc/internal/server/gate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type accessLevel int

const (
	levelPublic accessLevel = iota
	levelUser
	levelAdmin
)

// methodAccess lists the protected methods; anything absent is public.
var methodAccess = map[string]accessLevel{
	rpcapi.MethodStatus:     levelUser,
	rpcapi.MethodAddUser:    levelAdmin,
	rpcapi.MethodUpdateUser: levelAdmin,
}

// tokenFromMetadata reads "authorization: Bearer <token>" from the incoming
// metadata. A malformed value is the same as no value.
func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}
	token, _ := gate.BearerToken(values[0])
	return token
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	level := methodAccess[info.FullMethod]
	if level == levelPublic {
		return handler(ctx, req)
	}

	user, err := s.gate.Authenticate(ctx, tokenFromMetadata(ctx))
	if err != nil {
		return nil, s.reject(ctx, info.FullMethod, err)
	}

	if level == levelAdmin {
		if err := s.gate.RequireAdmin(user); err != nil {
			return nil, s.reject(ctx, info.FullMethod, err)
		}
	}

	return handler(gate.WithUser(ctx, user), req)
}

func (s *GRPCServer) reject(ctx context.Context, method string, err error) error {
	if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrInsufficientPrivilege) {
		reason := gate.Reason(err)
		s.metrics.RecordGateRejection(reason)
		s.logger.Debug(ctx, "call rejected by gate", "method", method, "reason", reason)
	}
	return toStatus(ctx, s.logger, err)
}

// loggingInterceptor logs each call and feeds the call metrics.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)

	s.metrics.RecordGRPCRequest(info.FullMethod, code.String())
	s.logger.Info(ctx, "grpc_request",
		"method", info.FullMethod,
		"code", code.String(),
		"duration_ms", float64(time.Since(start).Nanoseconds())/float64(time.Millisecond),
	)

	return resp, err
}
