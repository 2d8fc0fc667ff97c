package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/rpcapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      rpcapi.UserServiceClient

	mu    sync.RWMutex
	token string
}

func withAuthToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)

	return metadata.NewOutgoingContext(ctx, md)
}

// authTokenInterceptor attaches the session token, if any, and bounds each
// call with the configured timeout.
func (s *GRPCClient) authTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.Token(); token != "" {
		ctx = withAuthToken(ctx, token)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a client for endpointURL. No connection is made
// until the first call.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.authTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpcapi.NewUserServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Token returns the token of the current session or "".
func (s *GRPCClient) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *GRPCClient) LoggedIn() bool {
	return s.Token() != ""
}

// Logout forgets the session token. Tokens are not revoked server side; the
// token stays valid until it expires.
func (s *GRPCClient) Logout() error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	s.setToken("")
	return nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpcapi.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Message != common.MsgPong {
		return ErrUnavailable
	}
	return nil
}

// Register creates an account and starts a session for it.
func (s *GRPCClient) Register(ctx context.Context, username, email string, password []byte) error {
	resp, err := s.client.Register(ctx, &rpcapi.RegisterRequest{Username: username, Email: email, Password: string(password)})
	if err != nil {
		return s.mapError(err)
	}
	s.setToken(resp.AuthToken)
	return nil
}

func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) error {
	resp, err := s.client.Login(ctx, &rpcapi.LoginRequest{Email: email, Password: string(password)})
	if err != nil {
		return s.mapError(err)
	}
	s.setToken(resp.AuthToken)
	return nil
}

func (s *GRPCClient) Status(ctx context.Context) (*rpcapi.User, error) {
	resp, err := s.client.Status(ctx, &rpcapi.StatusRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.User, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]*rpcapi.User, error) {
	resp, err := s.client.ListUsers(ctx, &rpcapi.ListUsersRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Users, nil
}

func (s *GRPCClient) GetUser(ctx context.Context, id string) (*rpcapi.User, error) {
	resp, err := s.client.GetUser(ctx, &rpcapi.GetUserRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.User, nil
}

// AddUser creates an account as an admin and returns the server's
// confirmation message.
func (s *GRPCClient) AddUser(ctx context.Context, username, email string, password []byte) (string, error) {
	resp, err := s.client.AddUser(ctx, &rpcapi.AddUserRequest{Username: username, Email: email, Password: string(password)})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) UpdateUser(ctx context.Context, id string, active, admin *bool) (*rpcapi.User, error) {
	resp, err := s.client.UpdateUser(ctx, &rpcapi.UpdateUserRequest{ID: id, Active: active, Admin: admin})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.User, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	var sentinel error
	switch st.Code() {
	case codes.Unauthenticated:
		// the session token is no good any more
		if st.Message() == common.MsgInvalidToken {
			s.setToken("")
		}
		sentinel = ErrUnauthorized
	case codes.PermissionDenied:
		sentinel = ErrForbidden
	case codes.NotFound:
		sentinel = ErrNotFound
	case codes.AlreadyExists:
		sentinel = ErrAlreadyExists
	case codes.InvalidArgument:
		sentinel = ErrInvalidInput
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}

	return fmt.Errorf("%w: %s", sentinel, st.Message())
}
