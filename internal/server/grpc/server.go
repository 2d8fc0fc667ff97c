// Package grpc is the gRPC transport of the service. It exposes
// rpcapi.UserService and guards protected methods with the same gate as the
// HTTP API.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/rpcapi"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	AddUser(ctx context.Context, username, email, password string) (*models.User, error)
	UpdateStatus(ctx context.Context, id string, upd models.StatusUpdate) (*models.User, error)
}

type authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*models.User, error)
	RequireAdmin(user *models.User) error
}

// Recorder receives per-call metrics. *metrics.Collector implements it.
type Recorder interface {
	RecordGRPCRequest(method, code string)
	RecordGateRejection(reason string)
}

type nopRecorder struct{}

func (nopRecorder) RecordGRPCRequest(string, string) {}
func (nopRecorder) RecordGateRejection(string)       {}

type GRPCServer struct {
	address string
	users   userSvc
	gate    authenticator
	logger  logging.Logger
	metrics Recorder
}

// Option customises a GRPCServer.
type Option func(*GRPCServer)

// WithMetrics records call outcomes and gate rejections in rec.
func WithMetrics(rec Recorder) Option {
	return func(s *GRPCServer) {
		s.metrics = rec
	}
}

func NewGRPCServer(address string, l logging.Logger, us userSvc, g authenticator, opts ...Option) *GRPCServer {
	s := &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		gate:    g,
		metrics: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newServer builds the grpc.Server with the interceptor chain and registers
// the service on it.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpcapi.RegisterUserServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(10 * time.Second):
			srv.Stop()
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
