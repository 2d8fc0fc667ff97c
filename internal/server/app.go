// Package server wires configuration, storage and both transports together
// and runs them until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/auth"
	"github.com/dmitrijs2005/usersvc/internal/server/config"
	"github.com/dmitrijs2005/usersvc/internal/server/gate"
	"github.com/dmitrijs2005/usersvc/internal/server/httpapi"
	"github.com/dmitrijs2005/usersvc/internal/server/metrics"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/users"
	"github.com/dmitrijs2005/usersvc/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/usersvc/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	gate        *gate.Gate
	registry    *prometheus.Registry
	metrics     *metrics.Collector
	limiter     *httpapi.RateLimiter
}

// NewApp opens storage and builds every component. Close releases what it
// opened.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	repo, err := app.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := auth.NewPasswordHasher(c.BcryptCost)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	tokens, err := auth.NewTokenCodec([]byte(c.SecretKey), c.TokenValidityDuration)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("token codec: %w", err)
	}
	app.logger.Info(ctx, "token codec ready", "token_ttl", tokens.Validity().String())

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.NewCollector(app.registry)

	app.userService = services.NewUserService(repo, hasher, tokens, logger, services.WithEventRecorder(app.metrics))
	app.gate = gate.New(tokens, repo)

	if c.RateLimitPerMinute > 0 {
		rl := httpapi.DefaultRateLimiterConfig()
		rl.PerMinute = c.RateLimitPerMinute
		rl.Burst = c.RateLimitBurst
		app.limiter = httpapi.NewRateLimiter(rl, logger)
	}

	return app, nil
}

func (app *App) openStorage(ctx context.Context) (users.Repository, error) {
	if app.config.StorageDriver == config.StorageMemory {
		app.logger.Warn(ctx, "using in-memory storage, accounts are lost on restart")
		return users.NewMemoryRepository(), nil
	}

	db, m, err := repomanager.Open(ctx, app.config.StorageDriver, app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.logger.Info(ctx, "storage ready", "driver", app.config.StorageDriver)

	return m.Users(db), nil
}

// bootstrapAdmin promotes the configured admin account. A missing account is
// only logged; it can register and be promoted on the next start.
func (app *App) bootstrapAdmin(ctx context.Context) error {
	if app.config.AdminEmail == "" {
		return nil
	}

	user, err := app.userService.PromoteAdmin(ctx, app.config.AdminEmail)
	if errors.Is(err, common.ErrorNotFound) {
		app.logger.Warn(ctx, "bootstrap admin does not exist yet", "email", app.config.AdminEmail)
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	app.logger.Info(ctx, "bootstrap admin ready", "user_id", user.ID)
	return nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) httpServer() *httpapi.Server {
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Users:          app.userService,
		Gate:           app.gate,
		Logger:         app.logger,
		RateLimiter:    app.limiter,
		Metrics:        app.metrics,
		MetricsHandler: metrics.Handler(app.registry),
	})
	return httpapi.NewServer(app.config.EndpointAddrHTTP, router, app.logger)
}

func (app *App) grpcServer() *gs.GRPCServer {
	return gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.gate, gs.WithMetrics(app.metrics))
}

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives or one of
// the servers fails. It returns the first server error.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.bootstrapAdmin(ctx); err != nil {
		return err
	}

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(ctx); err != nil {
			app.logger.Error(ctx, "server failed", "server", name, "error", err)
			once.Do(func() { firstErr = fmt.Errorf("%s server: %w", name, err) })
			cancelFunc()
		}
	}

	wg.Add(2)
	go run("http", app.httpServer().Run)
	go run("grpc", app.grpcServer().Run)
	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return firstErr
}

// Close stops background work and closes the database.
func (app *App) Close() error {
	if app.limiter != nil {
		app.limiter.Stop()
	}
	if app.db != nil {
		return app.db.Close()
	}
	return nil
}
