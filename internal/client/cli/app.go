package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/usersvc/internal/client/client"
	"github.com/dmitrijs2005/usersvc/internal/client/config"
	"github.com/dmitrijs2005/usersvc/internal/rpcapi"
)

// apiClient is the part of client.GRPCClient the CLI uses.
type apiClient interface {
	LoggedIn() bool
	Logout() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, username, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Status(ctx context.Context) (*rpcapi.User, error)
	ListUsers(ctx context.Context) ([]*rpcapi.User, error)
	GetUser(ctx context.Context, id string) (*rpcapi.User, error)
	AddUser(ctx context.Context, username, email string, password []byte) (string, error)
	UpdateUser(ctx context.Context, id string, active, admin *bool) (*rpcapi.User, error)
	Close() error
}

type App struct {
	config *config.Config
	api    apiClient
	reader *bufio.Reader
	out    io.Writer
	email  string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{config: c, api: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.email)
}

// Run checks the server is reachable and then runs the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.api.Close()

	fmt.Fprintln(a.out, "Welcome to usersvc CLI (type 'help' for commands)")
	if err := a.api.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s at %s\n", err, a.config.ServerEndpointAddr)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
