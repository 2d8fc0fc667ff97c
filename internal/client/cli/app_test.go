package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/client/client"
	"github.com/dmitrijs2005/usersvc/internal/client/config"
	"github.com/dmitrijs2005/usersvc/internal/rpcapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type updateCall struct {
	id            string
	active, admin *bool
}

type fakeAPI struct {
	loggedIn bool
	pingErr  error
	err      error

	registered []string
	loginEmail string
	loginPass  string
	updates    []updateCall
	closed     bool

	user *rpcapi.User
}

func (f *fakeAPI) LoggedIn() bool { return f.loggedIn }
func (f *fakeAPI) Logout() error {
	if !f.loggedIn {
		return client.ErrNotLoggedIn
	}
	f.loggedIn = false
	return nil
}
func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }
func (f *fakeAPI) Register(_ context.Context, username, email string, password []byte) error {
	if f.err != nil {
		return f.err
	}
	f.registered = append(f.registered, username, email, string(password))
	f.loggedIn = true
	return nil
}
func (f *fakeAPI) Login(_ context.Context, email string, password []byte) error {
	f.loginEmail, f.loginPass = email, string(password)
	if f.err != nil {
		return f.err
	}
	f.loggedIn = true
	return nil
}
func (f *fakeAPI) Status(context.Context) (*rpcapi.User, error) { return f.user, f.err }
func (f *fakeAPI) ListUsers(context.Context) ([]*rpcapi.User, error) {
	if f.user == nil {
		return nil, f.err
	}
	return []*rpcapi.User{f.user}, f.err
}
func (f *fakeAPI) GetUser(_ context.Context, id string) (*rpcapi.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &rpcapi.User{ID: id, Username: "dwight"}, nil
}
func (f *fakeAPI) AddUser(_ context.Context, username, email string, password []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return email + " was added!", nil
}
func (f *fakeAPI) UpdateUser(_ context.Context, id string, active, admin *bool) (*rpcapi.User, error) {
	f.updates = append(f.updates, updateCall{id: id, active: active, admin: admin})
	return &rpcapi.User{ID: id}, f.err
}
func (f *fakeAPI) Close() error { f.closed = true; return nil }

// stubInputs feeds the text prompts from texts in order and answers the
// password prompt with password.
func stubInputs(t *testing.T, password string, texts ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(_ *bufio.Reader, _ io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func newTestApp(api *fakeAPI, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		config: &config.Config{ServerEndpointAddr: "test:1"},
		api:    api,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    &out,
	}, &out
}

func TestApp_RegisterLoginLogout(t *testing.T) {
	api := &fakeAPI{}
	a, out := newTestApp(api, "")
	ctx := context.Background()

	stubInputs(t, "herman", "michael", "michael@mherman.org")
	require.NoError(t, a.Register(ctx))
	assert.Equal(t, []string{"michael", "michael@mherman.org", "herman"}, api.registered)
	assert.Equal(t, "(michael@mherman.org) ", a.getStatus())
	assert.Contains(t, out.String(), "Successfully registered.")

	require.NoError(t, a.Logout(ctx))
	assert.Equal(t, "", a.getStatus())
	assert.ErrorIs(t, a.Logout(ctx), client.ErrNotLoggedIn)

	stubInputs(t, "herman", "michael@mherman.org")
	require.NoError(t, a.Login(ctx))
	assert.Equal(t, "michael@mherman.org", api.loginEmail)
	assert.Equal(t, "herman", api.loginPass)
	assert.Contains(t, out.String(), "Successfully logged in.")
}

func TestApp_LoginFailure(t *testing.T) {
	api := &fakeAPI{err: client.ErrUnauthorized}
	a, _ := newTestApp(api, "")

	stubInputs(t, "bad", "michael@mherman.org")
	require.ErrorIs(t, a.Login(context.Background()), client.ErrUnauthorized)
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "", a.email)
}

func TestApp_UserCommands(t *testing.T) {
	api := &fakeAPI{loggedIn: true, user: &rpcapi.User{
		ID: "u-1", Username: "michael", Email: "michael@mherman.org", Active: true,
		RegisteredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	a, out := newTestApp(api, "")
	ctx := context.Background()

	require.NoError(t, a.Status(ctx))
	assert.Contains(t, out.String(), "USERNAME")
	assert.Contains(t, out.String(), "michael@mherman.org")

	out.Reset()
	require.NoError(t, a.Users(ctx))
	assert.Contains(t, out.String(), "u-1")

	out.Reset()
	require.NoError(t, a.User(ctx, []string{"u-2"}))
	assert.Contains(t, out.String(), "dwight")

	assert.ErrorIs(t, a.User(ctx, nil), errUsage)
}

func TestApp_UsersEmpty(t *testing.T) {
	a, out := newTestApp(&fakeAPI{}, "")
	require.NoError(t, a.Users(context.Background()))
	assert.Contains(t, out.String(), "No users yet.")
}

func TestApp_AddUser(t *testing.T) {
	a, out := newTestApp(&fakeAPI{loggedIn: true}, "")

	stubInputs(t, "pw", "dwight", "dwight@example.com")
	require.NoError(t, a.AddUser(context.Background()))
	assert.Contains(t, out.String(), "dwight@example.com was added!")
}

func TestApp_SetStatus(t *testing.T) {
	api := &fakeAPI{loggedIn: true}
	a, _ := newTestApp(api, "")
	ctx := context.Background()

	require.NoError(t, a.SetStatus(ctx, "promote", []string{"u-1"}))
	require.NoError(t, a.SetStatus(ctx, "deactivate", []string{"u-1"}))
	assert.ErrorIs(t, a.SetStatus(ctx, "demote", nil), errUsage)
	assert.Error(t, a.SetStatus(ctx, "explode", []string{"u-1"}))

	require.Len(t, api.updates, 2)
	assert.Nil(t, api.updates[0].active)
	require.NotNil(t, api.updates[0].admin)
	assert.True(t, *api.updates[0].admin)
	require.NotNil(t, api.updates[1].active)
	assert.False(t, *api.updates[1].active)
	assert.Nil(t, api.updates[1].admin)
}

func TestApp_RunWarnsWhenServerUnavailable(t *testing.T) {
	api := &fakeAPI{pingErr: client.ErrUnavailable}
	a, out := newTestApp(api, "exit\n")

	a.Run(context.Background())

	assert.Contains(t, out.String(), "Warning: server unavailable at test:1")
	assert.Contains(t, out.String(), "Bye!")
	assert.True(t, api.closed)
}

func TestApp_RunPrintsCommandErrors(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	a, out := newTestApp(api, "user 1\n")

	a.Run(context.Background())

	assert.Contains(t, out.String(), "Error: boom")
}
