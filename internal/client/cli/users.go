package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/rpcapi"
)

var errUsage = errors.New("usage")

func printUsers(w io.Writer, users ...*rpcapi.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tACTIVE\tADMIN\tREGISTERED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%t\t%s\n",
			u.ID, u.Username, u.Email, u.Active, u.Admin, u.RegisteredAt.Local().Format(time.DateTime))
	}
	_ = tw.Flush()
}

// Status shows the account of the current session.
func (a *App) Status(ctx context.Context) error {
	u, err := a.api.Status(ctx)
	if err != nil {
		return err
	}
	printUsers(a.out, u)
	return nil
}

func (a *App) Users(ctx context.Context) error {
	list, err := a.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No users yet.")
		return nil
	}
	printUsers(a.out, list...)
	return nil
}

func (a *App) User(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: user <id>", errUsage)
	}
	u, err := a.api.GetUser(ctx, args[0])
	if err != nil {
		return err
	}
	printUsers(a.out, u)
	return nil
}

// AddUser creates an account on the admin's behalf.
func (a *App) AddUser(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.api.AddUser(ctx, username, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// statusCommands maps the flag commands to the update they send.
var statusCommands = map[string]struct{ active, admin *bool }{
	"activate":   {active: ptr(true)},
	"deactivate": {active: ptr(false)},
	"promote":    {admin: ptr(true)},
	"demote":     {admin: ptr(false)},
}

func ptr(b bool) *bool { return &b }

// SetStatus runs one of activate, deactivate, promote or demote on <id>.
func (a *App) SetStatus(ctx context.Context, cmd string, args []string) error {
	upd, ok := statusCommands[cmd]
	if !ok {
		return fmt.Errorf("unknown status command %q", cmd)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: %s <id>", errUsage, cmd)
	}

	u, err := a.api.UpdateUser(ctx, args[0], upd.active, upd.admin)
	if err != nil {
		return err
	}
	printUsers(a.out, u)
	return nil
}
