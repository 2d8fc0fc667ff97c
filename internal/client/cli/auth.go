package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/usersvc/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and creates the
// account. On success the new session is active.
func (a *App) Register(ctx context.Context) error {
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

	if err := a.api.Register(ctx, username, email, password); err != nil {
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, common.MsgRegistered)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, email, password); err != nil {
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, common.MsgLoggedIn)
	return nil
}

// Logout drops the local session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(); err != nil {
		return err
	}
	a.email = ""
	fmt.Fprintln(a.out, common.MsgLoggedOut)
	return nil
}
