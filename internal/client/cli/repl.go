package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Users(ctx context.Context) error
	User(ctx context.Context, args []string) error
	AddUser(ctx context.Context) error
	SetStatus(ctx context.Context, cmd string, args []string) error
}

// runREPL starts a simple read–eval–print loop for the usersvc CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Command errors are printed and the loop goes
// on. The loop exits on EOF, on ctx cancellation, or when the user types
// "exit" or "quit".
//
// Commands
//
//	help                                      show available commands
//	register | login | logout                 session commands
//	status                                    show the current account
//	users                                     list accounts
//	user <id>                                 show one account
//	adduser                                   create an account (admin)
//	activate | deactivate <id>                toggle the active flag (admin)
//	promote | demote <id>                     toggle the admin flag (admin)
//	exit | quit                               leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for ctx.Err() == nil {
		fmt.Fprintf(w, "usersvc %s> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: status, users, user <id>, adduser, activate|deactivate|promote|demote <id>, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, users, user <id>, exit")
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "status":
			err = a.Status(ctx)
		case "users":
			err = a.Users(ctx)
		case "user":
			err = a.User(ctx, args)
		case "adduser":
			err = a.AddUser(ctx)
		case "activate", "deactivate", "promote", "demote":
			err = a.SetStatus(ctx, cmd, args)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		switch {
		case err == nil:
		case errors.Is(err, errUsage):
			fmt.Fprintln(w, "Usage:", strings.TrimPrefix(err.Error(), errUsage.Error()+": "))
		default:
			fmt.Fprintln(w, "Error:", err)
		}
	}
}
