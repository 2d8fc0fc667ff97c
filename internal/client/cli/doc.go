// Package cli provides the interactive usersvc command-line client.
//
// It wires configuration and the gRPC client into a small REPL. Typical
// flow: register or log in, inspect the directory, and, as an admin, add
// accounts or change their flags.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command set.
package cli
