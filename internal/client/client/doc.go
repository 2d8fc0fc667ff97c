// Package client talks to the usersvc gRPC API on behalf of the CLI.
//
// GRPCClient keeps the token of the current session in memory and attaches
// it as "authorization: Bearer <token>" metadata to every call. gRPC status
// codes are mapped to the sentinel errors in errors.go so callers can match
// them with errors.Is; the server's message is kept in the error text.
package client
