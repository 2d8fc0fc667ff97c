// Package common defines shared constants and sentinel errors used across
// server and client layers of usersvc. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration and login errors.
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token errors. All of them are authentication failures.
	ErrMissingToken          = fmt.Errorf("%w: missing token", ErrorUnauthorized)
	ErrTokenMalformed        = fmt.Errorf("%w: malformed token", ErrorUnauthorized)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: token signature is invalid", ErrorUnauthorized)
	ErrTokenExpired          = fmt.Errorf("%w: token expired", ErrorUnauthorized)

	// Account errors raised by the authorization gate.
	ErrUnknownSubject  = fmt.Errorf("%w: token subject does not exist", ErrorUnauthorized)
	ErrAccountInactive = fmt.Errorf("%w: account is inactive", ErrorUnauthorized)

	// ErrInsufficientPrivilege is returned when an authenticated user calls
	// an admin-only operation. It does not wrap ErrorUnauthorized.
	ErrInsufficientPrivilege = errors.New("insufficient privilege")
)
