// Package gate protects authenticated and admin-only operations. Both the
// HTTP middleware and the gRPC interceptor delegate to Gate so the two
// transports accept and reject exactly the same callers.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
)

// TokenVerifier resolves a raw token to its subject id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder loads an account by id.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Gate resolves bearer tokens to active accounts.
type Gate struct {
	tokens TokenVerifier
	users  UserFinder
}

func New(tokens TokenVerifier, users UserFinder) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate returns the active account behind rawToken. Every rejection
// wraps common.ErrorUnauthorized; storage failures are returned as they are.
func (g *Gate) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	if rawToken == "" {
		return nil, common.ErrMissingToken
	}

	subject, err := g.tokens.Verify(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownSubject
		}
		return nil, fmt.Errorf("load token subject: %w", err)
	}

	if !user.Active {
		return nil, common.ErrAccountInactive
	}

	return user, nil
}

// RequireAdmin reports whether an authenticated user may call admin-only
// operations.
func (g *Gate) RequireAdmin(user *models.User) error {
	if user == nil || !user.Admin {
		return common.ErrInsufficientPrivilege
	}
	return nil
}

// BearerToken extracts the token from an Authorization header value. Any
// other shape counts as no token at all.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFromContext returns the user stored by WithUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*models.User)
	return user, ok && user != nil
}

// Reason names the gate stage that rejected a request, for metrics and logs.
func Reason(err error) string {
	switch {
	case errors.Is(err, common.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, common.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, common.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	case errors.Is(err, common.ErrUnknownSubject):
		return "unknown_subject"
	case errors.Is(err, common.ErrAccountInactive):
		return "inactive"
	case errors.Is(err, common.ErrInsufficientPrivilege):
		return "forbidden"
	}
	return "error"
}
