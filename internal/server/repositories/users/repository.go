// Package users contains the user directory: the Repository contract and its
// PostgreSQL, SQLite and in-memory implementations.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/google/uuid"
)

// Repository persists user accounts. Lookups of absent records return
// common.ErrorNotFound; Create returns common.ErrorAlreadyExists when the
// username or email is taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateStatus(ctx context.Context, id string, upd models.StatusUpdate) (*models.User, error)
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// prepareNew returns a copy of user with the identity fields every store
// assigns at creation. Timestamps keep microsecond precision so they survive
// a round trip through PostgreSQL unchanged.
func prepareNew(user *models.User) *models.User {
	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = now()
	}
	u.RegisteredAt = u.RegisteredAt.UTC().Truncate(time.Microsecond)
	return &u
}
