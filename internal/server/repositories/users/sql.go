package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/dbx"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
)

// queries holds the dialect-specific statements of a SQL-backed store.
// Every SELECT returns the columns in userColumns order.
type queries struct {
	insert       string
	byID         string
	byEmail      string
	byUsername   string
	list         string
	updateStatus string
}

const userColumns = `id, username, email, password_hash, active, admin, registered_at`

// sqlRepository implements Repository over database/sql. The dialects differ
// only in placeholders and in how a unique violation is reported.
type sqlRepository struct {
	db              dbx.DBTX
	q               queries
	uniqueViolation func(error) bool
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Active, &u.Admin, &u.RegisteredAt)
	if err != nil {
		return nil, err
	}
	u.RegisteredAt = u.RegisteredAt.UTC()
	return u, nil
}

func (r *sqlRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	u := prepareNew(user)

	_, err := r.db.ExecContext(ctx, r.q.insert,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Active, u.Admin, u.RegisteredAt)
	if err != nil {
		if r.uniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

func (r *sqlRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *sqlRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, r.q.byID, id)
}

func (r *sqlRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, r.q.byEmail, email)
}

func (r *sqlRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, r.q.byUsername, username)
}

func (r *sqlRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, r.q.list)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// UpdateStatus applies upd and returns the stored record. The update and the
// read-back share one transaction.
func (r *sqlRepository) UpdateStatus(ctx context.Context, id string, upd models.StatusUpdate) (*models.User, error) {
	var updated *models.User

	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, r.q.updateStatus, upd.Active, upd.Admin, id)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if n == 0 {
			return common.ErrorNotFound
		}

		u, err := scanUser(tx.QueryRowContext(ctx, r.q.byID, id))
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
