package users

import (
	"errors"

	"github.com/dmitrijs2005/usersvc/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

var postgresQueries = queries{
	insert: `INSERT INTO users (` + userColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	byID:       `SELECT ` + userColumns + ` FROM users WHERE id = $1`,
	byEmail:    `SELECT ` + userColumns + ` FROM users WHERE email = $1`,
	byUsername: `SELECT ` + userColumns + ` FROM users WHERE username = $1`,
	list:       `SELECT ` + userColumns + ` FROM users ORDER BY registered_at, id`,
	updateStatus: `UPDATE users
		 SET active = COALESCE($1, active), admin = COALESCE($2, admin)
		 WHERE id = $3`,
}

// PostgresRepository is the PostgreSQL user directory, used through the
// pgx database/sql driver.
type PostgresRepository struct {
	sqlRepository
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{sqlRepository{db: db, q: postgresQueries, uniqueViolation: isPgUniqueViolation}}
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
