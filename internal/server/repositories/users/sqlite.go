package users

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/usersvc/internal/dbx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var sqliteQueries = queries{
	insert: `INSERT INTO users (` + userColumns + `)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	byID:       `SELECT ` + userColumns + ` FROM users WHERE id = ?`,
	byEmail:    `SELECT ` + userColumns + ` FROM users WHERE email = ?`,
	byUsername: `SELECT ` + userColumns + ` FROM users WHERE username = ?`,
	list:       `SELECT ` + userColumns + ` FROM users ORDER BY registered_at, id`,
	updateStatus: `UPDATE users
		 SET active = COALESCE(?, active), admin = COALESCE(?, admin)
		 WHERE id = ?`,
}

// SQLiteRepository is the single-node user directory backed by the pure-Go
// modernc SQLite driver.
type SQLiteRepository struct {
	sqlRepository
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{sqlRepository{db: db, q: sqliteQueries, uniqueViolation: isSQLiteUniqueViolation}}
}

func isSQLiteUniqueViolation(err error) bool {
	var sErr *sqlite.Error
	if !errors.As(err, &sErr) {
		return false
	}
	switch sErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sErr.Error(), "UNIQUE")
	}
	return false
}
