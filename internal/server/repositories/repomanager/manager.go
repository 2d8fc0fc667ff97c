package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/usersvc/internal/dbx"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/users"
)

// RepositoryManager vends repositories for one SQL dialect and knows how to
// bring its schema up to date.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// Storage drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects to the database for driver, runs migrations and returns the
// pool together with its manager. The caller owns the returned *sql.DB.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	var (
		m          RepositoryManager
		driverName string
	)

	switch driver {
	case DriverPostgres:
		m, driverName = NewPostgresRepositoryManager(), "pgx"
	case DriverSQLite:
		m, driverName = NewSQLiteRepositoryManager(), "sqlite"
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db migrations error: %w", err)
	}

	return db, m, nil
}
