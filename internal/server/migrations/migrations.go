// Package migrations embeds the schema for every supported storage driver and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Dialect selects the migration directory and the goose dialect.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func (d Dialect) gooseDialect() (string, error) {
	switch d {
	case Postgres:
		return "pgx", nil
	case SQLite:
		return "sqlite3", nil
	}
	return "", fmt.Errorf("unknown migration dialect %q", string(d))
}

// goose keeps its base FS and dialect in package globals.
var mu sync.Mutex

// Up applies all pending migrations for dialect. It is idempotent.
func Up(ctx context.Context, db *sql.DB, dialect Dialect) error {
	gd, err := dialect.gooseDialect()
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(Migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(gd); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, string(dialect)); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}
	return nil
}
