// Package migrations embeds the goose migrations for every supported dialect
// and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Postgres holds the migrations under postgres/.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the migrations under sqlite/.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Driver names as registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Up applies all pending migrations for driver to db.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	var (
		dialect goose.Dialect
		fsys    fs.FS
		err     error
	)

	switch driver {
	case DriverPostgres:
		dialect = goose.DialectPostgres
		fsys, err = fs.Sub(Postgres, "postgres")
	case DriverSQLite:
		dialect = goose.DialectSQLite3
		fsys, err = fs.Sub(SQLite, "sqlite")
	default:
		return fmt.Errorf("migrations: unsupported driver %q", driver)
	}
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}
