// Package repomanager vends dialect-specific repositories and opens the
// database they run against.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/roles"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Roles(db dbx.DBTX) roles.Repository
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// New returns the RepositoryManager for driver.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case migrations.DriverPostgres:
		return NewPostgresRepositoryManager(), nil
	case migrations.DriverSQLite:
		return NewSQLiteRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("repomanager: unsupported driver %q", driver)
	}
}

// Open opens dsn with driver and verifies the connection. SQLite databases
// get foreign keys enabled, and in-memory ones are pinned to a single
// connection so every query sees the same data.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if _, err := New(driver); err != nil {
		return nil, err
	}

	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == migrations.DriverSQLite {
		if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
			db.SetMaxOpenConns(1)
		}
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
