// Package repotest opens migrated in-memory SQLite databases for tests.
package repotest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// NewSQLite returns a fresh, fully migrated in-memory database that is
// closed when the test ends. A single connection keeps every query on the
// same in-memory database.
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open(migrations.DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(context.Background(), db, migrations.DriverSQLite))

	return db
}
