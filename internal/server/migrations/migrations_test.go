package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestUp_SQLiteSeedsRoles(t *testing.T) {
	db, err := sql.Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	require.NoError(t, Up(context.Background(), db, DriverSQLite))
	// second run is a no-op
	require.NoError(t, Up(context.Background(), db, DriverSQLite))

	rows, err := db.Query(`SELECT name FROM roles ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Admin", "Editor", "Viewer"}, names)
}

func TestUp_UnsupportedDriver(t *testing.T) {
	err := Up(context.Background(), nil, "mysql")
	assert.EqualError(t, err, `migrations: unsupported driver "mysql"`)
}

func TestEmbeddedDialectsMatch(t *testing.T) {
	pg, err := Postgres.ReadDir("postgres")
	require.NoError(t, err)
	lite, err := SQLite.ReadDir("sqlite")
	require.NoError(t, err)

	require.Equal(t, len(pg), len(lite))
	for i := range pg {
		assert.Equal(t, pg[i].Name(), lite[i].Name())
	}
}
