// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/artist-booking/internal/config"
	"github.com/iliyamo/artist-booking/internal/database"
)

// Open returns a migrated in-memory SQLite database that is closed when
// the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := database.Open(config.DBConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, config.DriverSQLite))
	return db
}
