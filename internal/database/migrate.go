package database

import (
	"database/sql"
	"embed"
	"fmt"
	"path"

	"github.com/pressly/goose/v3"

	"github.com/iliyamo/artist-booking/internal/config"
)

// Schema migrations are kept per dialect because the auto-increment and
// timestamp column syntax differs between MySQL and SQLite.
//
//go:embed migrations/*/*.sql
var migrations embed.FS

// Migrate applies every pending migration for the given driver.
func Migrate(db *sql.DB, driver string) error {
	dialect, dir := "", ""
	switch driver {
	case config.DriverMySQL:
		dialect, dir = "mysql", "mysql"
	case config.DriverSQLite:
		dialect, dir = "sqlite3", "sqlite3"
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db, path.Join("migrations", dir)); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
