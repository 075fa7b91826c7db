package store

import (
	"database/sql"
	"path"

	assets "github.com/haatos/resource-hub"
	"github.com/haatos/resource-hub/internal/settings"
	"github.com/pressly/goose/v3"
)

func RunMigrations(db *sql.DB, driver string) error {
	dialect, dir := "postgres", path.Join("migrations", "postgres")
	if driver == settings.DriverSQLite {
		dialect, dir = "sqlite3", path.Join("migrations", "sqlite")
	}

	goose.SetBaseFS(assets.MigrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.Up(db, dir)
}
