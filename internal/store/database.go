package store

import (
	"database/sql"
	"log"
	"runtime"

	"github.com/haatos/resource-hub/internal/settings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// InitDatabase opens the configured database. For sqlite a read only pool and
// a single connection writer are kept apart; postgres handles concurrent
// writers itself, so both pools share the same settings.
func InitDatabase(s *settings.AppSettings, readonly bool) *sql.DB {
	switch s.DBDriver {
	case settings.DriverSQLite:
		return initSQLite(s, readonly)
	default:
		return initPostgres(s)
	}
}

func initPostgres(s *settings.AppSettings) *sql.DB {
	db, err := sql.Open("pgx", s.PostgresDSN())
	if err != nil {
		log.Fatal("fatal error opening postgres database:", err)
	}
	db.SetMaxOpenConns(max(4, runtime.NumCPU()*2))
	db.SetMaxIdleConns(max(2, runtime.NumCPU()))
	if err := db.Ping(); err != nil {
		log.Fatal("fatal error connecting to postgres database:", err)
	}
	return db
}

func initSQLite(s *settings.AppSettings, readonly bool) *sql.DB {
	db, err := sql.Open("sqlite", s.SQLiteDbString())
	if err != nil {
		log.Fatal("fatal error opening sqlite database:", err)
	}

	if readonly {
		db.SetMaxOpenConns(max(4, runtime.NumCPU()))
	} else {
		if _, err := db.Exec("PRAGMA temp_store=memory"); err != nil {
			log.Fatal(err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			log.Fatal(err)
		}
		db.SetMaxOpenConns(1)
	}

	return db
}
