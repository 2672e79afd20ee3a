// Package migrations applies the embedded schema to a MySQL or SQLite store.
// Each dialect has its own directory under sql/ with matching versions.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	intdb "usersadmin/internal/db"
	"usersadmin/internal/utils"
)

//go:embed sql/mysql/*.sql sql/sqlite3/*.sql
var files embed.FS

// New builds a migrator bound to db. driverName is "mysql" or "sqlite3".
func New(db *sql.DB, driverName string) (*migrate.Migrate, error) {
	var drv database.Driver
	var err error
	switch driverName {
	case "mysql":
		drv, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	case "sqlite3":
		drv, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	default:
		return nil, fmt.Errorf("migrations: unsupported driver %q", driverName)
	}
	if err != nil {
		return nil, fmt.Errorf("migrations driver: %w", err)
	}

	src, err := iofs.New(files, "sql/"+driverName)
	if err != nil {
		return nil, fmt.Errorf("migrations source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, drv)
	if err != nil {
		return nil, fmt.Errorf("migrations init: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

// Up applies every pending migration. No pending migration is not an error.
func Up(db *sql.DB, driverName string) error {
	m, err := New(db, driverName)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations up: %w", err)
	}
	return nil
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	utils.L().Debug().Str("module", "migrate").Msgf(format, v...)
}

func (migrateLogger) Verbose() bool { return false }

// Open builds a migrator on its own connection pool so the caller's pool is
// left untouched. Closing the returned Migrate releases that pool.
func Open(driverName, dsn string) (*migrate.Migrate, error) {
	db, err := sql.Open(intdb.DriverName(driverName), dsn)
	if err != nil {
		return nil, fmt.Errorf("migrations open: %w", err)
	}
	m, err := New(db, driverName)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

// UpDSN is Up on a dedicated connection.
func UpDSN(driverName, dsn string) error {
	m, err := Open(driverName, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations up: %w", err)
	}
	return nil
}
