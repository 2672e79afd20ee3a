package db

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"

	"usersadmin/internal/utils"
)

// SQLiteDriver is the database/sql name of SQLite with a Unicode-aware
// lower(). The built-in one only folds ASCII.
const SQLiteDriver = "sqlite3_unicode"

func init() {
	sql.Register(SQLiteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", utils.FoldCase, true)
		},
	})
}

// DriverName maps a dialect ("mysql" or "sqlite3") to the driver to open.
func DriverName(dialect string) string {
	if dialect == "sqlite3" {
		return SQLiteDriver
	}
	return dialect
}
