package db

import (
	"context"
	"database/sql"
)

// QueryRower is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// HasTable reports whether table exists in the active schema of the given
// driver ("mysql" or "sqlite3"). Lookup errors read as false.
func HasTable(ctx context.Context, q QueryRower, driverName, table string) bool {
	var query string
	switch driverName {
	case "sqlite3":
		query = `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ? LIMIT 1`
	default:
		query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1`
	}

	var name sql.NullString
	if err := q.QueryRowContext(ctx, query, table).Scan(&name); err != nil {
		return false
	}
	return name.Valid && name.String != ""
}
