package db

import (
	"database/sql"
	"testing"
)

func TestSQLiteLowerFoldsUnicode(t *testing.T) {
	db, err := sql.Open(SQLiteDriver, "file:lower_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var got string
	if err := db.QueryRow(`SELECT LOWER(?)`, "ÉLODIE Ünal").Scan(&got); err != nil {
		t.Fatalf("lower: %v", err)
	}
	if got != "élodie ünal" {
		t.Fatalf("LOWER=%q want %q", got, "élodie ünal")
	}

	var match int
	if err := db.QueryRow(`SELECT LOWER(?) LIKE ? ESCAPE '!'`, "Élodie Durand", "%élodie%").Scan(&match); err != nil {
		t.Fatalf("like: %v", err)
	}
	if match != 1 {
		t.Fatalf("LIKE=%d want 1", match)
	}
}

func TestDriverName(t *testing.T) {
	if got := DriverName("sqlite3"); got != SQLiteDriver {
		t.Fatalf("DriverName(sqlite3)=%q", got)
	}
	if got := DriverName("mysql"); got != "mysql" {
		t.Fatalf("DriverName(mysql)=%q", got)
	}
}
