package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql wrapped", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), true},
		{"mysql other", &mysql.MySQLError{Number: 1045}, false},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true},
		{"sqlite not null", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, false},
	}
	for _, tc := range cases {
		if got := IsDuplicateKey(tc.err); got != tc.want {
			t.Fatalf("%s: IsDuplicateKey=%v want %v", tc.name, got, tc.want)
		}
	}
}
