package services

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	intdb "usersadmin/internal/db"
	"usersadmin/internal/migrations"
	"usersadmin/internal/repositories"
	"usersadmin/internal/utils"
)

var dbSeq atomic.Int64

func init() {
	utils.SetLogOutput(io.Discard)
}

// newTestDB opens a private in-memory SQLite store with the schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := sql.Open(intdb.SQLiteDriver, dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Up(db, "sqlite3"))
	return db
}

// fixedClock returns a clock that advances one second per call from base.
func fixedClock(base time.Time) func() time.Time {
	var n atomic.Int64
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * time.Second)
	}
}

func newMutations(db *sql.DB) UserMutationService {
	return UserMutationService{
		Repo: repositories.UserRepository{DB: db},
		Now:  fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}
