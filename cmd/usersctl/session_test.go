package main

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usersadmin/internal/client"
	intconfig "usersadmin/internal/config"
	intdb "usersadmin/internal/db"
	api "usersadmin/internal/http"
	"usersadmin/internal/migrations"
	"usersadmin/internal/utils"
)

func newTestClient(t *testing.T) *client.HTTPClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetLogOutput(io.Discard)

	db, err := sql.Open(intdb.SQLiteDriver, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Up(db, "sqlite3"))

	env := intconfig.Defaults()
	env.DBDriver = "sqlite3"
	srv := httptest.NewServer(api.NewRouter(env, api.Deps{DB: db}))
	t.Cleanup(srv.Close)
	return client.NewHTTPClient(srv.URL, "")
}

func TestSessionScript(t *testing.T) {
	outputFormat = "json"
	c := newTestClient(t)
	var out, errOut bytes.Buffer
	s := newSession(c, 2, &out, &errOut)

	script := strings.Join([]string{
		"add Ann ann@example.com admin",
		"add Bob bob@example.com",
		"add Cid cid@example.com",
		"add Dup ANN@example.com",
		"g 2",
		"filter name an",
		"sort name asc",
		"bogus",
		"q",
	}, "\n")
	require.NoError(t, s.run(context.Background(), strings.NewReader(script), false))

	assert.Contains(t, errOut.String(), "error: email:")
	assert.Contains(t, out.String(), `unknown command "bogus"`)
	assert.Equal(t, 1, s.coord.View.Page())

	vars := s.coord.View.Variables()
	require.NotNil(t, vars.Sort)
	assert.Equal(t, "name", vars.Sort.Field)
	assert.Equal(t, "an", vars.Filter["name"])
}

func TestParseFilterFlags(t *testing.T) {
	f, err := parseFilterFlags([]string{"role=admin", "name=Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, "admin", f["role"])
	assert.Equal(t, "Jane Doe", f["name"])

	_, err = parseFilterFlags([]string{"role"})
	assert.Error(t, err)

	f, err = parseFilterFlags(nil)
	require.NoError(t, err)
	assert.Nil(t, f)
}
