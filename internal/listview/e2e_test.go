package listview

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http/httptest"
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

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetLogOutput(io.Discard)
}

func newAPI(t *testing.T, seed int) *client.HTTPClient {
	t.Helper()
	db, err := sql.Open(intdb.SQLiteDriver, fmt.Sprintf("file:listview_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Up(db, "sqlite3"))

	env := intconfig.Defaults()
	env.DBDriver = "sqlite3"
	srv := httptest.NewServer(api.NewRouter(env, api.Deps{DB: db}))
	t.Cleanup(srv.Close)

	c := client.NewHTTPClient(srv.URL, "")
	for i := 0; i < seed; i++ {
		_, err := c.CreateUser(context.Background(), client.CreateUserRequest{
			Name:  fmt.Sprintf("Seed %02d", i),
			Email: fmt.Sprintf("seed%02d@example.com", i),
		})
		require.NoError(t, err)
	}
	return c
}

func TestEndToEndPaging(t *testing.T) {
	c := newAPI(t, 25)
	v := NewView(NewQueryState(20), c)
	ctx := context.Background()

	res := v.Reload(ctx)
	require.NoError(t, res.Err)
	assert.Len(t, res.Response.Items, 20)
	assert.Equal(t, 25, res.Response.TotalCount)
	assert.Equal(t, 2, res.Response.TotalPages)

	v.SetPage(2)
	res = v.Reload(ctx)
	require.NoError(t, res.Err)
	assert.Len(t, res.Response.Items, 5)
}

func TestEndToEndCaseInsensitiveFilter(t *testing.T) {
	c := newAPI(t, 3)
	v := NewView(NewQueryState(10), c)
	ctx := context.Background()

	model, err := ParseFilterModel([]byte(`{"email":{"filterType":"text","filter":"SEED01"}}`))
	require.NoError(t, err)
	v.SetFilter(model)
	res := v.Reload(ctx)
	require.NoError(t, res.Err)
	require.Len(t, res.Response.Items, 1)
	assert.Equal(t, "seed01@example.com", res.Response.Items[0].Email)
}

func TestEndToEndCreateFromPageThree(t *testing.T) {
	c := newAPI(t, 12)
	coord := &Coordinator{View: NewView(NewQueryState(5), c), Mut: c}
	ctx := context.Background()

	coord.View.SetPage(3)
	require.NoError(t, coord.View.Reload(ctx).Err)

	u, err := coord.Create(ctx, client.CreateUserRequest{Name: "Brand New", Email: "new@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 1, coord.View.Page())
	cur, ok := coord.View.Current()
	require.True(t, ok)
	ids := []string{}
	for _, it := range cur.Response.Items {
		ids = append(ids, it.ID)
	}
	assert.Contains(t, ids, u.ID)
	assert.Equal(t, 13, cur.Response.TotalCount)
}

func TestEndToEndDeleteStepsBack(t *testing.T) {
	c := newAPI(t, 11)
	coord := &Coordinator{View: NewView(NewQueryState(5), c), Mut: c}
	ctx := context.Background()

	coord.View.SetPage(3)
	res := coord.View.Reload(ctx)
	require.NoError(t, res.Err)
	require.Len(t, res.Response.Items, 1)

	_, err := coord.Delete(ctx, res.Response.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, coord.View.Page())
	cur, _ := coord.View.Current()
	assert.Equal(t, 2, cur.Vars.Page)
	assert.Len(t, cur.Response.Items, 5)
}

func TestEndToEndDuplicateEmailIsFieldError(t *testing.T) {
	c := newAPI(t, 1)
	n := &recordingNotifier{}
	coord := &Coordinator{View: NewView(NewQueryState(5), c), Mut: c, Notifier: n}

	_, err := coord.Create(context.Background(), client.CreateUserRequest{Name: "Again", Email: "SEED00@example.com"})
	require.Error(t, err)
	assert.Contains(t, n.fields, "email")
}
