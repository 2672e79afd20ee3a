package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	intconfig "usersadmin/internal/config"
	intdb "usersadmin/internal/db"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

// SystemHandler serves liveness and store checks.
type SystemHandler struct {
	DB     *sql.DB
	Driver string
}

func (h SystemHandler) db() *sql.DB {
	if h.DB != nil {
		return h.DB
	}
	return intconfig.DB
}

func (h SystemHandler) ping(ctx context.Context, db *sql.DB) error {
	if h.DB == nil {
		return intconfig.EnsureDB(ctx)
	}
	return db.PingContext(ctx)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "users admin running"})
}

// DBCheck pings the store and reports the users count.
func (h SystemHandler) DBCheck(c *gin.Context) {
	db := h.db()
	if db == nil {
		respondError(c, http.StatusServiceUnavailable, codeStore, "", "database not connected")
		return
	}
	ctx := c.Request.Context()
	if err := h.ping(ctx, db); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "database unreachable", err)
		return
	}
	if !intdb.HasTable(ctx, db, h.Driver, "users") {
		respondError(c, http.StatusServiceUnavailable, codeStore, "", "users table missing, run migrations")
		return
	}
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		RespondError(c, http.StatusInternalServerError, "count query failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database OK", "driver": h.Driver, "users_in_db": count})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, codeInternal, "", "router not ready")
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
