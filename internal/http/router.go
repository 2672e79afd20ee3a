package api

import (
	"database/sql"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "usersadmin/internal/config"
	"usersadmin/internal/events"
	h "usersadmin/internal/http/handlers"
	"usersadmin/internal/http/middleware"
	"usersadmin/internal/utils"
)

// Deps are the collaborators shared by all handlers. A nil DB means the
// shared pool from config; a nil Events publishes nothing.
type Deps struct {
	DB     *sql.DB
	Events events.Publisher
}

func NewRouter(env intconfig.Env, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.L().Warn().Err(err).Str("module", "http").Msg("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":      "route not found",
			"code":       "NOT_FOUND",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	sys := h.SystemHandler{DB: deps.DB, Driver: env.DBDriver}
	users := h.UserHandler{DB: deps.DB, Events: deps.Events, DefaultPageSize: env.DefaultPageSize}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", sys.DBCheck)
		api.GET("/routes", h.Routes)

		// Users. With auth on, writes need an admin or moderator token.
		write := func(c *gin.Context) { c.Next() }
		if env.JWTSecret != "" {
			write = middleware.RequireRoles("admin", "moderator")
		}
		g := api.Group("/users", middleware.Auth(env.JWTSecret))
		g.GET("", users.List)
		g.POST("/query", users.Query)
		g.GET("/report.pdf", users.Report)
		g.GET("/:id", users.Get)
		g.POST("", write, users.Create)
		g.PUT("/:id", write, users.Update)
		g.PATCH("/:id", write, users.Update)
		g.DELETE("/:id", write, users.Delete)
	}

	h.SetRouter(r)
	return r
}
