package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets a request through only when the principal set by Auth
// has one of allowedRoles. It must run after Auth.
//
//	g.DELETE("/:id", RequireRoles("admin"), handler)
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		p, ok := Principal(c)
		if !ok || p.Role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "no role on request",
				"code":       "UNAUTHENTICATED",
				"request_id": GetRequestID(c),
			})
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(p.Role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "role " + p.Role + " may not do this",
				"code":       "FORBIDDEN",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
