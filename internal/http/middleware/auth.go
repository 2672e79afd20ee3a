package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"usersadmin/internal/domain"
)

const principalKey = "principal"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth requires an HS256 bearer token signed with secret. An empty secret
// disables the check.
func Auth(secret string) gin.HandlerFunc {
	if strings.TrimSpace(secret) == "" {
		return func(c *gin.Context) { c.Next() }
	}
	key := []byte(secret)

	return func(c *gin.Context) {
		rc, err := parseBearer(c.GetHeader("Authorization"), key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      err.Error(),
				"code":       "UNAUTHENTICATED",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set(principalKey, rc)
		c.Next()
	}
}

// Principal returns the authenticated caller, if any.
func Principal(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

func parseBearer(header string, key []byte) (domain.RequestContext, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return domain.RequestContext{}, errors.New("missing bearer token")
	}

	tok, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), &claims{}, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return domain.RequestContext{}, errors.New("invalid token")
	}
	cl, _ := tok.Claims.(*claims)
	if cl == nil || cl.Subject == "" {
		return domain.RequestContext{}, errors.New("invalid claims")
	}
	return domain.RequestContext{Subject: cl.Subject, Role: strings.ToLower(cl.Role)}, nil
}

// SignToken issues an HS256 token for subject, used by the CLI and tests.
func SignToken(secret, subject, role string) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	})
	return tok.SignedString([]byte(secret))
}
