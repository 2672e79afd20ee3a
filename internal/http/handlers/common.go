package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"usersadmin/internal/domain"
)

// RespondError sends a 4xx/5xx with the standard payload and no field.
func RespondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	respondError(c, status, "", "", message)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, domain.CodeInvalidInput, "", "empty body")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusBadRequest, domain.CodeInvalidInput, "", "invalid payload: "+err.Error())
		return false
	}
	return true
}
