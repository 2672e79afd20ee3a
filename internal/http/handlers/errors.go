package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"usersadmin/internal/domain"
	"usersadmin/internal/http/middleware"
)

// Error codes for failures that carry no domain code.
const (
	codeNotFound = "NOT_FOUND"
	codeConflict = "CONFLICT"
	codeStore    = "STORE_ERROR"
	codeInternal = "INTERNAL"
)

// ErrorResponse is the error payload of every endpoint.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, field, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Field:     field,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	_ = c.Error(err)
	if v, ok := domain.AsValidation(err); ok {
		code := v.Code
		if code == "" {
			code = domain.CodeInvalidInput
		}
		respondError(c, http.StatusBadRequest, code, v.Field, v.Error())
		return
	}
	switch {
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, codeNotFound, "", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, codeConflict, "", err.Error())
	case domain.IsStore(err):
		respondError(c, http.StatusInternalServerError, codeStore, "", "store unavailable")
	default:
		respondError(c, http.StatusInternalServerError, codeInternal, "", "internal error")
	}
}
