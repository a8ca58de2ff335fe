package middleware

import (
	"net/http"
	"strings"

	"busbooking/internal/domain"

	"github.com/gin-gonic/gin"
)

const operatorKey = "operator"

// TokenParser verifies a bearer token and returns the operator inside it.
type TokenParser func(token string) (domain.Operator, error)

// Auth reads an optional "Authorization: Bearer" token. Requests without a
// token pass through anonymously; a token that fails to verify is rejected.
func Auth(parse TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "format Authorization harus Bearer <token>")
			return
		}
		op, err := parse(strings.TrimSpace(token))
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}
		c.Set(operatorKey, op)
		c.Next()
	}
}

// RequireOperator rejects anonymous requests when required is set and is a
// no-op otherwise.
func RequireOperator(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if required && GetOperator(c) == nil {
			abortUnauthorized(c, "login petugas diperlukan")
			return
		}
		c.Next()
	}
}

// GetOperator returns the authenticated operator, or nil.
func GetOperator(c *gin.Context) *domain.Operator {
	if c == nil {
		return nil
	}
	if v, ok := c.Get(operatorKey); ok {
		if op, ok := v.(domain.Operator); ok {
			return &op
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      message,
		"code":       "unauthorized",
		"message":    message,
		"request_id": GetRequestID(c),
	})
}
