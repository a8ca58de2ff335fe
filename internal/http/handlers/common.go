package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "empty_body", "body kosong", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, "empty_body", "body kosong", nil)
			return false
		}
		respondError(c, http.StatusBadRequest, "invalid_payload", "payload tidak valid", gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondOK wraps list and detail payloads the same way everywhere.
func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

// sendFile writes a generated document with the given disposition.
func sendFile(c *gin.Context, contentType, disposition, filename string, data []byte) {
	c.Header("Content-Disposition", disposition+`; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
