package handlers

import (
	"errors"
	"net/http"

	"busbooking/internal/domain"
	"busbooking/internal/http/middleware"
	"busbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var (
		ve domain.ValidationError
		se domain.StoreError
	)
	switch {
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, "validation_error", ve.Error(), ve.FieldErrors())
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsNotFound(err):
		code := "not_found"
		if res := domain.NotFoundResource(err); res != "" {
			code = res + "_not_found"
		}
		respondError(c, http.StatusNotFound, code, err.Error(), nil)
	case domain.IsPeriodLocked(err):
		respondError(c, http.StatusConflict, "period_locked", err.Error(), nil)
	case domain.IsSeatTaken(err):
		respondError(c, http.StatusConflict, "seat_taken", err.Error(), nil)
	case domain.IsSeatOutOfRange(err):
		respondError(c, http.StatusUnprocessableEntity, "seat_out_of_range", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.As(err, &se):
		utils.LogEvent(middleware.GetRequestID(c), "http", "store_error", err.Error())
		msg := "gagal mengakses penyimpanan data"
		if se.Op != "" {
			msg += " (" + se.Op + ")"
		}
		respondError(c, http.StatusInternalServerError, "store_error", msg, gin.H{"op": se.Op})
	default:
		utils.LogEvent(middleware.GetRequestID(c), "http", "internal_error", err.Error())
		respondError(c, http.StatusInternalServerError, "internal_error", "terjadi kesalahan", nil)
	}
}
