package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"busbooking/internal/domain"

	"github.com/gin-gonic/gin"
)

func TestRespondDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ValidationError{Field: "name", Msg: "wajib diisi"}, http.StatusBadRequest, "validation_error"},
		{domain.UnauthorizedError{Msg: "token tidak valid"}, http.StatusUnauthorized, "unauthorized"},
		{domain.NotFoundError{Resource: "period", ID: "p1"}, http.StatusNotFound, "period_not_found"},
		{fmt.Errorf("load: %w", domain.NotFoundError{Resource: "bus", ID: "b1"}), http.StatusNotFound, "bus_not_found"},
		{domain.PeriodLockedError{PeriodID: "p1", Status: "LOCKED"}, http.StatusConflict, "period_locked"},
		{domain.SeatTakenError{BusID: "b1", SeatNumber: 3}, http.StatusConflict, "seat_taken"},
		{domain.SeatOutOfRangeError{BusID: "b1", SeatNumber: 9, Max: 8}, http.StatusUnprocessableEntity, "seat_out_of_range"},
		{domain.ConflictError{Resource: "period", Msg: "sudah aktif"}, http.StatusConflict, "conflict"},
		{domain.StoreError{Op: "delete_period.passengers", Err: errors.New("boom")}, http.StatusInternalServerError, "store_error"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set("request_id", "rid-1")

			RespondDomainError(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var got ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Code != tt.code || got.RequestID != "rid-1" {
				t.Fatalf("unexpected payload %+v", got)
			}
		})
	}
}

func TestValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	RespondDomainError(c, domain.ValidationError{Msg: "validasi gagal", Fields: []domain.FieldError{
		{Field: "phone", Msg: "wajib diisi untuk status umum"},
		{Field: "bus_id", Msg: "wajib diisi"},
	}})

	var got struct {
		Details []domain.FieldError `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Details) != 2 || got.Details[0].Field != "phone" {
		t.Fatalf("unexpected details %+v", got.Details)
	}
}

func TestStoreErrorNamesFailingStage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)

	err := fmt.Errorf("delete period: %w", domain.StoreError{Op: "delete_period.passengers", Err: errors.New("lock wait timeout")})
	RespondDomainError(c, err)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Code != "store_error" || got.Details["op"] != "delete_period.passengers" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if strings.Contains(got.Message, "lock wait timeout") {
		t.Fatalf("driver error leaked to client: %q", got.Message)
	}
}
