package handlers

import (
	"net/http"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/periods/:id/buses
func (a *API) ListBuses(c *gin.Context) {
	buses, err := a.busService(c).List(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, buses)
}

// GET /api/periods/:id/buses/:busId
func (a *API) GetBus(c *gin.Context) {
	b, err := a.busService(c).Get(c.Request.Context(), c.Param("id"), c.Param("busId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, b)
}

// POST /api/periods/:id/buses
func (a *API) CreateBus(c *gin.Context) {
	var in models.BusInput
	if !BindJSONOrError(c, &in) {
		return
	}
	b, err := a.busService(c).Create(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, b)
}

// PUT /api/periods/:id/buses/:busId
func (a *API) UpdateBus(c *gin.Context) {
	var in models.BusInput
	if !BindJSONOrError(c, &in) {
		return
	}
	b, err := a.busService(c).Update(c.Request.Context(), c.Param("id"), c.Param("busId"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, b)
}

// GET /api/periods/:id/buses/:busId/seats
func (a *API) GetSeatMap(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := a.busService(c).Get(ctx, c.Param("id"), c.Param("busId")); err != nil {
		RespondDomainError(c, err)
		return
	}
	m, err := a.seatService(c).SeatMap(ctx, c.Param("busId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, m)
}

type seatCheckRequest struct {
	SeatNumber  int    `json:"seat_number"`
	PassengerID string `json:"passenger_id"`
}

// POST /api/periods/:id/buses/:busId/seats/check
// A taken or out-of-range seat is a normal answer here, not an error.
func (a *API) CheckSeat(c *gin.Context) {
	var req seatCheckRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if _, err := a.busService(c).Get(ctx, c.Param("id"), c.Param("busId")); err != nil {
		RespondDomainError(c, err)
		return
	}

	err := a.seatService(c).AssignSeat(ctx, c.Param("busId"), req.SeatNumber, req.PassengerID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"available": true, "seat_number": req.SeatNumber})
	case domain.IsSeatTaken(err):
		c.JSON(http.StatusOK, gin.H{"available": false, "seat_number": req.SeatNumber, "code": "seat_taken", "message": err.Error()})
	case domain.IsSeatOutOfRange(err):
		c.JSON(http.StatusOK, gin.H{"available": false, "seat_number": req.SeatNumber, "code": "seat_out_of_range", "message": err.Error()})
	default:
		RespondDomainError(c, err)
	}
}
