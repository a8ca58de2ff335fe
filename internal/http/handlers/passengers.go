package handlers

import (
	"net/http"

	"busbooking/internal/domain/models"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/periods/:id/passengers?bus_id=&unassigned=&gender=&status=&q=&sort=&desc=
func (a *API) ListPassengers(c *gin.Context) {
	var q services.PassengerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_query", "parameter query tidak valid", gin.H{"error": err.Error()})
		return
	}
	passengers, err := a.passengerService(c).List(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, passengers)
}

// GET /api/periods/:id/passengers/:passengerId
func (a *API) GetPassenger(c *gin.Context) {
	p, err := a.passengerService(c).Get(c.Request.Context(), c.Param("id"), c.Param("passengerId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}

// POST /api/periods/:id/passengers
func (a *API) CreatePassenger(c *gin.Context) {
	var in models.PassengerInput
	if !BindJSONOrError(c, &in) {
		return
	}
	p, err := a.passengerService(c).Create(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, p)
}

// PUT /api/periods/:id/passengers/:passengerId
func (a *API) UpdatePassenger(c *gin.Context) {
	var in models.PassengerInput
	if !BindJSONOrError(c, &in) {
		return
	}
	p, err := a.passengerService(c).Update(c.Request.Context(), c.Param("id"), c.Param("passengerId"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}

// DELETE /api/periods/:id/passengers/:passengerId
func (a *API) DeletePassenger(c *gin.Context) {
	if err := a.passengerService(c).Delete(c.Request.Context(), c.Param("id"), c.Param("passengerId")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "penumpang dihapus"})
}

// GET /api/periods/:id/passengers/:passengerId/ticket
func (a *API) GetPassengerTicket(c *gin.Context) {
	pdf, filename, err := a.docsService(c).RenderTicket(c.Request.Context(), c.Param("id"), c.Param("passengerId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, "application/pdf", "inline", filename, pdf)
}
