package handlers

import (
	"context"
	"net/http"

	"busbooking/internal/domain/models"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/periods
func (a *API) ListPeriods(c *gin.Context) {
	periods, err := a.periodService(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, periods)
}

// GET /api/periods/active
// Responds with data null when no period is active.
func (a *API) GetActivePeriod(c *gin.Context) {
	p, err := a.periodService(c).GetActive(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}

// GET /api/periods/:id
func (a *API) GetPeriod(c *gin.Context) {
	p, err := a.periodService(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}

// POST /api/periods
func (a *API) CreatePeriod(c *gin.Context) {
	var in models.PeriodInput
	if !BindJSONOrError(c, &in) {
		return
	}
	p, err := a.periodService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, p)
}

// PUT /api/periods/:id
func (a *API) UpdatePeriod(c *gin.Context) {
	var in models.PeriodInput
	if !BindJSONOrError(c, &in) {
		return
	}
	p, err := a.periodService(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}

// DELETE /api/periods/:id
func (a *API) DeletePeriod(c *gin.Context) {
	if err := a.periodService(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "periode dihapus beserta bus dan penumpangnya"})
}

// PUT /api/periods/:id/activate
func (a *API) ActivatePeriod(c *gin.Context) {
	a.transitionPeriod(c, services.PeriodService.Activate)
}

// PUT /api/periods/:id/lock
func (a *API) LockPeriod(c *gin.Context) {
	a.transitionPeriod(c, services.PeriodService.Lock)
}

// PUT /api/periods/:id/archive
func (a *API) ArchivePeriod(c *gin.Context) {
	a.transitionPeriod(c, services.PeriodService.Archive)
}

type periodMove func(services.PeriodService, context.Context, string) (models.Period, error)

func (a *API) transitionPeriod(c *gin.Context, move periodMove) {
	p, err := move(a.periodService(c), c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}
