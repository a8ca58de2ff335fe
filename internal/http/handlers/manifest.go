package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /api/periods/:id/manifest
func (a *API) ExportManifest(c *gin.Context) {
	data, filename, err := a.manifestService(c).ExportManifest(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, xlsxContentType, "attachment", filename, data)
}

// GET /api/periods/:id/manifest/summary
// The same aggregation as the workbook, as JSON for on-screen totals.
func (a *API) GetManifestSummary(c *gin.Context) {
	m, err := a.manifestService(c).BuildManifest(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, m)
}
