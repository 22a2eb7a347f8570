package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcec-dev/feedesk-api/internal/service"
	"github.com/gcec-dev/feedesk-api/pkg/response"
)

// CatalogHandler exposes the reference lists backing the fee grid dropdowns.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// AcademicYears lists the academic year catalog.
func (h *CatalogHandler) AcademicYears(c *gin.Context) {
	years, degraded := h.catalog.AcademicYears(c.Request.Context())
	response.JSON(c, http.StatusOK, years, degradedMeta(degraded))
}

// Grades lists grades in curriculum order.
func (h *CatalogHandler) Grades(c *gin.Context) {
	grades, degraded := h.catalog.Grades(c.Request.Context())
	response.JSON(c, http.StatusOK, grades, degradedMeta(degraded))
}

// Fees lists the standard fee amounts.
func (h *CatalogHandler) Fees(c *gin.Context) {
	fees, degraded := h.catalog.FeeCatalog(c.Request.Context())
	response.JSON(c, http.StatusOK, fees, degradedMeta(degraded))
}

func degradedMeta(degraded bool) map[string]interface{} {
	if !degraded {
		return nil
	}
	return map[string]interface{}{"degraded": true}
}
