package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pos_app/internal/core/ports/services"
	"github.com/SscSPs/pos_app/internal/dto"
	"github.com/SscSPs/pos_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for dashboard and catalog summaries
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers the read-only reporting routes
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	rg.GET("/categories", h.listCategories)
	rg.GET("/dashboard/stats", h.getDashboardStats)
}

// listCategories godoc
// @Summary List product categories
// @Description Returns the distinct categories of active products, sorted
// @Tags reports
// @Produce json
// @Success 200 {object} dto.CategoriesResponse
// @Failure 500 {object} map[string]string "Failed to list categories"
// @Router /categories [get]
func (h *reportingHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	categories, err := h.reportingService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "", "Failed to list categories")
		return
	}

	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: categories})
}

// getDashboardStats godoc
// @Summary Get dashboard statistics
// @Description Computes product, sale and revenue counters. "Today" is the current UTC day.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.DashboardStatsResponse
// @Failure 500 {object} map[string]string "Failed to get dashboard stats"
// @Router /dashboard/stats [get]
func (h *reportingHandler) getDashboardStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.reportingService.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "", "Failed to get dashboard stats")
		return
	}

	logger.Debug("Dashboard stats computed", slog.Int64("low_stock_count", stats.LowStockCount))
	c.JSON(http.StatusOK, dto.ToDashboardStatsResponse(stats))
}
