package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/openinvoice/backend/internal/application/report"
)

// ReportHandler handles sales report endpoints
type ReportHandler struct {
	BaseHandler
	reports *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *reportapp.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Sales builds a sales report for an inclusive calendar-day period
func (h *ReportHandler) Sales(c *gin.Context) {
	var req reportapp.SalesReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reports.Sales(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Daily builds the end-of-day report for a single date
func (h *ReportHandler) Daily(c *gin.Context) {
	report, err := h.reports.Daily(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/sales", h.Sales)
		reports.GET("/daily/:date", h.Daily)
	}
}
