package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valedagnoli/daypulse/internal/adapters/handler/http/middleware"
	"github.com/valedagnoli/daypulse/internal/core/services"
)

type ReportHandler struct {
	svc *services.ReportService
}

func NewReportHandler(svc *services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/analytics/trading", h.GetTradingAnalytics)

	reports := r.Group("/reports")
	{
		reports.GET("/trades.csv", h.ExportTradesCSV)
		reports.GET("/summary.pdf", h.ExportSummaryPDF)
	}
}

func (h *ReportHandler) GetTradingAnalytics(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, to, ok := parseDateRange(c, 90)
	if !ok {
		return
	}

	snapshot, err := h.svc.GetTradingAnalytics(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *ReportHandler) ExportTradesCSV(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, to, ok := parseDateRange(c, 90)
	if !ok {
		return
	}

	data, err := h.svc.ExportTradesCSV(c.Request.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, services.ErrExportFailed) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	filename := fmt.Sprintf("trades_%s_%s.csv", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", []byte(data))
}

func (h *ReportHandler) ExportSummaryPDF(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, to, ok := parseDateRange(c, 90)
	if !ok {
		return
	}

	data, filename, err := h.svc.ExportSummaryPDF(c.Request.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, services.ErrExportFailed) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
