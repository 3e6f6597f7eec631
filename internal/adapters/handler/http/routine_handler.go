package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/valedagnoli/daypulse/internal/adapters/handler/http/middleware"
	"github.com/valedagnoli/daypulse/internal/core/analytics"
	"github.com/valedagnoli/daypulse/internal/core/domain"
	"github.com/valedagnoli/daypulse/internal/core/services"
)

type RoutineHandler struct {
	svc *services.RoutineService
}

func NewRoutineHandler(svc *services.RoutineService) *RoutineHandler {
	return &RoutineHandler{svc: svc}
}

type upsertRoutineRequest struct {
	EntryDate string `json:"entry_date" binding:"required"`
	Morning   bool   `json:"morning"`
	Evening   bool   `json:"evening"`
	Health    bool   `json:"health"`
}

func (h *RoutineHandler) RegisterRoutes(router *gin.RouterGroup) {
	routines := router.Group("/routines")
	{
		routines.PUT("", h.Upsert)
		routines.GET("/:date", h.GetDay)
	}
	router.GET("/stats/trend", h.GetWeeklyTrend)
}

func (h *RoutineHandler) Upsert(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req upsertRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry_date format, expected YYYY-MM-DD"})
		return
	}

	entry, err := h.svc.Upsert(c.Request.Context(), services.UpsertRoutineInput{
		UserID:    userID,
		EntryDate: date,
		Morning:   req.Morning,
		Evening:   req.Evening,
		Health:    req.Health,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRoutineInvalidDate) || errors.Is(err, domain.ErrRoutineInvalidUserID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *RoutineHandler) GetDay(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	snapshot, err := h.svc.GetDay(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetWeeklyTrend compares the halves of a 7-day window. week_start defaults
// to the most recent Monday.
func (h *RoutineHandler) GetWeeklyTrend(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	weekStartStr := c.Query("week_start")
	var weekStart time.Time
	var err error

	if weekStartStr == "" {
		weekStart = mostRecentMonday(time.Now().UTC())
	} else {
		weekStart, err = time.Parse("2006-01-02", weekStartStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start format, expected YYYY-MM-DD"})
			return
		}
	}

	analysis, points, err := h.svc.GetWeeklyTrend(c.Request.Context(), userID, weekStart)
	if err != nil {
		if errors.Is(err, analytics.ErrTrendWindowSize) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"week_start": weekStart.Format("2006-01-02"),
		"trend":      analysis,
		"days":       points,
	})
}

func mostRecentMonday(t time.Time) time.Time {
	t = t.Truncate(24 * time.Hour)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
