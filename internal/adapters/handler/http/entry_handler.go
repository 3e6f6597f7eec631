package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/valedagnoli/daypulse/internal/adapters/handler/http/middleware"
	"github.com/valedagnoli/daypulse/internal/core/domain"
	"github.com/valedagnoli/daypulse/internal/core/services"
)

type EntryHandler struct {
	svc *services.EntryService
}

func NewEntryHandler(svc *services.EntryService) *EntryHandler {
	return &EntryHandler{svc: svc}
}

type createEntryRequest struct {
	HabitID        string `json:"habit_id" binding:"required"`
	CompletionDate string `json:"completion_date" binding:"required"`
	Value          int    `json:"value"`
	Notes          string `json:"notes"`
}

type updateEntryRequest struct {
	Value   int    `json:"value"`
	Notes   string `json:"notes"`
	Version int    `json:"version"`
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/entries")
	{
		entries.POST("", h.Create)
		entries.PUT("", h.Upsert)
		entries.GET("/:id", h.Get)
		entries.PUT("/:id", h.Update)
		entries.DELETE("/:id", h.Delete)
	}
	router.GET("/habits/:id/entries", h.ListByHabit)
}

func (h *EntryHandler) bindCreate(c *gin.Context, userID string) (services.CreateEntryInput, bool) {
	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return services.CreateEntryInput{}, false
	}

	date, err := time.Parse("2006-01-02", req.CompletionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completion_date format, expected YYYY-MM-DD"})
		return services.CreateEntryInput{}, false
	}

	return services.CreateEntryInput{
		HabitID:        req.HabitID,
		UserID:         userID,
		CompletionDate: date,
		Value:          req.Value,
		Notes:          req.Notes,
	}, true
}

func (h *EntryHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	input, ok := h.bindCreate(c, userID)
	if !ok {
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Upsert is the idempotent variant: logging the same habit and day twice
// overwrites instead of conflicting.
func (h *EntryHandler) Upsert(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	input, ok := h.bindCreate(c, userID)
	if !ok {
		return
	}

	entry, err := h.svc.Upsert(c.Request.Context(), input)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	entry, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.svc.Update(c.Request.Context(), services.UpdateEntryInput{
		ID:      c.Param("id"),
		UserID:  userID,
		Value:   req.Value,
		Notes:   req.Notes,
		Version: req.Version,
	})
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EntryHandler) ListByHabit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, to, ok := parseDateRange(c, 30)
	if !ok {
		return
	}

	entries, err := h.svc.ListByHabit(c.Request.Context(), c.Param("id"), userID, from, to)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *EntryHandler) handleEntryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEntryConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "Data has been modified elsewhere. Please refresh.",
		})
	case errors.Is(err, domain.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
	case errors.Is(err, domain.ErrHabitNotFound), errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
	case errors.Is(err, domain.ErrHabitArchived), errors.Is(err, domain.ErrInvalidEntry):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
