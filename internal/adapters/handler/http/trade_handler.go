package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/valedagnoli/daypulse/internal/adapters/handler/http/middleware"
	"github.com/valedagnoli/daypulse/internal/core/domain"
	"github.com/valedagnoli/daypulse/internal/core/services"
)

type TradeHandler struct {
	svc *services.TradeService
}

func NewTradeHandler(svc *services.TradeService) *TradeHandler {
	return &TradeHandler{svc: svc}
}

type createTradeRequest struct {
	TradeDate      string          `json:"trade_date" binding:"required"`
	Symbol         string          `json:"symbol" binding:"required"`
	InstrumentType string          `json:"instrument_type"`
	Side           string          `json:"side" binding:"required"`
	Quantity       int             `json:"quantity" binding:"required"`
	PnL            decimal.Decimal `json:"pnl"`
	PnLPercent     decimal.Decimal `json:"pnl_percent"`
	Fee            decimal.Decimal `json:"fee"`
	Notes          string          `json:"notes"`
}

type updateTradeRequest struct {
	Quantity   int             `json:"quantity"`
	PnL        decimal.Decimal `json:"pnl"`
	PnLPercent decimal.Decimal `json:"pnl_percent"`
	Fee        decimal.Decimal `json:"fee"`
	Notes      string          `json:"notes"`
	Version    int             `json:"version"`
}

func (h *TradeHandler) RegisterRoutes(router *gin.RouterGroup) {
	trades := router.Group("/trades")
	{
		trades.POST("", h.Create)
		trades.GET("", h.List)
		trades.GET("/:id", h.Get)
		trades.PUT("/:id", h.Update)
		trades.DELETE("/:id", h.Delete)
	}
}

func (h *TradeHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.TradeDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trade_date format, expected YYYY-MM-DD"})
		return
	}

	trade, err := h.svc.Create(c.Request.Context(), services.CreateTradeInput{
		UserID:         userID,
		TradeDate:      date,
		Symbol:         req.Symbol,
		InstrumentType: req.InstrumentType,
		Side:           req.Side,
		Quantity:       req.Quantity,
		PnL:            req.PnL,
		PnLPercent:     req.PnLPercent,
		Fee:            req.Fee,
		Notes:          req.Notes,
	})
	if err != nil {
		h.handleTradeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, trade)
}

// List returns the period's trades grouped by day, newest day first.
func (h *TradeHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, to, ok := parseDateRange(c, 30)
	if !ok {
		return
	}

	days, err := h.svc.ListByDateRange(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start_date": from.Format("2006-01-02"),
		"end_date":   to.Format("2006-01-02"),
		"days":       days,
	})
}

func (h *TradeHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	trade, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleTradeError(c, err)
		return
	}

	c.JSON(http.StatusOK, trade)
}

func (h *TradeHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade, err := h.svc.Update(c.Request.Context(), services.UpdateTradeInput{
		ID:         c.Param("id"),
		UserID:     userID,
		Quantity:   req.Quantity,
		PnL:        req.PnL,
		PnLPercent: req.PnLPercent,
		Fee:        req.Fee,
		Notes:      req.Notes,
		Version:    req.Version,
	})
	if err != nil {
		h.handleTradeError(c, err)
		return
	}

	c.JSON(http.StatusOK, trade)
}

func (h *TradeHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleTradeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TradeHandler) handleTradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTradeConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "Data has been modified elsewhere. Please refresh.",
		})
	case errors.Is(err, domain.ErrTradeNotFound), errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusNotFound, gin.H{"error": "trade not found"})
	case errors.Is(err, domain.ErrTradeSymbolEmpty),
		errors.Is(err, domain.ErrTradeInvalidDate),
		errors.Is(err, domain.ErrInvalidInstrument),
		errors.Is(err, domain.ErrInvalidTradeSide),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrNegativeFee):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
