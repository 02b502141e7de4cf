package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"stockcard/internal/core/fiscal"
	"stockcard/internal/domain/reports"
	"stockcard/internal/infrastructure/http/v1/dto"
	"stockcard/pkg/logger"
)

// ReportService is the part of reports.Service used by the handlers.
type ReportService interface {
	StockCard(ctx context.Context, req reports.StockCardRequest) (*reports.StockCard, error)
	StockSituation(ctx context.Context, req reports.SituationRequest) (*reports.Situation, error)
	Location() *time.Location
}

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service ReportService
	clock   fiscal.Clock
}

// NewReportsHandler creates a new reports handler. A nil clock means the
// system clock.
func NewReportsHandler(base *BaseHandler, service ReportService, clock fiscal.Clock) *ReportsHandler {
	if clock == nil {
		clock = fiscal.SystemClock{}
	}
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
		clock:       clock,
	}
}

func (h *ReportsHandler) currentYear() fiscal.Year {
	return fiscal.Current(h.clock, h.service.Location())
}

// GetStockCard handles GET /reports/stock-card
func (h *ReportsHandler) GetStockCard(c *gin.Context) {
	var req dto.StockCardRequest
	if !h.BindQuery(c, &req) {
		return
	}

	ctx := c.Request.Context()
	card, err := h.service.StockCard(ctx, req.ToDomain(h.currentYear()))
	if err != nil {
		h.Error(c, err)
		return
	}

	if len(card.Warnings) > 0 {
		logger.Debug(ctx, "stock card served with warnings", "user_id", h.GetUserID(c), "warnings", len(card.Warnings))
	}
	h.OK(c, dto.FromStockCard(card, h.service.Location()))
}

// GetStockSituation handles GET /reports/stock-situation
func (h *ReportsHandler) GetStockSituation(c *gin.Context) {
	var req dto.StockSituationRequest
	if !h.BindQuery(c, &req) {
		return
	}

	sit, err := h.service.StockSituation(c.Request.Context(), req.ToDomain(h.currentYear()))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSituation(sit))
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock-card", h.GetStockCard)
	rg.GET("/stock-situation", h.GetStockSituation)
}
