package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Antirender/moodpeek1/internal/service"
)

// InsightsHandler implements the weekly insights endpoint
type InsightsHandler struct {
	service *service.InsightsService
	logger  *zap.Logger
}

// NewInsightsHandler creates a new InsightsHandler
func NewInsightsHandler(service *service.InsightsService, logger *zap.Logger) *InsightsHandler {
	return &InsightsHandler{
		service: service,
		logger:  logger,
	}
}

// WeeklyInsights handles GET /api/insights/weekly
func (h *InsightsHandler) WeeklyInsights(c *gin.Context) {
	report, err := h.service.ComputeWeeklyReport(c.Request.Context(), c.Query("start"))
	if err != nil {
		h.logger.Error("failed to compute weekly report",
			zap.Error(err),
			zap.String("start", c.Query("start")),
		)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
