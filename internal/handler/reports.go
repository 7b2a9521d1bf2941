package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Antirender/moodpeek1/internal/audit"
	"github.com/Antirender/moodpeek1/internal/service"
)

// ReportHandler implements the PDF report endpoints
type ReportHandler struct {
	service *service.ReportService
	audit   *audit.Logger
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler. audit may be nil.
func NewReportHandler(service *service.ReportService, auditLogger *audit.Logger, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		audit:   auditLogger,
		logger:  logger,
	}
}

// GenerateReportRequest is the JSON body for POST /api/reports/generate
type GenerateReportRequest struct {
	Start string `json:"start"`
}

// GenerateReportResponse returns the id of the generated report
type GenerateReportResponse struct {
	ReportID string `json:"report_id"`
}

// Generate handles POST /api/reports/generate
func (h *ReportHandler) Generate(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err)
		return
	}

	record, err := h.service.GenerateWeekly(c.Request.Context(), req.Start)
	if err != nil {
		h.logger.Error("failed to generate report", zap.Error(err), zap.String("start", req.Start))
		respondServiceError(c, err)
		return
	}

	if h.audit != nil {
		auditErr := h.audit.LogCreate(c.Request.Context(), audit.ResourceReport, record.ID, c.ClientIP(), c.Request.UserAgent())
		if auditErr != nil {
			h.logger.Warn("audit logging failed", zap.Error(auditErr))
		}
	}

	c.JSON(http.StatusCreated, GenerateReportResponse{ReportID: record.ID})
}

// Get handles GET /api/reports/:id, streaming the PDF
func (h *ReportHandler) Get(c *gin.Context) {
	record, pdfBytes, err := h.service.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("failed to fetch report", zap.Error(err), zap.String("report_id", c.Param("id")))
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("weekly-%s.pdf", record.WeekStart.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// List handles GET /api/reports
func (h *ReportHandler) List(c *gin.Context) {
	records, err := h.service.ListReports(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list reports", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
