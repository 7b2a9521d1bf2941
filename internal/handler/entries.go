package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Antirender/moodpeek1/internal/audit"
	"github.com/Antirender/moodpeek1/internal/service"
	"github.com/Antirender/moodpeek1/pkg/model"
)

// EntryHandler implements the mood entry API endpoints
type EntryHandler struct {
	service *service.EntryService
	audit   *audit.Logger
	logger  *zap.Logger
}

// NewEntryHandler creates a new EntryHandler. audit may be nil.
func NewEntryHandler(service *service.EntryService, auditLogger *audit.Logger, logger *zap.Logger) *EntryHandler {
	return &EntryHandler{
		service: service,
		audit:   auditLogger,
		logger:  logger,
	}
}

// CreateEntryRequest is the JSON body for POST /api/entries
type CreateEntryRequest struct {
	Date    string                 `json:"date"`
	Mood    string                 `json:"mood"`
	City    *string                `json:"city,omitempty"`
	Tags    []string               `json:"tags,omitempty"`
	Note    *string                `json:"note,omitempty"`
	Weather *model.WeatherSnapshot `json:"weather,omitempty"`
}

// UpdateEntryRequest is the JSON body for PUT /api/entries/:id
type UpdateEntryRequest struct {
	Date *string  `json:"date,omitempty"`
	Mood *string  `json:"mood,omitempty"`
	City *string  `json:"city,omitempty"`
	Tags []string `json:"tags,omitempty"`
	Note *string  `json:"note,omitempty"`
}

// CreateEntry handles POST /api/entries
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err)
		return
	}

	entry, err := h.service.CreateEntry(c.Request.Context(), service.CreateEntryInput{
		Date:    req.Date,
		Mood:    req.Mood,
		City:    req.City,
		Tags:    req.Tags,
		Note:    req.Note,
		Weather: req.Weather,
	})
	if err != nil {
		h.logger.Error("failed to create entry", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	h.logAudit(c, audit.OperationCreate, entry.ID)

	c.JSON(http.StatusCreated, entry)
}

// ListEntries handles GET /api/entries
func (h *EntryHandler) ListEntries(c *gin.Context) {
	entries, err := h.service.ListEntries(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list entries", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	if entries == nil {
		entries = []model.MoodEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// GetEntry handles GET /api/entries/:id
func (h *EntryHandler) GetEntry(c *gin.Context) {
	entry, err := h.service.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdateEntry handles PUT /api/entries/:id
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err)
		return
	}

	entry, err := h.service.UpdateEntry(c.Request.Context(), c.Param("id"), service.UpdateEntryInput{
		Date: req.Date,
		Mood: req.Mood,
		City: req.City,
		Tags: req.Tags,
		Note: req.Note,
	})
	if err != nil {
		h.logger.Error("failed to update entry", zap.Error(err), zap.String("entry_id", c.Param("id")))
		respondServiceError(c, err)
		return
	}

	h.logAudit(c, audit.OperationUpdate, entry.ID)

	c.JSON(http.StatusOK, entry)
}

// DeleteEntry handles DELETE /api/entries/:id
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteEntry(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete entry", zap.Error(err), zap.String("entry_id", id))
		respondServiceError(c, err)
		return
	}

	h.logAudit(c, audit.OperationDelete, id)

	c.Status(http.StatusNoContent)
}

func (h *EntryHandler) logAudit(c *gin.Context, op audit.OperationType, entryID string) {
	if h.audit == nil {
		return
	}

	err := h.audit.Log(c.Request.Context(), audit.Record{
		OperationType: op,
		ResourceType:  audit.ResourceMoodEntry,
		ResourceID:    entryID,
		IPAddress:     c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
	})
	if err != nil {
		h.logger.Warn("audit logging failed", zap.Error(err))
	}
}
