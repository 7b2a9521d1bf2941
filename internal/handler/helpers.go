package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Antirender/moodpeek1/internal/repository"
	"github.com/Antirender/moodpeek1/internal/service"
	"github.com/Antirender/moodpeek1/pkg/model"
)

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// respondError writes the shared JSON error shape
func respondError(c *gin.Context, status int, code, message string, err error) {
	resp := model.ErrorResponse{
		Code:    code,
		Message: message,
	}
	if err != nil {
		resp.Details = stringPtr(err.Error())
	}
	c.JSON(status, resp)
}

// respondServiceError maps service and repository errors onto HTTP statuses
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
	case errors.Is(err, repository.ErrEntryNotFound),
		errors.Is(err, repository.ErrReportNotFound),
		errors.Is(err, repository.ErrSummaryNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", err)
	case errors.Is(err, repository.ErrDuplicateDate):
		respondError(c, http.StatusConflict, "CONFLICT", "An entry already exists for this date", err)
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err)
	}
}
