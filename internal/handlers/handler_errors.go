package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto its HTTP status and JSON body. fallback is
// the message sent for unexpected failures.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var missing *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.As(err, &missing):
		logger.Warn("Commit refused: witnesses missing", slog.Any("missing_witnesses", missing.MissingWitnesses))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "missingWitnesses": missing.MissingWitnesses})
	case errors.Is(err, apperrors.ErrZeroTotalConfirmation):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": err.Error(), "confirmationRequired": true})
	case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrSequence),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrCommitInProgress),
		errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrCommitFailed):
		logger.Error("Commit write failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to save the count, please retry", "retryable": true})
	case errors.As(err, &appErr) && appErr.Code == http.StatusServiceUnavailable:
		logger.Error("Store unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": appErr.Message})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
