package handlers

import (
	"errors"
	"net/http"

	"neurotrack-ml/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Bad request / validation errors
	case errors.Is(err, domain.ErrEmptyScoringRequest),
		errors.Is(err, domain.ErrMissingFeature),
		errors.Is(err, domain.ErrFeatureMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrModelNotFitted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
