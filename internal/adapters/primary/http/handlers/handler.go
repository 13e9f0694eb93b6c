package handlers

import (
	"neurotrack-ml/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	scoringSvc  *services.ScoringService
	modelName   string
	modelFormat string
}

func New(scoringSvc *services.ScoringService, modelName, modelFormat string) *Handler {
	return &Handler{
		scoringSvc:  scoringSvc,
		modelName:   modelName,
		modelFormat: modelFormat,
	}
}

// RegisterRoutes mounts the scoring API. Routes on r are expected to sit
// behind key auth when the endpoint uses it.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/score", h.Score)
	r.GET("/model", h.ModelInfo)
}
