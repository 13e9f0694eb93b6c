package handlers

import (
	"net/http"

	"neurotrack-ml/internal/adapters/primary/http/dto"
	"neurotrack-ml/internal/adapters/primary/http/middleware"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) Score(c *gin.Context) {
	var req dto.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.scoringSvc.Score(req.Data)
	if err != nil {
		log.WithError(err).Warn("score request rejected")
		mapDomainError(c, err)
		return
	}
	middleware.RecordPredictions(result.Predictions)

	c.JSON(http.StatusOK, dto.ToScoreResponse(result))
}

func (h *Handler) ModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ModelInfoResponse{
		Name:     h.modelName,
		Format:   h.modelFormat,
		Features: h.scoringSvc.FeatureNames(),
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
