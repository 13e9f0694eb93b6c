package dto

import "neurotrack-ml/internal/core/services"

// ScoreRequest carries one feature record per row, keyed by column name.
type ScoreRequest struct {
	Data []map[string]float64 `json:"data" binding:"required"`
}

type ScoreResponse struct {
	Prediction  []int     `json:"prediction"`
	Probability []float64 `json:"probability"`
}

type ModelInfoResponse struct {
	Name     string   `json:"name,omitempty"`
	Format   string   `json:"format"`
	Features []string `json:"features"`
}

func ToScoreResponse(r *services.ScoreResult) ScoreResponse {
	return ScoreResponse{
		Prediction:  r.Predictions,
		Probability: r.Probabilities,
	}
}
