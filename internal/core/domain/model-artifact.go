package domain

import "time"

// ModelArtifact is a fitted model serialized to the local filesystem. The
// registry receives the whole Dir; Path is the model file inside it.
type ModelArtifact struct {
	Dir       string    `json:"dir"`
	Path      string    `json:"path"`
	Format    string    `json:"format"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// EvaluationResult is the held-out score of a fitted model.
type EvaluationResult struct {
	Samples  int     `json:"samples"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}
