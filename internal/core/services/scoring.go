package services

import (
	"fmt"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

type ScoringService struct {
	model ports.Classifier
}

func NewScoringService(model ports.Classifier) *ScoringService {
	return &ScoringService{model: model}
}

type ScoreResult struct {
	Predictions []int
	// Probability of the positive class per record
	Probabilities []float64
}

// Score maps named feature records onto the model's column order and
// predicts each one. Extra keys are ignored; a missing feature rejects the
// whole request.
func (s *ScoringService) Score(records []map[string]float64) (*ScoreResult, error) {
	if len(records) == 0 {
		return nil, domain.ErrEmptyScoringRequest
	}

	names := s.model.FeatureNames()
	x := make([][]float64, len(records))
	for i, rec := range records {
		row := make([]float64, len(names))
		for j, name := range names {
			v, ok := rec[name]
			if !ok {
				return nil, fmt.Errorf("%w: record %d has no %q", domain.ErrMissingFeature, i, name)
			}
			row[j] = v
		}
		x[i] = row
	}

	proba, err := s.model.PredictProba(x)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	result := &ScoreResult{
		Predictions:   make([]int, len(proba)),
		Probabilities: make([]float64, len(proba)),
	}
	for i, p := range proba {
		best := 0
		for c := 1; c < len(p); c++ {
			if p[c] > p[best] {
				best = c
			}
		}
		result.Predictions[i] = best
		if len(p) > 1 {
			result.Probabilities[i] = p[1]
		}
	}
	return result, nil
}

func (s *ScoringService) FeatureNames() []string {
	return s.model.FeatureNames()
}
