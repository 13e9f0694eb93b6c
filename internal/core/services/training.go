package services

import (
	"context"
	"fmt"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

type TrainingService struct {
	learner ports.Learner
}

func NewTrainingService(learner ports.Learner) *TrainingService {
	return &TrainingService{learner: learner}
}

func (s *TrainingService) Train(ctx context.Context, train *domain.Dataset) (ports.Classifier, error) {
	if train == nil || train.Rows() == 0 {
		return nil, domain.ErrEmptyDataset
	}

	x, y, err := train.XY()
	if err != nil {
		return nil, err
	}

	model, err := s.learner.Fit(ctx, x, y, train.FeatureNames())
	if err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}
	return model, nil
}

// Evaluate scores model on a held-out dataset.
func (s *TrainingService) Evaluate(model ports.Classifier, test *domain.Dataset) (*domain.EvaluationResult, error) {
	if test == nil || test.Rows() == 0 {
		return nil, domain.ErrEmptyDataset
	}

	x, y, err := test.XY()
	if err != nil {
		return nil, err
	}

	pred, err := model.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("predict test split: %w", err)
	}

	correct := 0
	for i := range pred {
		if pred[i] == y[i] {
			correct++
		}
	}

	return &domain.EvaluationResult{
		Samples:  len(y),
		Correct:  correct,
		Accuracy: float64(correct) / float64(len(y)),
	}, nil
}
