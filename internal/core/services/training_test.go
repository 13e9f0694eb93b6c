package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"neurotrack-ml/internal/core/domain"
	"neurotrack-ml/internal/testutil"
)

func smallSplit(t *testing.T) (*domain.Dataset, *domain.Dataset) {
	t.Helper()
	svc := NewDatasetService(50, 4, 0.2, 3)
	ds, err := svc.Prepare()
	require.NoError(t, err)
	train, test, err := svc.Split(ds)
	require.NoError(t, err)
	return train, test
}

func TestTrainingService_Train(t *testing.T) {
	learner := new(testutil.MockLearner)
	model := new(testutil.MockClassifier)
	svc := NewTrainingService(learner)
	train, _ := smallSplit(t)

	learner.On("Fit", mock.Anything, mock.AnythingOfType("[][]float64"), mock.AnythingOfType("[]int"), train.FeatureNames()).
		Return(model, nil)

	got, err := svc.Train(context.Background(), train)
	assert.NoError(t, err)
	assert.Equal(t, model, got)
	learner.AssertExpectations(t)
}

func TestTrainingService_Train_FitError(t *testing.T) {
	learner := new(testutil.MockLearner)
	svc := NewTrainingService(learner)
	train, _ := smallSplit(t)

	learner.On("Fit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrSingleClass)

	_, err := svc.Train(context.Background(), train)
	assert.ErrorIs(t, err, domain.ErrSingleClass)
}

func TestTrainingService_Train_Empty(t *testing.T) {
	svc := NewTrainingService(new(testutil.MockLearner))

	_, err := svc.Train(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestTrainingService_Evaluate(t *testing.T) {
	svc := NewTrainingService(new(testutil.MockLearner))
	model := new(testutil.MockClassifier)
	_, test := smallSplit(t)

	_, y, err := test.XY()
	require.NoError(t, err)

	// flip the first prediction so exactly one is wrong
	pred := make([]int, len(y))
	copy(pred, y)
	pred[0] = 1 - pred[0]
	model.On("Predict", mock.Anything).Return(pred, nil)

	result, err := svc.Evaluate(model, test)
	require.NoError(t, err)
	assert.Equal(t, len(y), result.Samples)
	assert.Equal(t, len(y)-1, result.Correct)
	assert.InDelta(t, float64(len(y)-1)/float64(len(y)), result.Accuracy, 1e-9)
}

func TestTrainingService_Evaluate_PredictError(t *testing.T) {
	svc := NewTrainingService(new(testutil.MockLearner))
	model := new(testutil.MockClassifier)
	_, test := smallSplit(t)

	model.On("Predict", mock.Anything).Return(nil, errors.New("boom"))

	_, err := svc.Evaluate(model, test)
	assert.Error(t, err)
}
