package services

import (
	"fmt"
	"math/rand"
	"time"

	"neurotrack-ml/internal/core/domain"
)

type DatasetService struct {
	samples  int
	features int
	testSize float64
	rng      *rand.Rand
}

// NewDatasetService seeds its generator with seed, or the clock when seed is 0.
func NewDatasetService(samples, features int, testSize float64, seed int64) *DatasetService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &DatasetService{
		samples:  samples,
		features: features,
		testSize: testSize,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Prepare synthesizes the placeholder acoustic-feature table.
func (s *DatasetService) Prepare() (*domain.Dataset, error) {
	ds, err := domain.SynthesizeDataset(s.rng, s.samples, s.features)
	if err != nil {
		return nil, fmt.Errorf("synthesize dataset: %w", err)
	}
	return ds, nil
}

// Split partitions ds into shuffled train and test sets.
func (s *DatasetService) Split(ds *domain.Dataset) (train, test *domain.Dataset, err error) {
	train, test, err = ds.Split(s.rng, s.testSize)
	if err != nil {
		return nil, nil, fmt.Errorf("split dataset: %w", err)
	}
	return train, test, nil
}
