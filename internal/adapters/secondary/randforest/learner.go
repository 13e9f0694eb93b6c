// Package randforest fits forests with github.com/malaschitz/randomForest.
//
// The library draws bootstrap rows and split candidates from the global
// math/rand source, so fits are not reproducible from DATASET_SEED.
package randforest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	randomforest "github.com/malaschitz/randomForest"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

// FormatName tags serialized forests.
const FormatName = "malaschitz-randomforest/v1"

// Options left at zero use the library defaults: sqrt(features) split
// candidates, leaf size rows/20 capped to [1, 50], depth 10.
type Options struct {
	Estimators int
	MaxDepth   int
	LeafSize   int
	MaxFeature int
}

type Learner struct {
	opts Options
}

func NewLearner(opts Options) *Learner {
	return &Learner{opts: opts}
}

var _ ports.Learner = (*Learner)(nil)

func (l *Learner) Format() string {
	return FormatName
}

// Fit trains the forest in one blocking call; ctx is checked before and
// after it.
func (l *Learner) Fit(ctx context.Context, x [][]float64, y []int, featureNames []string) (ports.Classifier, error) {
	if l.opts.Estimators <= 0 {
		return nil, domain.ErrInvalidEstimators
	}
	if _, err := domain.CheckTrainingSet(x, y, featureNames); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := &randomforest.Forest{
		Data:      randomforest.ForestData{X: x, Class: y},
		MaxDepth:  l.opts.MaxDepth,
		LeafSize:  l.opts.LeafSize,
		MFeatures: l.opts.MaxFeature,
	}
	f.Train(l.opts.Estimators)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fit trees: %w", err)
	}
	// the fitted trees no longer need the training rows
	f.Data = randomforest.ForestData{}
	for i := range f.Trees {
		// a bootstrap that drew every row leaves no out-of-bag score, and
		// NaN has no JSON encoding
		if math.IsNaN(f.Trees[i].Validation) {
			f.Trees[i].Validation = 0
		}
	}

	names := make([]string, len(featureNames))
	copy(names, featureNames)
	return &Model{Format: FormatName, Features: names, Forest: f}, nil
}

func (l *Learner) Load(data []byte) (ports.Classifier, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownFormat, err)
	}
	if m.Format != FormatName {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, m.Format)
	}
	if m.Forest == nil || m.Forest.NTrees == 0 {
		return nil, domain.ErrModelNotFitted
	}
	return &m, nil
}

// Model wraps a fitted library forest with the feature order it was fitted
// on. Leaf probabilities and split values are stored with five decimals.
type Model struct {
	Format   string               `json:"format"`
	Features []string             `json:"features"`
	Forest   *randomforest.Forest `json:"forest"`
}

var _ ports.Classifier = (*Model)(nil)

func (m *Model) FeatureNames() []string {
	return m.Features
}

func (m *Model) PredictProba(x [][]float64) ([][]float64, error) {
	if m.Forest == nil || m.Forest.NTrees == 0 {
		return nil, domain.ErrModelNotFitted
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(m.Features) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", domain.ErrFeatureMismatch, i, len(row), len(m.Features))
		}
		out[i] = m.Forest.Vote(row)
	}
	return out, nil
}

func (m *Model) Predict(x [][]float64) ([]int, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		best := 0
		for c := 1; c < len(p); c++ {
			if p[c] > p[best] {
				best = c
			}
		}
		out[i] = best
	}
	return out, nil
}

func (m *Model) MarshalBinary() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode forest: %w", err)
	}
	return data, nil
}
