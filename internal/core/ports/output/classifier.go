package ports

import "context"

// Classifier is a fitted binary/multiclass model over float features
type Classifier interface {
	// Predict returns the most probable class per row
	Predict(x [][]float64) ([]int, error)

	// PredictProba returns per-class probabilities per row
	PredictProba(x [][]float64) ([][]float64, error)

	// FeatureNames returns the column order the model was fitted on
	FeatureNames() []string

	// MarshalBinary encodes the fitted model
	MarshalBinary() ([]byte, error)
}

// Learner fits classifiers and restores them from their encoded form
type Learner interface {
	Fit(ctx context.Context, x [][]float64, y []int, featureNames []string) (Classifier, error)
	Load(data []byte) (Classifier, error)

	// Format names the encoding written by Classifier.MarshalBinary
	Format() string
}
