package domain

import "fmt"

// CheckTrainingSet validates a feature matrix and its labels before fitting
// and returns the class count (highest label + 1).
func CheckTrainingSet(x [][]float64, y []int, featureNames []string) (int, error) {
	if len(x) == 0 {
		return 0, ErrEmptyDataset
	}
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: %d rows, %d labels", ErrFeatureMismatch, len(x), len(y))
	}
	nFeatures := len(x[0])
	if len(featureNames) != nFeatures {
		return 0, fmt.Errorf("%w: %d columns, %d names", ErrFeatureMismatch, nFeatures, len(featureNames))
	}
	for i, row := range x {
		if len(row) != nFeatures {
			return 0, fmt.Errorf("%w: row %d has %d columns", ErrFeatureMismatch, i, len(row))
		}
	}

	classes := 0
	seen := make(map[int]struct{})
	for _, c := range y {
		if c < 0 {
			return 0, fmt.Errorf("negative class label %d", c)
		}
		seen[c] = struct{}{}
		if c+1 > classes {
			classes = c + 1
		}
	}
	if len(seen) < 2 {
		return 0, ErrSingleClass
	}
	return classes, nil
}
