package domain

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// LabelColumn is the name of the binary label column in synthesized datasets.
const LabelColumn = "target"

// LabelThreshold is the cut-off applied to feature_0 + feature_1.
const LabelThreshold = 1.0

// Dataset is an in-memory table of float features plus one integer label column.
type Dataset struct {
	Frame dataframe.DataFrame
	Label string
}

// FeatureName returns the column name of the i-th synthetic feature.
func FeatureName(i int) string {
	return fmt.Sprintf("feature_%d", i)
}

// LabelFor applies the synthetic labelling rule.
func LabelFor(f0, f1 float64) int {
	if f0+f1 > LabelThreshold {
		return 1
	}
	return 0
}

// SynthesizeDataset draws samples x features uniform values in [0, 1) and
// derives the label column from the first two features.
func SynthesizeDataset(rng *rand.Rand, samples, features int) (*Dataset, error) {
	if samples <= 0 {
		return nil, ErrInvalidSampleCount
	}
	if features < 2 {
		return nil, ErrInvalidFeatureCount
	}

	// row-major draw keeps the sequence identical to a samples x features matrix fill
	values := make([][]float64, features)
	for j := range values {
		values[j] = make([]float64, samples)
	}
	for i := 0; i < samples; i++ {
		for j := 0; j < features; j++ {
			values[j][i] = rng.Float64()
		}
	}

	labels := make([]int, samples)
	for i := range labels {
		labels[i] = LabelFor(values[0][i], values[1][i])
	}

	cols := make([]series.Series, 0, features+1)
	for j := 0; j < features; j++ {
		cols = append(cols, series.New(values[j], series.Float, FeatureName(j)))
	}
	cols = append(cols, series.New(labels, series.Int, LabelColumn))

	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, fmt.Errorf("build dataframe: %w", df.Err)
	}

	return &Dataset{Frame: df, Label: LabelColumn}, nil
}

func (d *Dataset) Rows() int {
	return d.Frame.Nrow()
}

// Cols counts every column, label included.
func (d *Dataset) Cols() int {
	return d.Frame.Ncol()
}

// FeatureNames returns all column names except the label, in frame order.
func (d *Dataset) FeatureNames() []string {
	names := make([]string, 0, d.Frame.Ncol())
	for _, n := range d.Frame.Names() {
		if n != d.Label {
			names = append(names, n)
		}
	}
	return names
}

// Split shuffles row indices with rng and cuts off ceil(testSize*n) rows as
// the test partition. Both partitions keep every column.
func (d *Dataset) Split(rng *rand.Rand, testSize float64) (train, test *Dataset, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, ErrInvalidTestSize
	}

	n := d.Rows()
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest <= 0 || nTest >= n {
		return nil, nil, ErrInvalidTestSize
	}

	perm := rng.Perm(n)

	testFrame := d.Frame.Subset(perm[:nTest])
	if testFrame.Err != nil {
		return nil, nil, fmt.Errorf("subset test rows: %w", testFrame.Err)
	}
	trainFrame := d.Frame.Subset(perm[nTest:])
	if trainFrame.Err != nil {
		return nil, nil, fmt.Errorf("subset train rows: %w", trainFrame.Err)
	}

	return &Dataset{Frame: trainFrame, Label: d.Label}, &Dataset{Frame: testFrame, Label: d.Label}, nil
}

// XY returns the feature matrix (row-major) and the label vector.
func (d *Dataset) XY() ([][]float64, []int, error) {
	names := d.FeatureNames()
	n := d.Rows()

	x := make([][]float64, n)
	for i := range x {
		x[i] = make([]float64, len(names))
	}
	for j, name := range names {
		col := d.Frame.Col(name).Float()
		for i := 0; i < n; i++ {
			x[i][j] = col[i]
		}
	}

	y, err := d.Frame.Col(d.Label).Int()
	if err != nil {
		return nil, nil, fmt.Errorf("read label column: %w", err)
	}

	return x, y, nil
}
