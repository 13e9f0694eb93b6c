package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeDataset_Shape(t *testing.T) {
	ds, err := SynthesizeDataset(rand.New(rand.NewSource(1)), 1000, 65)
	require.NoError(t, err)

	assert.Equal(t, 1000, ds.Rows())
	assert.Equal(t, 66, ds.Cols())
	assert.Len(t, ds.FeatureNames(), 65)
	assert.Equal(t, "feature_0", ds.FeatureNames()[0])
	assert.Equal(t, "feature_64", ds.FeatureNames()[64])
}

func TestSynthesizeDataset_LabelRule(t *testing.T) {
	ds, err := SynthesizeDataset(rand.New(rand.NewSource(7)), 500, 65)
	require.NoError(t, err)

	x, y, err := ds.XY()
	require.NoError(t, err)
	require.Len(t, x, 500)
	require.Len(t, y, 500)

	for i := range x {
		want := 0
		if x[i][0]+x[i][1] > 1.0 {
			want = 1
		}
		assert.Equal(t, want, y[i], "row %d", i)
		for _, v := range x[i] {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	}
}

func TestSynthesizeDataset_Deterministic(t *testing.T) {
	a, err := SynthesizeDataset(rand.New(rand.NewSource(3)), 50, 4)
	require.NoError(t, err)
	b, err := SynthesizeDataset(rand.New(rand.NewSource(3)), 50, 4)
	require.NoError(t, err)

	xa, ya, _ := a.XY()
	xb, yb, _ := b.XY()
	assert.Equal(t, xa, xb)
	assert.Equal(t, ya, yb)
}

func TestSynthesizeDataset_InvalidArgs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := SynthesizeDataset(rng, 0, 65)
	assert.ErrorIs(t, err, ErrInvalidSampleCount)

	_, err = SynthesizeDataset(rng, 10, 1)
	assert.ErrorIs(t, err, ErrInvalidFeatureCount)
}

func TestLabelFor(t *testing.T) {
	assert.Equal(t, 1, LabelFor(0.6, 0.5))
	assert.Equal(t, 0, LabelFor(0.5, 0.5))
	assert.Equal(t, 0, LabelFor(0.1, 0.2))
}

func TestDataset_Split(t *testing.T) {
	ds, err := SynthesizeDataset(rand.New(rand.NewSource(1)), 1000, 65)
	require.NoError(t, err)

	train, test, err := ds.Split(rand.New(rand.NewSource(2)), 0.2)
	require.NoError(t, err)

	assert.Equal(t, 800, train.Rows())
	assert.Equal(t, 200, test.Rows())
	assert.Equal(t, 1000, train.Rows()+test.Rows())
	assert.Equal(t, 66, train.Cols())
	assert.Equal(t, 66, test.Cols())
	assert.Equal(t, ds.FeatureNames(), train.FeatureNames())
}

func TestDataset_Split_KeepsLabelRule(t *testing.T) {
	ds, err := SynthesizeDataset(rand.New(rand.NewSource(5)), 100, 3)
	require.NoError(t, err)

	_, test, err := ds.Split(rand.New(rand.NewSource(6)), 0.25)
	require.NoError(t, err)
	assert.Equal(t, 25, test.Rows())

	x, y, err := test.XY()
	require.NoError(t, err)
	for i := range x {
		assert.Equal(t, LabelFor(x[i][0], x[i][1]), y[i])
	}
}

func TestDataset_Split_InvalidTestSize(t *testing.T) {
	ds, err := SynthesizeDataset(rand.New(rand.NewSource(1)), 10, 2)
	require.NoError(t, err)

	for _, size := range []float64{0, 1, -0.1, 1.5} {
		_, _, err := ds.Split(rand.New(rand.NewSource(1)), size)
		assert.ErrorIs(t, err, ErrInvalidTestSize, "size %v", size)
	}
}
