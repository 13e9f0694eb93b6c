package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTrainingSet(t *testing.T) {
	names := []string{"a", "b"}

	classes, err := CheckTrainingSet([][]float64{{0, 1}, {1, 0}, {1, 1}}, []int{0, 2, 1}, names)
	require.NoError(t, err)
	assert.Equal(t, 3, classes)

	tests := []struct {
		name     string
		x        [][]float64
		y        []int
		names    []string
		expected error
	}{
		{name: "empty", x: nil, y: nil, names: names, expected: ErrEmptyDataset},
		{name: "label count", x: [][]float64{{0, 1}, {1, 0}}, y: []int{0}, names: names, expected: ErrFeatureMismatch},
		{name: "name count", x: [][]float64{{0, 1}, {1, 0}}, y: []int{0, 1}, names: []string{"a"}, expected: ErrFeatureMismatch},
		{name: "ragged", x: [][]float64{{0, 1}, {1}}, y: []int{0, 1}, names: names, expected: ErrFeatureMismatch},
		{name: "single class", x: [][]float64{{0, 1}, {1, 0}}, y: []int{1, 1}, names: names, expected: ErrSingleClass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheckTrainingSet(tt.x, tt.y, tt.names)
			assert.ErrorIs(t, err, tt.expected)
		})
	}

	_, err = CheckTrainingSet([][]float64{{0, 1}, {1, 0}}, []int{0, -1}, names)
	assert.ErrorContains(t, err, "negative class label")
}
