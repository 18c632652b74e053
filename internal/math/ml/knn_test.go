package ml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKNN(t *testing.T) {
	x, y := clusters(100)

	c, err := NewKNN(3)
	require.NoError(t, err)
	err = c.Fit(x, y)
	require.NoError(t, err)

	prediction, err := c.Predict([][]float64{{2.1, 1.9}, {-2.1, -1.9}, {1.8, 2.2}})
	require.NoError(t, err)
	assert.Equal(t, []int{model.Positive, model.Negative, model.Positive}, prediction)
}

func TestKNN_Errors(t *testing.T) {
	_, err := NewKNN(0)
	assert.True(t, errors.Is(err, model.InvalidHyperparameterErr))

	c, err := NewKNN(3)
	require.NoError(t, err)
	_, err = c.Predict([][]float64{{1, 1}})
	assert.True(t, errors.Is(err, model.NotTrainedErr))

	err = c.Fit([][]float64{{1, 1}}, []int{1, 0})
	assert.True(t, errors.Is(err, model.ShapeMismatchErr))

	x, y := clusters(20)
	require.NoError(t, c.Fit(x, y))
	_, err = c.Predict([][]float64{{1, 1, 1}})
	assert.True(t, errors.Is(err, model.ShapeMismatchErr))
}

func TestToFeatureFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "dataset.csv")
	err := toFeatureFile(fn, [][]float64{
		{0.123456789012345, 1e-9},
		{-2.5, 42},
	}, []int{1, -1})
	require.NoError(t, err)

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	// values are written without losing precision
	assert.Equal(t, "f0,f1,class\n0.123456789012345,1e-09,pos\n-2.5,42,neg\n", string(b))
}
