package train

import (
	"errors"
	"testing"

	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossValidate(t *testing.T) {
	ds := blobs(t, 500, 1)

	report, err := CrossValidate(ds, testConfig())
	require.NoError(t, err)
	require.Equal(t, 5, len(report.Folds))

	var sum float64
	var samples int
	for i, f := range report.Folds {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, 100, f.Validation)
		assert.Equal(t, 400, f.Train)
		assert.True(t, f.Score.Accuracy >= 0 && f.Score.Accuracy <= 1)
		assert.True(t, f.Score.Accuracy >= 0.95)
		assert.Equal(t, 2, len(f.Params.W))
		sum += f.Score.Accuracy
		samples += f.Score.Samples
	}
	assert.InDelta(t, sum/5, report.Mean.Accuracy, 1e-12)
	assert.Equal(t, 500, samples)
	assert.True(t, report.StdDev.Accuracy >= 0)
}

func TestCrossValidate_Deterministic(t *testing.T) {
	ds := blobs(t, 200, 2)

	cfg := testConfig()
	report, err := CrossValidate(ds, cfg)
	require.NoError(t, err)

	cfg.Workers = 1
	sequential, err := CrossValidate(ds, cfg)
	require.NoError(t, err)

	assert.Equal(t, report, sequential)
}

func TestCrossValidate_NoPositives(t *testing.T) {
	n := 50
	cfg := testConfig()
	folds, err := Partition(n, cfg.Folds, cfg.Seed)
	require.NoError(t, err)

	// only the samples of the first fold are positive
	y := make([]int, n)
	for _, idx := range folds[0] {
		y[idx] = 1
	}
	x := make([][]float64, n)
	for i := range x {
		x[i] = []float64{float64(2*y[i] - 1), float64(i) / float64(n)}
	}
	ds, err := model.NewDataset(nil, x, y)
	require.NoError(t, err)

	report, err := CrossValidate(ds, cfg)
	require.NoError(t, err)

	for i := 1; i < len(report.Folds); i++ {
		score := report.Folds[i].Score
		assert.Equal(t, 0.0, score.Recall)
		assert.Equal(t, 0.0, score.F1)
		assert.Equal(t, 0.0, score.Precision)
	}
}

func TestCrossValidate_Errors(t *testing.T) {

	type test struct {
		ds  model.Dataset
		cfg func(cfg Config) Config
		err error
	}

	tests := map[string]test{
		"folds": {
			ds: blobs(t, 10, 1),
			cfg: func(cfg Config) Config {
				cfg.Folds = 1
				return cfg
			},
			err: model.InvalidHyperparameterErr,
		},
		"learning-rate": {
			ds: blobs(t, 10, 1),
			cfg: func(cfg Config) Config {
				cfg.SVM.LearningRate = 0
				return cfg
			},
			err: model.InvalidHyperparameterErr,
		},
		"empty": {
			ds:  model.Dataset{},
			cfg: func(cfg Config) Config { return cfg },
			err: model.EmptyDatasetErr,
		},
		"too-few-samples": {
			ds:  blobs(t, 3, 1),
			cfg: func(cfg Config) Config { return cfg },
			err: model.EmptyDatasetErr,
		},
		"shape": {
			ds: model.Dataset{
				X: [][]float64{{1, 2}, {3, 4}},
				Y: []int{1},
			},
			cfg: func(cfg Config) Config { return cfg },
			err: model.ShapeMismatchErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := CrossValidate(tt.ds, tt.cfg(testConfig()))
			assert.True(t, errors.Is(err, tt.err), err)
		})
	}
}
