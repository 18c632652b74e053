package ml

import (
	"errors"
	"testing"

	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {

	type test struct {
		yTrue []int
		yPred []int
		score Score
	}

	tests := map[string]test{
		"perfect": {
			yTrue: []int{1, -1, 1, -1},
			yPred: []int{1, -1, 1, -1},
			score: Score{Accuracy: 1, Precision: 1, Recall: 1, F1: 1, Samples: 4},
		},
		"mixed": {
			yTrue: []int{1, 1, 1, -1, -1},
			yPred: []int{1, -1, 1, 1, -1},
			score: Score{Accuracy: 0.6, Precision: 2.0 / 3, Recall: 2.0 / 3, F1: 2.0 / 3, Samples: 5},
		},
		"no-actual-positives": {
			yTrue: []int{-1, -1, -1, -1},
			yPred: []int{1, -1, -1, -1},
			score: Score{Accuracy: 0.75, Samples: 4},
		},
		"no-predicted-positives": {
			yTrue: []int{1, -1, 1, -1},
			yPred: []int{-1, -1, -1, -1},
			score: Score{Accuracy: 0.5, Samples: 4},
		},
		"all-wrong": {
			yTrue: []int{1, -1},
			yPred: []int{-1, 1},
			score: Score{Accuracy: 0, Samples: 2},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			score, err := Evaluate(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.score.Accuracy, score.Accuracy, 1e-9)
			assert.InDelta(t, tt.score.Precision, score.Precision, 1e-9)
			assert.InDelta(t, tt.score.Recall, score.Recall, 1e-9)
			assert.InDelta(t, tt.score.F1, score.F1, 1e-9)
			assert.Equal(t, tt.score.Samples, score.Samples)

			// same results in the {0,1} convention
			binary, err := Evaluate(model.Binary(tt.yTrue), model.Binary(tt.yPred))
			require.NoError(t, err)
			assert.Equal(t, score, binary)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := Evaluate([]int{1, -1}, []int{1})
	assert.True(t, errors.Is(err, model.ShapeMismatchErr))

	_, err = Evaluate([]int{}, []int{})
	assert.True(t, errors.Is(err, model.EmptyDatasetErr))
}

func TestMean(t *testing.T) {
	scores := []Score{
		{Accuracy: 0.5, Precision: 0.2, Recall: 1, F1: 0.4, Samples: 10},
		{Accuracy: 0.7, Precision: 0.4, Recall: 0, F1: 0.6, Samples: 10},
		{Accuracy: 0.9, Precision: 0.6, Recall: 0.5, F1: 0.8, Samples: 11},
	}
	mean := Mean(scores)
	assert.InDelta(t, 0.7, mean.Accuracy, 1e-12)
	assert.InDelta(t, 0.4, mean.Precision, 1e-12)
	assert.InDelta(t, 0.5, mean.Recall, 1e-12)
	assert.InDelta(t, 0.6, mean.F1, 1e-12)
	assert.Equal(t, 31, mean.Samples)

	std := StdDev(scores)
	assert.InDelta(t, 0.2, std.Accuracy, 1e-12)
	assert.InDelta(t, 0.5, std.Recall, 1e-12)

	assert.Equal(t, Score{}, Mean(nil))
}

func TestScore_String(t *testing.T) {
	s := Score{Accuracy: 0.5, Recall: 0.25, F1: 0.125, Precision: 1}
	assert.Equal(t, "accuracy=50.00% recall=25.00% f1=12.50% precision=100.00%", s.String())
}
