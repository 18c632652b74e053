package ml

import (
	"fmt"

	"github.com/drakos74/diabetes-risk/internal/model"
	randomforest "github.com/malaschitz/randomForest"
	"github.com/rs/zerolog/log"
)

// RandomForest is a random forest classifier used as a baseline against the svm.
type RandomForest struct {
	trees  int
	dim    int
	forest *randomforest.Forest
}

// NewForest creates a new random forest with n trees.
func NewForest(n int) (*RandomForest, error) {
	if n <= 0 {
		return nil, fmt.Errorf("trees %d: %w", n, model.InvalidHyperparameterErr)
	}
	return &RandomForest{
		trees: n,
	}, nil
}

// Fit trains the forest and returns the feature importance.
func (rf *RandomForest) Fit(x [][]float64, y []int) ([]float64, error) {
	if err := model.Validate(x, y); err != nil {
		return nil, fmt.Errorf("could not fit forest: %w", err)
	}
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: x, Class: model.Binary(y)}
	forest.Train(rf.trees)
	rf.forest = forest
	rf.dim = len(x[0])
	log.Debug().
		Int("trees", rf.trees).
		Int("samples", len(x)).
		Floats64("importance", forest.FeatureImportance).
		Msg("forest trained")
	return forest.FeatureImportance, nil
}

// Predict classifies every sample into {-1,+1} by majority vote.
// A tie is classified as positive.
func (rf *RandomForest) Predict(x [][]float64) ([]int, error) {
	if rf.forest == nil {
		return nil, model.NotTrainedErr
	}
	n, err := model.Dimension(x)
	if err != nil {
		return nil, err
	}
	if n != rf.dim {
		return nil, fmt.Errorf("%d features for a forest of %d: %w", n, rf.dim, model.ShapeMismatchErr)
	}
	yy := make([]int, len(x))
	for i, xi := range x {
		vote := rf.forest.Vote(xi)
		// a forest trained on negatives only has a single class
		if len(vote) < 2 || vote[1] < vote[0] {
			yy[i] = model.Negative
		} else {
			yy[i] = model.Positive
		}
	}
	return yy, nil
}
