package ml

import (
	"fmt"

	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/sjwhitworth/golearn/evaluation"
	"gonum.org/v1/gonum/stat"
)

const (
	positiveClass = "1"
	negativeClass = "0"
)

// Score holds the binary classification metrics of a set of predictions.
type Score struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Samples   int     `json:"samples"`
}

func (s Score) String() string {
	return fmt.Sprintf("accuracy=%.2f%% recall=%.2f%% f1=%.2f%% precision=%.2f%%",
		100*s.Accuracy, 100*s.Recall, 100*s.F1, 100*s.Precision)
}

// Evaluate compares the predictions against the ground truth.
// Labels <= 0 count as the negative class, so both {-1,+1} and {0,1} labels are accepted.
// Precision, recall and f1 fall back to 0 when their denominator is 0.
func Evaluate(yTrue, yPred []int) (Score, error) {
	if len(yTrue) != len(yPred) {
		return Score{}, fmt.Errorf("%d labels for %d predictions: %w", len(yTrue), len(yPred), model.ShapeMismatchErr)
	}
	if len(yTrue) == 0 {
		return Score{}, fmt.Errorf("nothing to evaluate: %w", model.EmptyDatasetErr)
	}
	cm := confusion(model.Binary(yTrue), model.Binary(yPred))
	score := Score{
		Accuracy: evaluation.GetAccuracy(cm),
		Samples:  len(yTrue),
	}
	// with no true positives precision, recall and f1 are either 0 or undefined
	if evaluation.GetTruePositives(positiveClass, cm) > 0 {
		score.Precision = evaluation.GetPrecision(positiveClass, cm)
		score.Recall = evaluation.GetRecall(positiveClass, cm)
		score.F1 = evaluation.GetF1Score(positiveClass, cm)
	}
	return score, nil
}

// confusion builds the confusion matrix indexed by reference and then predicted class.
func confusion(yTrue, yPred []int) evaluation.ConfusionMatrix {
	cm := evaluation.ConfusionMatrix{
		positiveClass: {positiveClass: 0, negativeClass: 0},
		negativeClass: {positiveClass: 0, negativeClass: 0},
	}
	for i := range yTrue {
		cm[class(yTrue[i])][class(yPred[i])]++
	}
	return cm
}

func class(y int) string {
	if y > 0 {
		return positiveClass
	}
	return negativeClass
}

// Mean returns the element-wise mean of the given scores.
func Mean(scores []Score) Score {
	return aggregate(scores, func(x []float64) float64 {
		return stat.Mean(x, nil)
	})
}

// StdDev returns the element-wise sample standard deviation of the given scores.
func StdDev(scores []Score) Score {
	return aggregate(scores, func(x []float64) float64 {
		if len(x) < 2 {
			return 0
		}
		return stat.StdDev(x, nil)
	})
}

func aggregate(scores []Score, fn func(x []float64) float64) Score {
	if len(scores) == 0 {
		return Score{}
	}
	acc := make([]float64, len(scores))
	prec := make([]float64, len(scores))
	rec := make([]float64, len(scores))
	f1 := make([]float64, len(scores))
	var samples int
	for i, s := range scores {
		acc[i] = s.Accuracy
		prec[i] = s.Precision
		rec[i] = s.Recall
		f1[i] = s.F1
		samples += s.Samples
	}
	return Score{
		Accuracy:  fn(acc),
		Precision: fn(prec),
		Recall:    fn(rec),
		F1:        fn(f1),
		Samples:   samples,
	}
}
