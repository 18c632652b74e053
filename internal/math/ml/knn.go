package ml

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/knn"
)

const (
	positiveLabel = "pos"
	negativeLabel = "neg"
)

// KNN is a k nearest neighbours classifier used as a baseline against the svm.
type KNN struct {
	k        int
	dim      int
	cls      *knn.KNNClassifier
	template *base.DenseInstances
}

// NewKNN creates a new knn classifier voting on the k nearest samples.
func NewKNN(k int) (*KNN, error) {
	if k <= 0 {
		return nil, fmt.Errorf("neighbours %d: %w", k, model.InvalidHyperparameterErr)
	}
	return &KNN{k: k}, nil
}

// Fit stores the training samples.
func (c *KNN) Fit(x [][]float64, y []int) error {
	if err := model.Validate(x, y); err != nil {
		return fmt.Errorf("could not fit knn: %w", err)
	}
	instances, err := toInstances(x, y, nil)
	if err != nil {
		return err
	}
	cls := knn.NewKnnClassifier("euclidean", "linear", c.k)
	if err := cls.Fit(instances); err != nil {
		log.Error().Err(err).Msg("could not train knn model")
		return err
	}
	c.cls = cls
	c.template = instances
	c.dim = len(x[0])
	return nil
}

// Predict classifies every sample into {-1,+1} by majority vote of the neighbours.
func (c *KNN) Predict(x [][]float64) ([]int, error) {
	if c.cls == nil {
		return nil, model.NotTrainedErr
	}
	n, err := model.Dimension(x)
	if err != nil {
		return nil, err
	}
	if n != c.dim {
		return nil, fmt.Errorf("%d features for a knn of %d: %w", n, c.dim, model.ShapeMismatchErr)
	}
	instances, err := toInstances(x, make([]int, len(x)), c.template)
	if err != nil {
		return nil, err
	}
	predictions, err := c.cls.Predict(instances)
	if err != nil {
		log.Error().Err(err).Msg("could not predict on knn model")
		return nil, err
	}
	yy := make([]int, len(x))
	for i := range yy {
		if base.GetClass(predictions, i) == positiveLabel {
			yy[i] = model.Positive
		} else {
			yy[i] = model.Negative
		}
	}
	return yy, nil
}

// toInstances loads the samples into golearn instances through a temporary csv file.
func toInstances(x [][]float64, y []int, template *base.DenseInstances) (*base.DenseInstances, error) {
	dir, err := os.MkdirTemp("", "knn")
	if err != nil {
		return nil, fmt.Errorf("could not create dataset dir: %w", err)
	}
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, "dataset.csv")
	if err := toFeatureFile(fn, x, y); err != nil {
		return nil, err
	}
	if template == nil {
		return base.ParseCSVToInstances(fn, true)
	}
	return base.ParseCSVToTemplatedInstances(fn, true, template)
}

func toFeatureFile(fn string, x [][]float64, y []int) error {
	file, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	header := make([]string, len(x[0])+1)
	for j := range x[0] {
		header[j] = fmt.Sprintf("f%d", j)
	}
	header[len(x[0])] = "class"
	_, _ = writer.WriteString(strings.Join(header, ",") + "\n")

	for i, row := range x {
		lw := new(strings.Builder)
		for _, v := range row {
			lw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			lw.WriteString(",")
		}
		if y[i] > 0 {
			lw.WriteString(positiveLabel)
		} else {
			lw.WriteString(negativeLabel)
		}
		_, _ = writer.WriteString(lw.String() + "\n")
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("could not write dataset: %w", err)
	}
	return nil
}
