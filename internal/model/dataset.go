package model

import (
	"fmt"
	"math"
)

const (
	// Negative is the negative class in the signed label convention.
	Negative = -1
	// Positive is the positive class in the signed label convention.
	Positive = 1
)

// Dataset is a feature matrix with one label per row.
// Features holds the column names in the order of the row values.
type Dataset struct {
	Features []string    `json:"features"`
	X        [][]float64 `json:"x"`
	Y        []int       `json:"y"`
}

// NewDataset validates the given matrix and labels and wraps them in a dataset.
// Features can be empty, in which case the columns stay anonymous.
func NewDataset(features []string, x [][]float64, y []int) (Dataset, error) {
	if err := Validate(x, y); err != nil {
		return Dataset{}, err
	}
	if len(features) > 0 && len(features) != len(x[0]) {
		return Dataset{}, fmt.Errorf("%d feature names for %d columns: %w", len(features), len(x[0]), ShapeMismatchErr)
	}
	return Dataset{
		Features: features,
		X:        x,
		Y:        y,
	}, nil
}

// Validate checks that x is a non-empty, rectangular matrix of finite values
// with exactly one label per row.
func Validate(x [][]float64, y []int) error {
	if _, err := Dimension(x); err != nil {
		return err
	}
	if len(x) != len(y) {
		return fmt.Errorf("%d rows for %d labels: %w", len(x), len(y), ShapeMismatchErr)
	}
	return nil
}

// Dimension returns the length of the rows of x.
// Returns an error if rows of different length or non-finite values are found
// or there are no rows.
func Dimension(x [][]float64) (int, error) {
	if len(x) == 0 {
		return 0, fmt.Errorf("no rows: %w", EmptyDatasetErr)
	}
	n := len(x[0])
	if n == 0 {
		return 0, fmt.Errorf("no columns: %w", EmptyDatasetErr)
	}
	for i, xi := range x {
		if len(xi) != n {
			return 0, fmt.Errorf("row %d has %d values instead of %d: %w", i, len(xi), n, ShapeMismatchErr)
		}
		for j, v := range xi {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("row %d column %d is %v: %w", i, j, v, InvalidValueErr)
			}
		}
	}
	return n, nil
}

// Sign maps labels to {-1,+1}. Anything <= 0 is the negative class.
func Sign(y []int) []float64 {
	s := make([]float64, len(y))
	for i, v := range y {
		if v <= 0 {
			s[i] = Negative
		} else {
			s[i] = Positive
		}
	}
	return s
}

// Binary maps labels to {0,1}. Anything <= 0 is the negative class.
func Binary(y []int) []int {
	b := make([]int, len(y))
	for i, v := range y {
		if v > 0 {
			b[i] = 1
		}
	}
	return b
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.X)
}

// Dim returns the number of features.
func (d Dataset) Dim() int {
	if len(d.X) == 0 {
		return len(d.Features)
	}
	return len(d.X[0])
}

// Subset creates a dataset with the rows at the given indices.
// Rows are shared with the original dataset.
func (d Dataset) Subset(idx []int) Dataset {
	x := make([][]float64, len(idx))
	y := make([]int, len(idx))
	for i, j := range idx {
		x[i] = d.X[j]
		y[i] = d.Y[j]
	}
	return Dataset{
		Features: d.Features,
		X:        x,
		Y:        y,
	}
}

// Column returns a copy of the values of the named feature.
func (d Dataset) Column(name string) ([]float64, error) {
	for j, f := range d.Features {
		if f == name {
			c := make([]float64, len(d.X))
			for i, row := range d.X {
				c[i] = row[j]
			}
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown feature '%s'", name)
}

// Count returns the number of positive and negative samples.
func (d Dataset) Count() (pos, neg int) {
	for _, v := range d.Y {
		if v > 0 {
			pos++
		} else {
			neg++
		}
	}
	return pos, neg
}
