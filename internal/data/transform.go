package data

import (
	"fmt"
	"math"
	"sort"

	"github.com/drakos74/diabetes-risk/internal/model"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Correlation is the pearson correlation of a feature with the target.
type Correlation struct {
	Feature string  `json:"feature"`
	R       float64 `json:"r"`
}

// Correlations computes the correlation of every feature with the labels.
// Constant features have a correlation of 0.
func Correlations(ds model.Dataset) []Correlation {
	y := make([]float64, len(ds.Y))
	for i, v := range ds.Y {
		y[i] = float64(v)
	}
	cc := make([]Correlation, len(ds.Features))
	for j, name := range ds.Features {
		x, _ := ds.Column(name)
		r := stat.Correlation(x, y, nil)
		if math.IsNaN(r) {
			r = 0
		}
		cc[j] = Correlation{Feature: name, R: r}
	}
	return cc
}

// Selected returns the features with an absolute correlation above the threshold,
// in the original column order.
func Selected(cc []Correlation, threshold float64) []string {
	features := make([]string, 0)
	for _, c := range cc {
		if math.Abs(c.R) > threshold {
			features = append(features, c.Feature)
		}
	}
	return features
}

// Select keeps only the given features.
func Select(ds model.Dataset, features []string) (model.Dataset, error) {
	if len(features) == 0 {
		return model.Dataset{}, fmt.Errorf("no features selected: %w", model.EmptyDatasetErr)
	}
	cols := make([][]float64, len(features))
	for j, name := range features {
		c, err := ds.Column(name)
		if err != nil {
			return model.Dataset{}, fmt.Errorf("could not select feature: %w", err)
		}
		cols[j] = c
	}
	x := make([][]float64, ds.Len())
	for i := range x {
		x[i] = make([]float64, len(features))
		for j := range features {
			x[i][j] = cols[j][i]
		}
	}
	return model.NewDataset(features, x, ds.Y)
}

// Scale applies min-max scaling to the given features, mapping them into [0,1].
// Constant features are mapped to 0. Unknown features are ignored.
func Scale(ds model.Dataset, features []string) model.Dataset {
	x := make([][]float64, ds.Len())
	for i, row := range ds.X {
		x[i] = make([]float64, len(row))
		copy(x[i], row)
	}
	for j, name := range ds.Features {
		if !has(features, name) {
			continue
		}
		c, _ := ds.Column(name)
		lo, hi := floats.Min(c), floats.Max(c)
		for i := range x {
			if hi > lo {
				x[i][j] = (c[i] - lo) / (hi - lo)
			} else {
				x[i][j] = 0
			}
		}
	}
	return model.Dataset{
		Features: ds.Features,
		X:        x,
		Y:        ds.Y,
	}
}

// Balance up-samples every minority class to the size of the largest class.
// A class is repeated as a whole as many times as it fits and the remainder
// is sampled with replacement.
func Balance(ds model.Dataset, seed uint64) model.Dataset {
	classes := make(map[int][]int)
	for i, v := range ds.Y {
		classes[v] = append(classes[v], i)
	}
	labels := make([]int, 0, len(classes))
	var largest int
	for c, idx := range classes {
		labels = append(labels, c)
		if len(idx) > largest {
			largest = len(idx)
		}
	}
	sort.Ints(labels)

	r := rand.New(rand.NewSource(seed))
	idx := make([]int, 0, largest*len(labels))
	for _, c := range labels {
		cc := classes[c]
		multiplier := largest / len(cc)
		for m := 0; m < multiplier; m++ {
			idx = append(idx, cc...)
		}
		for k := 0; k < largest%len(cc); k++ {
			idx = append(idx, cc[r.Intn(len(cc))])
		}
	}
	return ds.Subset(idx)
}

// Split shuffles the samples and splits them into train and test datasets.
// The test dataset has ceil(n*ratio) samples.
func Split(ds model.Dataset, ratio float64, seed uint64) (train, test model.Dataset, err error) {
	n := ds.Len()
	m := int(math.Ceil(float64(n) * ratio))
	if m == 0 || m >= n {
		return train, test, fmt.Errorf("cannot split %d samples with ratio %v: %w", n, ratio, model.EmptyDatasetErr)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return ds.Subset(perm[m:]), ds.Subset(perm[:m]), nil
}
