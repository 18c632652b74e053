package train

import (
	"fmt"
	"sort"

	"github.com/drakos74/diabetes-risk/internal/model"
	"golang.org/x/exp/rand"
)

// Folds is a partition of sample indices into disjoint groups.
type Folds [][]int

// Partition shuffles the indices 0..n-1 with the given seed and splits them into k groups.
// The first n%k groups hold one sample more than the rest.
func Partition(n, k int, seed uint64) (Folds, error) {
	if k < 2 {
		return nil, fmt.Errorf("%d folds: %w", k, model.InvalidHyperparameterErr)
	}
	if n < k {
		return nil, fmt.Errorf("%d samples for %d folds: %w", n, k, model.EmptyDatasetErr)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make(Folds, k)
	var start int
	for i := range folds {
		size := n / k
		if i < n%k {
			size++
		}
		folds[i] = perm[start : start+size]
		start += size
	}
	return folds, nil
}

// Split returns the training and validation indices for the i-th fold.
// Training indices are in ascending order.
func (f Folds) Split(i int) (train, validation []int) {
	train = make([]int, 0)
	for j, fold := range f {
		if j == i {
			validation = fold
			continue
		}
		train = append(train, fold...)
	}
	sort.Ints(train)
	return train, validation
}
