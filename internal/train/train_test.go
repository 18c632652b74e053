package train

import (
	"errors"
	"testing"

	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// blobs generates n samples around (2,2) labeled 1 and (-2,-2) labeled 0, alternating.
func blobs(t *testing.T, n int, seed uint64) model.Dataset {
	r := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		c := -2.0
		if i%2 == 0 {
			c = 2.0
			y[i] = 1
		}
		x[i] = []float64{c + 0.5*r.NormFloat64(), c + 0.5*r.NormFloat64()}
	}
	ds, err := model.NewDataset([]string{"a", "b"}, x, y)
	require.NoError(t, err)
	return ds
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SVM.Iterations = 20
	return cfg
}

var injectedErr = errors.New("disk full")
