package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// survey generates a csv with n rows where every 4th row is positive.
// The given rows have a missing BMI value.
func survey(n int, missing ...int) string {
	var sb strings.Builder
	sb.WriteString("Diabetes_binary,HighBP,BMI,Stroke,Age\n")
	for i := 0; i < n; i++ {
		var pos int
		if i%4 == 0 {
			pos = 1
		}
		bmi := fmt.Sprintf("%d", 20+i%30)
		for _, m := range missing {
			if m == i {
				bmi = ""
			}
		}
		sb.WriteString(fmt.Sprintf("%d.0,%d,%s,%d,%d\n", pos, pos, bmi, i%2, 1+i%13))
	}
	return sb.String()
}

func writeSurvey(t *testing.T, n int, missing ...int) string {
	file := filepath.Join(t.TempDir(), "survey.csv")
	err := os.WriteFile(file, []byte(survey(n, missing...)), 0644)
	require.NoError(t, err)
	return file
}

func TestPreprocess(t *testing.T) {
	cfg := DefaultConfig()
	cfg.File = writeSurvey(t, 100, 7, 13)
	cfg.Percentage = 1.0
	cfg.Scale = []string{"BMI", "Age"}

	result, err := Preprocess(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"HighBP", "BMI", "Age"}, result.Train.Features)
	assert.Equal(t, 116, result.Train.Len())
	assert.Equal(t, 30, result.Test.Len())

	pos, neg := result.Train.Count()
	tpos, tneg := result.Test.Count()
	assert.Equal(t, 73, pos+tpos)
	assert.Equal(t, 73, neg+tneg)

	assert.Contains(t, result.Selected, "HighBP")
	assert.Equal(t, 3, len(result.Correlations))

	for _, ds := range []model.Dataset{result.Train, result.Test} {
		for _, row := range ds.X {
			for _, v := range row {
				assert.True(t, v >= 0 && v <= 1)
			}
		}
	}

	// same seed, same result
	again, err := Preprocess(cfg)
	require.NoError(t, err)
	assert.Equal(t, result.Test, again.Test)
}

func TestPreprocess_Select(t *testing.T) {
	cfg := DefaultConfig()
	cfg.File = writeSurvey(t, 100)
	cfg.Percentage = 0.5
	cfg.Select = true
	cfg.Balance = false
	cfg.TestRatio = 0

	result, err := Preprocess(cfg)
	require.NoError(t, err)
	assert.Equal(t, result.Selected, result.Train.Features)
	assert.Equal(t, 50, result.Train.Len())
	assert.Equal(t, 0, result.Test.Len())
}

func TestPreprocess_Errors(t *testing.T) {

	type test struct {
		cfg func(cfg Config) Config
		err error
	}

	tests := map[string]test{
		"missing-file": {
			cfg: func(cfg Config) Config {
				cfg.File = filepath.Join(t.TempDir(), "missing.csv")
				return cfg
			},
		},
		"percentage": {
			cfg: func(cfg Config) Config {
				cfg.Percentage = 0
				return cfg
			},
			err: model.InvalidHyperparameterErr,
		},
		"ratio": {
			cfg: func(cfg Config) Config {
				cfg.TestRatio = 1
				return cfg
			},
			err: model.InvalidHyperparameterErr,
		},
		"target": {
			cfg: func(cfg Config) Config {
				cfg.Target = "Outcome"
				return cfg
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.File = writeSurvey(t, 20)
			_, err := Preprocess(tt.cfg(cfg))
			assert.Error(t, err)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
			}
		})
	}
}

func TestDropNA(t *testing.T) {
	df, err := Read(strings.NewReader(survey(10, 2, 5)))
	require.NoError(t, err)
	assert.Equal(t, 10, df.Nrow())

	clean, err := DropNA(df)
	require.NoError(t, err)
	assert.Equal(t, 8, clean.Nrow())

	ds, err := Extract(clean, DefaultTarget, "Stroke")
	require.NoError(t, err)
	assert.Equal(t, []string{"HighBP", "BMI", "Age"}, ds.Features)
	bmi, err := ds.Column("BMI")
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 21, 23, 24, 26, 27, 28, 29}, bmi)
}

func TestScale(t *testing.T) {
	ds, err := model.NewDataset([]string{"a", "b", "c"}, [][]float64{
		{1, 5, 10},
		{3, 5, 20},
		{5, 5, 30},
	}, []int{0, 1, 0})
	require.NoError(t, err)

	scaled := Scale(ds, []string{"a", "b", "d"})
	assert.Equal(t, [][]float64{
		{0, 0, 10},
		{0.5, 0, 20},
		{1, 0, 30},
	}, scaled.X)
	// the original is untouched
	assert.Equal(t, []float64{1, 5, 10}, ds.X[0])
}

func TestBalance(t *testing.T) {
	x := make([][]float64, 10)
	y := make([]int, 10)
	for i := range x {
		x[i] = []float64{float64(i)}
		if i < 3 {
			y[i] = 1
		}
	}
	ds, err := model.NewDataset([]string{"i"}, x, y)
	require.NoError(t, err)

	balanced := Balance(ds, 42)
	pos, neg := balanced.Count()
	assert.Equal(t, 7, pos)
	assert.Equal(t, 7, neg)
	for i, row := range balanced.X {
		if balanced.Y[i] == 1 {
			assert.True(t, row[0] < 3)
		}
	}
	assert.Equal(t, balanced, Balance(ds, 42))
}

func TestSplit(t *testing.T) {
	x := make([][]float64, 11)
	y := make([]int, 11)
	for i := range x {
		x[i] = []float64{float64(i)}
	}
	ds, err := model.NewDataset([]string{"i"}, x, y)
	require.NoError(t, err)

	train, test, err := Split(ds, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, 8, train.Len())
	assert.Equal(t, 3, test.Len())

	seen := make(map[float64]bool)
	for _, row := range append(train.X, test.X...) {
		assert.False(t, seen[row[0]])
		seen[row[0]] = true
	}
	assert.Equal(t, 11, len(seen))

	_, _, err = Split(ds, 0, 42)
	assert.True(t, errors.Is(err, model.EmptyDatasetErr))
}

func TestSelect(t *testing.T) {
	ds, err := model.NewDataset([]string{"a", "b"}, [][]float64{{1, 2}, {3, 4}}, []int{0, 1})
	require.NoError(t, err)

	cc := Correlations(ds)
	assert.InDelta(t, 1.0, cc[0].R, 1e-9)
	assert.Equal(t, []string{"a", "b"}, Selected(cc, 0.1))

	selected, err := Select(ds, []string{"b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2}, {4}}, selected.X)

	_, err = Select(ds, []string{"c"})
	assert.Error(t, err)
	_, err = Select(ds, nil)
	assert.True(t, errors.Is(err, model.EmptyDatasetErr))
}
