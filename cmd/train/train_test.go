package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drakos74/diabetes-risk/internal/model"
	jsonstore "github.com/drakos74/diabetes-risk/internal/storage/file/json"
	"github.com/drakos74/diabetes-risk/internal/train"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRunConfig writes a survey csv where every 4th row is positive
// and returns a fast config reading it.
func testRunConfig(t *testing.T) Config {
	var sb strings.Builder
	sb.WriteString("Diabetes_binary,HighBP,BMI,Stroke,Age\n")
	for i := 0; i < 100; i++ {
		var pos int
		if i%4 == 0 {
			pos = 1
		}
		sb.WriteString(fmt.Sprintf("%d.0,%d,%d,%d,%d\n", pos, pos, 20+i%30, i%2, 1+i%13))
	}
	file := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(file, []byte(sb.String()), 0644))

	cfg := defaultConfig()
	cfg.Data.File = file
	cfg.Data.Percentage = 1.0
	cfg.Data.Scale = []string{"BMI", "Age"}
	cfg.Train.SVM.Iterations = 10
	cfg.Trees = 10
	cfg.Storage = t.TempDir()
	return cfg
}

func TestExecute(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.Models.Forest = true

	run, err := execute(cfg)
	require.NoError(t, err)
	assert.Equal(t, 30, run.Test.Samples)
	assert.Equal(t, 120, run.Samples)
	assert.Equal(t, 120, run.Mean.Samples)
	require.NotNil(t, run.Forest)
	assert.Equal(t, 30, run.Forest.Samples)
	assert.Nil(t, run.Network)
	assert.Nil(t, run.KNN)

	_, artifact, err := train.LoadModel(jsonstore.RootShard(cfg.Storage, svmTable))
	require.NoError(t, err)
	assert.Equal(t, run.ID, artifact.ID)
}

func TestExecute_NoTestSet(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.Data.TestRatio = 0

	run, err := execute(cfg)
	assert.True(t, errors.Is(err, model.EmptyDatasetErr))
	assert.False(t, errors.Is(err, train.PersistenceErr))
	assert.Equal(t, train.Run{}, run)

	// no model is stored without a test set
	_, _, err = train.LoadModel(jsonstore.RootShard(cfg.Storage, svmTable))
	assert.Error(t, err)
}
