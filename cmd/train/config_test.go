package main

import (
	"testing"

	"github.com/drakos74/diabetes-risk/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	cfg := defaultConfig()
	err := config.Load("../../infra/config", "train", &cfg)
	require.NoError(t, err)

	assert.NoError(t, cfg.Data.Validate())
	assert.NoError(t, cfg.Train.Validate())
	assert.NoError(t, cfg.Network.Validate())
	assert.Equal(t, 5, cfg.Train.Folds)
	assert.Equal(t, uint64(42), cfg.Train.Seed)
	assert.Equal(t, 100, cfg.Train.SVM.Monitor)
	assert.Equal(t, []int{256, 64}, cfg.Network.Hidden)
}
