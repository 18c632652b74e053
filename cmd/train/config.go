package main

import (
	"github.com/drakos74/diabetes-risk/internal/data"
	"github.com/drakos74/diabetes-risk/internal/math/ml"
	"github.com/drakos74/diabetes-risk/internal/storage"
	"github.com/drakos74/diabetes-risk/internal/train"
)

// Models selects the models trained next to the svm.
type Models struct {
	Network bool `json:"network"`
	Forest  bool `json:"forest"`
	KNN     bool `json:"knn"`
}

// Config is the full configuration of a training run.
type Config struct {
	Data    data.Config      `json:"data"`
	Train   train.Config     `json:"train"`
	Network ml.NetworkConfig `json:"network"`
	Models  Models           `json:"models"`
	// Validation is the part of the training set held out for the network validation.
	Validation float64 `json:"validation"`
	Trees      int     `json:"trees"`
	Neighbours int     `json:"neighbours"`
	Storage    string  `json:"storage"`
}

func defaultConfig() Config {
	return Config{
		Data:       data.DefaultConfig(),
		Train:      train.DefaultConfig(),
		Network:    ml.DefaultNetworkConfig(),
		Validation: 0.2,
		Trees:      100,
		Neighbours: 10,
		Storage:    storage.DefaultDir,
	}
}
