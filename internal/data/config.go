package data

import (
	"fmt"

	"github.com/drakos74/diabetes-risk/internal/model"
)

const (
	DefaultTarget = "Diabetes_binary"
)

// Config defines how the raw survey csv is turned into train and test datasets.
type Config struct {
	File       string   `json:"file"`
	Target     string   `json:"target"`
	Drop       []string `json:"drop"`
	Percentage float64  `json:"percentage"`
	Scale      []string `json:"scale"`
	// Threshold is the minimum absolute correlation with the target for a feature to be selected.
	Threshold float64 `json:"threshold"`
	// Select keeps only the selected features, otherwise the selection is only reported.
	Select    bool    `json:"select"`
	Balance   bool    `json:"balance"`
	TestRatio float64 `json:"test_ratio"`
	Seed      uint64  `json:"seed"`
}

// DefaultConfig returns the default preprocessing config.
func DefaultConfig() Config {
	return Config{
		File:       "diabetes_binary_health_indicators_BRFSS2015.csv",
		Target:     DefaultTarget,
		Drop:       []string{"Stroke"},
		Percentage: 0.1,
		Scale:      []string{"BMI", "MentHlth", "PhysHlth", "Age", "Income", "Education", "GenHlth"},
		Threshold:  0.1,
		Balance:    true,
		TestRatio:  0.2,
		Seed:       42,
	}
}

func (c Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("no target column: %w", model.InvalidHyperparameterErr)
	}
	if c.Percentage <= 0 || c.Percentage > 1 {
		return fmt.Errorf("percentage %v: %w", c.Percentage, model.InvalidHyperparameterErr)
	}
	if c.TestRatio < 0 || c.TestRatio >= 1 {
		return fmt.Errorf("test ratio %v: %w", c.TestRatio, model.InvalidHyperparameterErr)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("threshold %v: %w", c.Threshold, model.InvalidHyperparameterErr)
	}
	return nil
}
