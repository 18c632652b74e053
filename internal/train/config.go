package train

import (
	"fmt"

	"github.com/drakos74/diabetes-risk/internal/math/ml"
	"github.com/drakos74/diabetes-risk/internal/model"
)

// Config defines the svm training and cross validation parameters.
type Config struct {
	SVM   ml.SVMConfig `json:"svm"`
	Folds int          `json:"folds"`
	Seed  uint64       `json:"seed"`
	// Workers limits the folds trained in parallel, 0 means one worker per fold.
	Workers int `json:"workers"`
}

// DefaultConfig returns the default training config.
func DefaultConfig() Config {
	return Config{
		SVM:   ml.DefaultSVMConfig(),
		Folds: 5,
		Seed:  42,
	}
}

func (c Config) Validate() error {
	if err := c.SVM.Validate(); err != nil {
		return err
	}
	if c.Folds < 2 {
		return fmt.Errorf("%d folds: %w", c.Folds, model.InvalidHyperparameterErr)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%d workers: %w", c.Workers, model.InvalidHyperparameterErr)
	}
	return nil
}
