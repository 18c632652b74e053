package data

import (
	"fmt"

	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/go-gota/gota/dataframe"
	"github.com/rs/zerolog/log"
)

// Result holds the outcome of the preprocessing.
type Result struct {
	Train        model.Dataset
	Test         model.Dataset
	Correlations []Correlation
	Selected     []string
}

// Preprocess loads the csv file of the config and prepares the train and test datasets.
func Preprocess(cfg Config) (Result, error) {
	df, err := ReadFile(cfg.File)
	if err != nil {
		return Result{}, err
	}
	return Prepare(df, cfg)
}

// Prepare runs the preprocessing steps on the given dataframe.
func Prepare(df dataframe.DataFrame, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid preprocessing config: %w", err)
	}

	rows := df.Nrow()
	df, err := Sample(df, cfg.Percentage, cfg.Seed)
	if err != nil {
		return Result{}, err
	}
	df, err = DropNA(df)
	if err != nil {
		return Result{}, err
	}
	log.Info().
		Int("rows", rows).
		Int("sample", df.Nrow()).
		Float64("percentage", cfg.Percentage).
		Msg("loaded data")

	ds, err := Extract(df, cfg.Target, cfg.Drop...)
	if err != nil {
		return Result{}, fmt.Errorf("could not extract features: %w", err)
	}

	result := Result{
		Correlations: Correlations(ds),
	}
	result.Selected = Selected(result.Correlations, cfg.Threshold)
	log.Info().
		Strs("features", result.Selected).
		Float64("threshold", cfg.Threshold).
		Bool("applied", cfg.Select).
		Msg("selected features based on correlation")
	if cfg.Select {
		ds, err = Select(ds, result.Selected)
		if err != nil {
			return Result{}, err
		}
	}

	ds = Scale(ds, cfg.Scale)

	if cfg.Balance {
		pos, neg := ds.Count()
		ds = Balance(ds, cfg.Seed)
		bpos, bneg := ds.Count()
		log.Info().
			Int("positive", pos).
			Int("negative", neg).
			Int("balanced-positive", bpos).
			Int("balanced-negative", bneg).
			Msg("balanced classes")
	}

	if cfg.TestRatio == 0 {
		result.Train = ds
		return result, nil
	}

	result.Train, result.Test, err = Split(ds, cfg.TestRatio, cfg.Seed)
	if err != nil {
		return Result{}, err
	}
	log.Info().
		Int("train", result.Train.Len()).
		Int("test", result.Test.Len()).
		Msg("split data")
	return result, nil
}
