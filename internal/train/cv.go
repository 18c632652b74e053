package train

import (
	"fmt"

	"github.com/drakos74/diabetes-risk/internal/math/ml"
	"github.com/drakos74/diabetes-risk/internal/metrics"
	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// FoldResult is the outcome of training and validating on one fold.
type FoldResult struct {
	Index      int       `json:"index"`
	Train      int       `json:"train"`
	Validation int       `json:"validation"`
	Score      ml.Score  `json:"score"`
	Loss       float64   `json:"loss"`
	Params     ml.Params `json:"params"`
}

// Report collects the fold results and their aggregates.
type Report struct {
	Folds  []FoldResult `json:"folds"`
	Mean   ml.Score     `json:"mean"`
	StdDev ml.Score     `json:"std_dev"`
}

// Scores returns the validation scores in fold order.
func (r Report) Scores() []ml.Score {
	scores := make([]ml.Score, len(r.Folds))
	for i, f := range r.Folds {
		scores[i] = f.Score
	}
	return scores
}

// CrossValidate trains a fresh svm for every fold and evaluates it on the held out samples.
func CrossValidate(ds model.Dataset, cfg Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid training config: %w", err)
	}
	if err := model.Validate(ds.X, ds.Y); err != nil {
		return Report{}, fmt.Errorf("invalid dataset: %w", err)
	}
	folds, err := Partition(ds.Len(), cfg.Folds, cfg.Seed)
	if err != nil {
		return Report{}, err
	}

	results := make([]FoldResult, len(folds))
	g := new(errgroup.Group)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i := range folds {
		i := i
		g.Go(func() error {
			result, err := fold(ds, folds, i, cfg.SVM)
			if err != nil {
				return fmt.Errorf("fold %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("could not cross validate: %w", err)
	}

	report := Report{Folds: results}
	scores := report.Scores()
	report.Mean = ml.Mean(scores)
	report.StdDev = ml.StdDev(scores)
	log.Info().
		Int("folds", len(folds)).
		Str("mean", report.Mean.String()).
		Str("std-dev", report.StdDev.String()).
		Msg("cross validation")
	return report, nil
}

func fold(ds model.Dataset, folds Folds, i int, cfg ml.SVMConfig) (FoldResult, error) {
	trainIdx, validationIdx := folds.Split(i)
	train := ds.Subset(trainIdx)
	validation := ds.Subset(validationIdx)

	if pos, neg := validation.Count(); pos == 0 || neg == 0 {
		log.Warn().
			Int("fold", i).
			Int("positive", pos).
			Int("negative", neg).
			Msg("degenerate fold")
	}

	svm, err := ml.NewSVM(cfg)
	if err != nil {
		return FoldResult{}, err
	}
	if err := svm.Fit(train.X, train.Y); err != nil {
		return FoldResult{}, err
	}
	metrics.Observer.Fit(metrics.SVM, metrics.Validation)

	prediction, err := svm.Predict(validation.X)
	if err != nil {
		return FoldResult{}, err
	}
	score, err := ml.Evaluate(validation.Y, prediction)
	if err != nil {
		return FoldResult{}, err
	}
	loss, err := svm.Loss(validation.X, validation.Y)
	if err != nil {
		return FoldResult{}, err
	}
	metrics.Observer.Score(metrics.SVM, metrics.Validation, i, score)
	metrics.Observer.Loss(metrics.SVM, metrics.Validation, i, loss)

	log.Info().
		Int("fold", i).
		Int("train", train.Len()).
		Int("validation", validation.Len()).
		Float64("loss", loss).
		Str("score", score.String()).
		Msg("fold")

	return FoldResult{
		Index:      i,
		Train:      train.Len(),
		Validation: validation.Len(),
		Score:      score,
		Loss:       loss,
		Params:     svm.Params(),
	}, nil
}
