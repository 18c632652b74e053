package train

import (
	"errors"
	"fmt"
	"time"

	"github.com/drakos74/diabetes-risk/internal/math/ml"
	"github.com/drakos74/diabetes-risk/internal/metrics"
	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/drakos74/diabetes-risk/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PersistenceErr marks failures to store the trained model or the test set.
var PersistenceErr = errors.New("could not persist")

var (
	modelKey = storage.Key{
		Pair:  "svm",
		Label: "model",
	}
	featuresKey = storage.Key{
		Pair:  "test",
		Label: "features",
	}
	labelsKey = storage.Key{
		Pair:  "test",
		Label: "labels",
	}
)

// Artifact is the persisted form of a trained svm.
type Artifact struct {
	ID        uuid.UUID `json:"id"`
	Features  []string  `json:"features"`
	Params    ml.Params `json:"params"`
	TrainedAt time.Time `json:"trained_at"`
}

// Result is the outcome of the final training.
type Result struct {
	Artifact Artifact `json:"artifact"`
	Score    ml.Score `json:"score"`
	Loss     float64  `json:"loss"`
}

// Pipeline trains the final svm on the full training set and evaluates it on the test set.
type Pipeline struct {
	cfg   Config
	shard storage.Shard
}

// NewPipeline creates a new pipeline persisting into the given shard.
func NewPipeline(cfg Config, shard storage.Shard) (*Pipeline, error) {
	if err := cfg.SVM.Validate(); err != nil {
		return nil, fmt.Errorf("invalid training config: %w", err)
	}
	return &Pipeline{
		cfg:   cfg,
		shard: shard,
	}, nil
}

// Run fits the svm on train, persists the model and the test set and evaluates the model on test.
// A persistence error wraps PersistenceErr and is returned together with the evaluated result.
// Any other error comes with an empty result.
func (p *Pipeline) Run(train, test model.Dataset) (Result, error) {
	if err := model.Validate(train.X, train.Y); err != nil {
		return Result{}, fmt.Errorf("invalid train set: %w", err)
	}
	if err := model.Validate(test.X, test.Y); err != nil {
		return Result{}, fmt.Errorf("invalid test set: %w", err)
	}
	if train.Dim() != test.Dim() {
		return Result{}, fmt.Errorf("%d test features for %d train features: %w", test.Dim(), train.Dim(), model.ShapeMismatchErr)
	}
	svm, err := ml.NewSVM(p.cfg.SVM)
	if err != nil {
		return Result{}, err
	}
	if err := svm.Fit(train.X, train.Y); err != nil {
		return Result{}, fmt.Errorf("could not train final model: %w", err)
	}
	metrics.Observer.Fit(metrics.SVM, metrics.Test)

	result := Result{
		Artifact: Artifact{
			ID:        uuid.New(),
			Features:  train.Features,
			Params:    svm.Params(),
			TrainedAt: time.Now(),
		},
	}

	storeErr := p.store(result.Artifact, test)

	prediction, err := svm.Predict(test.X)
	if err != nil {
		return Result{}, fmt.Errorf("could not predict test set: %w", err)
	}
	result.Score, err = ml.Evaluate(test.Y, prediction)
	if err != nil {
		return Result{}, fmt.Errorf("could not evaluate test set: %w", err)
	}
	result.Loss, err = svm.Loss(test.X, test.Y)
	if err != nil {
		return Result{}, fmt.Errorf("could not compute test loss: %w", err)
	}
	metrics.Observer.Score(metrics.SVM, metrics.Test, metrics.NoFold, result.Score)
	metrics.Observer.Loss(metrics.SVM, metrics.Test, metrics.NoFold, result.Loss)

	log.Info().
		Str("id", result.Artifact.ID.String()).
		Int("train", train.Len()).
		Int("test", test.Len()).
		Float64("loss", result.Loss).
		Str("score", result.Score.String()).
		Msg("final model")

	return result, storeErr
}

func (p *Pipeline) store(artifact Artifact, test model.Dataset) error {
	table, err := p.shard(storage.ModelDir)
	if err != nil {
		return fmt.Errorf("could not open storage: %w: %w", err, PersistenceErr)
	}
	var errs []error
	if err := table.Store(modelKey, artifact); err != nil {
		errs = append(errs, fmt.Errorf("could not store model: %w", err))
	}
	if err := table.Store(featuresKey, test.X); err != nil {
		errs = append(errs, fmt.Errorf("could not store test features: %w", err))
	}
	if err := table.Store(labelsKey, test.Y); err != nil {
		errs = append(errs, fmt.Errorf("could not store test labels: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", PersistenceErr, errors.Join(errs...))
	}
	return nil
}

// LoadModel loads the persisted svm from the given shard.
func LoadModel(shard storage.Shard) (*ml.SVM, Artifact, error) {
	table, err := shard(storage.ModelDir)
	if err != nil {
		return nil, Artifact{}, fmt.Errorf("could not open storage: %w", err)
	}
	var artifact Artifact
	if err := table.Load(modelKey, &artifact); err != nil {
		return nil, Artifact{}, fmt.Errorf("could not load model: %w", err)
	}
	svm, err := ml.FromParams(artifact.Params)
	if err != nil {
		return nil, artifact, fmt.Errorf("could not restore model: %w", err)
	}
	return svm, artifact, nil
}

// LoadTest loads the persisted test set from the given shard.
func LoadTest(shard storage.Shard) (model.Dataset, error) {
	table, err := shard(storage.ModelDir)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("could not open storage: %w", err)
	}
	var x [][]float64
	if err := table.Load(featuresKey, &x); err != nil {
		return model.Dataset{}, fmt.Errorf("could not load test features: %w", err)
	}
	var y []int
	if err := table.Load(labelsKey, &y); err != nil {
		return model.Dataset{}, fmt.Errorf("could not load test labels: %w", err)
	}
	return model.NewDataset(nil, x, y)
}
