package ml

import (
	"fmt"

	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// SVMConfig defines the hyperparameters of the linear svm.
// LearningRate is the step size of every sub-gradient update
// Lambda is the regularisation strength
// Iterations is the number of full passes over the training samples
// Monitor computes the hinge loss every Monitor passes, 0 disables it
type SVMConfig struct {
	LearningRate float64 `json:"learning_rate"`
	Lambda       float64 `json:"lambda"`
	Iterations   int     `json:"iterations"`
	Monitor      int     `json:"monitor,omitempty"`
}

// DefaultSVMConfig returns the default svm hyperparameters.
func DefaultSVMConfig() SVMConfig {
	return SVMConfig{
		LearningRate: 0.001,
		Lambda:       0.01,
		Iterations:   1000,
	}
}

// Validate checks that all hyperparameters are positive.
func (c SVMConfig) Validate() error {
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate %v: %w", c.LearningRate, model.InvalidHyperparameterErr)
	}
	if c.Lambda <= 0 {
		return fmt.Errorf("lambda %v: %w", c.Lambda, model.InvalidHyperparameterErr)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations %v: %w", c.Iterations, model.InvalidHyperparameterErr)
	}
	if c.Monitor < 0 {
		return fmt.Errorf("monitor %v: %w", c.Monitor, model.InvalidHyperparameterErr)
	}
	return nil
}

// Params are the trained parameters of the svm together with the config that produced them.
type Params struct {
	W      []float64 `json:"w"`
	B      float64   `json:"b"`
	Config SVMConfig `json:"config"`
}

// SVM is a linear support vector machine trained with stochastic sub-gradient descent
// on the regularised hinge loss.
type SVM struct {
	config   SVMConfig
	w        []float64
	b        float64
	metadata Metadata
}

// NewSVM creates a new untrained svm.
func NewSVM(cfg SVMConfig) (*SVM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SVM{
		config:   cfg,
		metadata: NewMetadata(),
	}, nil
}

// FromParams rebuilds a trained svm from its parameters.
func FromParams(p Params) (*SVM, error) {
	svm, err := NewSVM(p.Config)
	if err != nil {
		return nil, err
	}
	if len(p.W) == 0 {
		return nil, fmt.Errorf("no weights: %w", model.NotTrainedErr)
	}
	svm.w = make([]float64, len(p.W))
	copy(svm.w, p.W)
	svm.b = p.B
	return svm, nil
}

func (s *SVM) initialize(n int) {
	s.w = make([]float64, n)
	s.b = 0
	s.metadata = NewMetadata()
}

// Fit trains the svm on the given samples.
// Labels are mapped to {-1,+1}, anything <= 0 being the negative class.
// Samples are visited in the given order on every pass.
func (s *SVM) Fit(x [][]float64, y []int) error {
	if err := model.Validate(x, y); err != nil {
		return fmt.Errorf("could not fit svm: %w", err)
	}
	yy := model.Sign(y)
	s.initialize(len(x[0]))
	for iter := 0; iter < s.config.Iterations; iter++ {
		for i, xi := range x {
			s.b = step(s.w, s.b, xi, yy[i], s.config)
		}
		if s.config.Monitor > 0 && (iter+1)%s.config.Monitor == 0 {
			loss := hingeLoss(s.w, s.b, x, yy)
			s.metadata.Loss = append(s.metadata.Loss, loss)
			log.Debug().
				Int("iteration", iter+1).
				Float64("loss", loss).
				Msg("svm pass")
		}
	}
	s.metadata.Samples = len(x)
	s.metadata.Features = s.Weights()
	return nil
}

// step applies one sub-gradient update for the sample x with label y in {-1,+1}.
// w is updated in place and the new bias is returned.
func step(w []float64, b float64, x []float64, y float64, cfg SVMConfig) float64 {
	margin := y * (floats.Dot(w, x) + b)
	// regularisation applies in both cases
	floats.Scale(1-cfg.LearningRate*2*cfg.Lambda, w)
	if margin >= 1 {
		return b
	}
	floats.AddScaled(w, cfg.LearningRate*y, x)
	return b - cfg.LearningRate*y
}

func hingeLoss(w []float64, b float64, x [][]float64, y []float64) float64 {
	var loss float64
	for i, xi := range x {
		if h := 1 - y[i]*(floats.Dot(w, xi)+b); h > 0 {
			loss += h
		}
	}
	return loss / float64(len(x))
}

func (s *SVM) check(x [][]float64) error {
	if len(s.w) == 0 {
		return model.NotTrainedErr
	}
	n, err := model.Dimension(x)
	if err != nil {
		return err
	}
	if n != len(s.w) {
		return fmt.Errorf("%d features for %d weights: %w", n, len(s.w), model.ShapeMismatchErr)
	}
	return nil
}

// Loss returns the mean hinge loss of the svm on the given samples.
func (s *SVM) Loss(x [][]float64, y []int) (float64, error) {
	if err := s.check(x); err != nil {
		return 0, err
	}
	if len(x) != len(y) {
		return 0, fmt.Errorf("%d rows for %d labels: %w", len(x), len(y), model.ShapeMismatchErr)
	}
	return hingeLoss(s.w, s.b, x, model.Sign(y)), nil
}

// Score returns the signed distance score w.x+b for every sample.
func (s *SVM) Score(x [][]float64) ([]float64, error) {
	if err := s.check(x); err != nil {
		return nil, err
	}
	scores := make([]float64, len(x))
	for i, xi := range x {
		scores[i] = floats.Dot(s.w, xi) + s.b
	}
	return scores, nil
}

// Predict classifies every sample into {-1,+1}.
// A score of exactly zero is classified as positive.
func (s *SVM) Predict(x [][]float64) ([]int, error) {
	scores, err := s.Score(x)
	if err != nil {
		return nil, err
	}
	yy := make([]int, len(scores))
	for i, score := range scores {
		yy[i] = sign(score)
	}
	return yy, nil
}

func sign(f float64) int {
	if f < 0 {
		return model.Negative
	}
	return model.Positive
}

// Weights returns a copy of the weight vector.
func (s *SVM) Weights() []float64 {
	w := make([]float64, len(s.w))
	copy(w, s.w)
	return w
}

// Bias returns the bias.
func (s *SVM) Bias() float64 {
	return s.b
}

// Config returns the svm hyperparameters.
func (s *SVM) Config() SVMConfig {
	return s.config
}

// Params returns a copy of the trained parameters.
func (s *SVM) Params() Params {
	return Params{
		W:      s.Weights(),
		B:      s.b,
		Config: s.config,
	}
}

// Metadata returns the metadata of the last fit.
func (s *SVM) Metadata() Metadata {
	return s.metadata
}
