package ml

import (
	"fmt"
	"math"

	"github.com/drakos74/diabetes-risk/internal/model"
	xml "github.com/drakos74/go-ex-machina/xmachina/ml"
	xnet "github.com/drakos74/go-ex-machina/xmachina/net"
	"github.com/drakos74/go-ex-machina/xmachina/net/ff"
	"github.com/drakos74/go-ex-machina/xmath"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// NetworkConfig defines the feed forward network config.
// Hidden defines the size of every hidden layer
// LearningRate defines the learning rate for weights and biases
// Epochs defines the number of passes over the training set
// Threshold defines the output probability above which a sample is positive
// Report defines every how many epochs the validation metrics are logged
type NetworkConfig struct {
	Hidden       []int   `json:"hidden"`
	LearningRate float64 `json:"learning_rate"`
	Epochs       int     `json:"epochs"`
	Threshold    float64 `json:"threshold"`
	Report       int     `json:"report"`
}

// DefaultNetworkConfig returns the default network config.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		Hidden:       []int{256, 64},
		LearningRate: 0.1,
		Epochs:       200,
		Threshold:    0.5,
		Report:       10,
	}
}

// Validate checks the network config.
func (c NetworkConfig) Validate() error {
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate %v: %w", c.LearningRate, model.InvalidHyperparameterErr)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs %v: %w", c.Epochs, model.InvalidHyperparameterErr)
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("threshold %v: %w", c.Threshold, model.InvalidHyperparameterErr)
	}
	for _, h := range c.Hidden {
		if h <= 0 {
			return fmt.Errorf("hidden layer size %v: %w", h, model.InvalidHyperparameterErr)
		}
	}
	return nil
}

// NeuralNet is a feed forward network with a single sigmoid output,
// trained online on one sample at a time.
type NeuralNet struct {
	cfg  NetworkConfig
	dim  int
	net  *ff.Network
	rand *rand.Rand
}

// NewNeuralNet creates a new network for inputs of the given dimension.
// The seed drives the sample order of every epoch.
func NewNeuralNet(dim int, cfg NetworkConfig, seed uint64) (*NeuralNet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dim <= 0 {
		return nil, fmt.Errorf("input size %d: %w", dim, model.ShapeMismatchErr)
	}
	rate := xml.Learn(cfg.LearningRate, cfg.LearningRate)

	initW := xmath.Rand(-1, 1, math.Sqrt)
	initB := xmath.Rand(-1, 1, math.Sqrt)
	network := ff.New(dim, 1)
	for _, h := range cfg.Hidden {
		network.Add(h, xnet.NewBuilder().
			WithModule(xml.Base().
				WithRate(rate).
				WithActivation(xml.TanH)).
			WithWeights(initW, initB).
			Factory(xnet.NewActivationCell))
	}
	network.Add(1, xnet.NewBuilder().
		WithModule(xml.Base().
			WithRate(rate).
			WithActivation(xml.Sigmoid)).
		WithWeights(initW, initB).
		Factory(xnet.NewActivationCell))
	network.Loss(xml.Pow)

	return &NeuralNet{
		cfg:  cfg,
		dim:  dim,
		net:  network,
		rand: rand.New(rand.NewSource(seed)),
	}, nil
}

// Fit trains the network and returns the average training loss of every epoch.
// The validation set is optional and only used for reporting.
func (n *NeuralNet) Fit(train, validation model.Dataset) ([]float64, error) {
	if err := model.Validate(train.X, train.Y); err != nil {
		return nil, fmt.Errorf("could not fit network: %w", err)
	}
	if train.Dim() != n.dim {
		return nil, fmt.Errorf("%d features for a network of %d: %w", train.Dim(), n.dim, model.ShapeMismatchErr)
	}
	yy := model.Binary(train.Y)
	losses := make([]float64, n.cfg.Epochs)
	for e := 0; e < n.cfg.Epochs; e++ {
		var cumulative float64
		for _, i := range n.rand.Perm(train.Len()) {
			loss, _ := n.net.Train(n.input(train.X[i]), xmath.Vec(1).With(float64(yy[i])))
			cumulative += loss.Sum()
		}
		losses[e] = cumulative / float64(train.Len())

		if n.cfg.Report > 0 && e%n.cfg.Report == 0 && e != 0 && validation.Len() > 0 {
			pred, err := n.Predict(validation.X)
			if err != nil {
				return losses, fmt.Errorf("could not validate epoch %d: %w", e, err)
			}
			score, err := Evaluate(validation.Y, pred)
			if err != nil {
				return losses, fmt.Errorf("could not evaluate epoch %d: %w", e, err)
			}
			log.Info().
				Int("epoch", e).
				Float64("loss", losses[e]).
				Float64("accuracy", score.Accuracy).
				Float64("recall", score.Recall).
				Float64("f1", score.F1).
				Msg("network validation")
		}
	}
	return losses, nil
}

func (n *NeuralNet) input(x []float64) xmath.Vector {
	return xmath.Vec(len(x)).With(x...)
}

// Probability returns the network output for every sample.
func (n *NeuralNet) Probability(x [][]float64) ([]float64, error) {
	d, err := model.Dimension(x)
	if err != nil {
		return nil, err
	}
	if d != n.dim {
		return nil, fmt.Errorf("%d features for a network of %d: %w", d, n.dim, model.ShapeMismatchErr)
	}
	pp := make([]float64, len(x))
	for i, xi := range x {
		pp[i] = n.net.Predict(n.input(xi))[0]
	}
	return pp, nil
}

// Predict classifies every sample into {-1,+1} based on the threshold.
func (n *NeuralNet) Predict(x [][]float64) ([]int, error) {
	pp, err := n.Probability(x)
	if err != nil {
		return nil, err
	}
	yy := make([]int, len(pp))
	for i, p := range pp {
		if p >= n.cfg.Threshold {
			yy[i] = model.Positive
		} else {
			yy[i] = model.Negative
		}
	}
	return yy, nil
}
