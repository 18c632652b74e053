package ml

// Metadata collects information on a training run.
type Metadata struct {
	Samples  int
	Features []float64
	Loss     []float64
}

func NewMetadata() Metadata {
	return Metadata{
		Features: make([]float64, 0),
		Loss:     make([]float64, 0),
	}
}
