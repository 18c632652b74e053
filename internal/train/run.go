package train

import (
	"fmt"
	"time"

	"github.com/drakos74/diabetes-risk/internal/math/ml"
	"github.com/drakos74/diabetes-risk/internal/storage"
	"github.com/google/uuid"
)

var runKey = storage.K{
	Pair:  "runs",
	Label: "svm",
}

// Run summarises one end to end training run.
type Run struct {
	ID       uuid.UUID `json:"id"`
	Time     time.Time `json:"time"`
	Samples  int       `json:"samples"`
	Features []string  `json:"features"`
	Config   Config    `json:"config"`
	Mean     ml.Score  `json:"mean"`
	StdDev   ml.Score  `json:"std_dev"`
	Test     ml.Score  `json:"test"`
	Network  *ml.Score `json:"network,omitempty"`
	Forest   *ml.Score `json:"forest,omitempty"`
	KNN      *ml.Score `json:"knn,omitempty"`
}

// NewRun creates the run record for the given cross validation report and final result.
func NewRun(cfg Config, samples int, report Report, result Result) Run {
	return Run{
		ID:       result.Artifact.ID,
		Time:     time.Now(),
		Samples:  samples,
		Features: result.Artifact.Features,
		Config:   cfg,
		Mean:     report.Mean,
		StdDev:   report.StdDev,
		Test:     result.Score,
	}
}

// Record appends the run to the registry.
func Record(registry storage.Registry, run Run) error {
	if err := registry.Add(runKey, run); err != nil {
		return fmt.Errorf("could not record run '%s': %w", run.ID, err)
	}
	return nil
}

// History returns all recorded runs.
func History(registry storage.Registry) ([]Run, error) {
	var runs []Run
	if err := registry.GetAll(runKey, &runs); err != nil {
		return nil, fmt.Errorf("could not load runs: %w", err)
	}
	return runs, nil
}
