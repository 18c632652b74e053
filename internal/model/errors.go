package model

import "errors"

var (
	// ShapeMismatchErr is returned when rows, labels or weights disagree in size.
	ShapeMismatchErr = errors.New("shape mismatch")
	// InvalidHyperparameterErr is returned for non-positive rates, iterations or fold counts.
	InvalidHyperparameterErr = errors.New("invalid hyperparameter")
	// EmptyDatasetErr is returned when there are no samples to work with.
	EmptyDatasetErr = errors.New("empty dataset")
	// InvalidValueErr is returned for NaN or infinite feature values.
	InvalidValueErr = errors.New("invalid value")
	// NotTrainedErr is returned when a model is used before it has been fitted.
	NotTrainedErr = errors.New("model not trained")
)
