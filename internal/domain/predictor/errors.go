package predictor

import "errors"

var (
	// ErrNoModel indicates no artifact was supplied.
	ErrNoModel = errors.New("predictor: no model")
	// ErrUnknownFeature indicates the artifact declares a feature the builder does not produce.
	ErrUnknownFeature = errors.New("predictor: unknown feature")
	// ErrInference wraps failures and panics raised by the regressor.
	ErrInference = errors.New("predictor: inference failed")
	// ErrNonFinite indicates the regressor returned NaN or Inf.
	ErrNonFinite = errors.New("predictor: non-finite output")
)
