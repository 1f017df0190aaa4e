// Package predictor turns a trained regression artifact plus engineered
// features into a non-negative total-medal estimate.
//
// Every failure (missing model, unknown feature, regressor error or panic,
// non-finite output) is returned as an error wrapping one of the sentinels in
// errors.go. Callers treat any error as "absent" and fall back.
package predictor

import (
	"fmt"
	"math"
)

// Model is a loaded artifact: a feature contract, a companion scaler and a
// regressor.
type Model interface {
	// FeatureColumns is the ordered list of features the regressor expects.
	FeatureColumns() []string
	// Transform applies the companion scaler; identity when there is none.
	Transform(x []float64) ([]float64, error)
	// Predict evaluates the regressor on one scaled row.
	Predict(x []float64) (float64, error)
}

// Predict evaluates m on f and clamps the result at zero.
func Predict(f Features, m Model) (total float64, err error) {
	if m == nil {
		return 0, ErrNoModel
	}
	defer func() {
		if r := recover(); r != nil {
			total, err = 0, fmt.Errorf("%w: panic: %v", ErrInference, r)
		}
	}()

	x, err := f.Vector(m.FeatureColumns())
	if err != nil {
		return 0, err
	}
	scaled, err := m.Transform(x)
	if err != nil {
		return 0, fmt.Errorf("%w: scaler: %w", ErrInference, err)
	}
	y, err := m.Predict(scaled)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInference, err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, ErrNonFinite
	}
	return math.Max(0, y), nil
}
