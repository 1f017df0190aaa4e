// Package artifact loads trained regression artifacts exported by the
// offline training pipeline and evaluates them at inference time.
//
// An artifact is a JSON document holding the feature contract, an optional
// standard scaler and either a linear model or a forest of regression trees
// in the flattened children/feature/threshold/value layout.
package artifact

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/okian/medalcast/internal/domain/model"
)

// Model kinds.
const (
	KindLinear = "linear"
	KindForest = "forest"
)

// leaf marks a node without children in the flattened tree layout.
const leaf = -1

// Scaler standardizes features as (x-mean)/scale.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Tree is one regression tree in flattened form.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

// Regressor is the serialized model body.
type Regressor struct {
	Kind         string    `json:"kind"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients,omitempty"`
	Trees        []Tree    `json:"trees,omitempty"`
}

// Artifact is a loaded, validated model. It is read-only after Load and safe
// for concurrent use.
type Artifact struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	ModelType string    `json:"model_type"`
	Columns   []string  `json:"feature_columns"`
	Scaler    *Scaler   `json:"scaler,omitempty"`
	Model     Regressor `json:"model"`

	coef *mat.VecDense
}

// FeatureColumns returns the ordered feature contract.
func (a *Artifact) FeatureColumns() []string { return a.Columns }

// Status summarizes the artifact for status reporting.
func (a *Artifact) Status() model.ModelStatus {
	return model.ModelStatus{
		Name:      a.Name,
		Available: true,
		Version:   a.Version,
		ModelType: a.ModelType,
		Features:  a.Columns,
	}
}

// Transform applies the scaler. A zero scale is treated as 1.
func (a *Artifact) Transform(x []float64) ([]float64, error) {
	if len(x) != len(a.Columns) {
		return nil, fmt.Errorf("%w: got %d want %d", ErrShapeMismatch, len(x), len(a.Columns))
	}
	out := make([]float64, len(x))
	copy(out, x)
	if a.Scaler == nil {
		return out, nil
	}
	floats.Sub(out, a.Scaler.Mean)
	for i, s := range a.Scaler.Scale {
		if s != 0 {
			out[i] /= s
		}
	}
	return out, nil
}

// Predict evaluates the regressor on one already-scaled row.
func (a *Artifact) Predict(x []float64) (float64, error) {
	if len(x) != len(a.Columns) {
		return 0, fmt.Errorf("%w: got %d want %d", ErrShapeMismatch, len(x), len(a.Columns))
	}
	switch a.Model.Kind {
	case KindLinear:
		return a.Model.Intercept + mat.Dot(a.coef, mat.NewVecDense(len(x), x)), nil
	case KindForest:
		sum := 0.0
		for i := range a.Model.Trees {
			sum += a.Model.Trees[i].eval(x)
		}
		return sum / float64(len(a.Model.Trees)), nil
	default:
		return 0, fmt.Errorf("%w: model kind %q", ErrMalformedArtifact, a.Model.Kind)
	}
}

// eval walks from the root. validate guarantees indices are in range and
// the walk terminates.
func (t *Tree) eval(x []float64) float64 {
	node := 0
	for steps := 0; steps <= len(t.Value); steps++ {
		left := t.ChildrenLeft[node]
		if left == leaf {
			return t.Value[node]
		}
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = left
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// validate checks the artifact against its own contract and prepares the
// coefficient vector.
func (a *Artifact) validate() error {
	n := len(a.Columns)
	if n == 0 {
		return fmt.Errorf("%w: empty feature_columns", ErrMalformedArtifact)
	}
	if s := a.Scaler; s != nil {
		if len(s.Mean) != n || len(s.Scale) != n {
			return fmt.Errorf("%w: scaler has %d/%d entries for %d features", ErrMalformedArtifact, len(s.Mean), len(s.Scale), n)
		}
	}
	switch a.Model.Kind {
	case KindLinear:
		if len(a.Model.Coefficients) != n {
			return fmt.Errorf("%w: %d coefficients for %d features", ErrMalformedArtifact, len(a.Model.Coefficients), n)
		}
		if !finite(a.Model.Intercept) || !allFinite(a.Model.Coefficients) {
			return fmt.Errorf("%w: non-finite coefficients", ErrMalformedArtifact)
		}
		a.coef = mat.NewVecDense(n, a.Model.Coefficients)
	case KindForest:
		if len(a.Model.Trees) == 0 {
			return fmt.Errorf("%w: forest without trees", ErrMalformedArtifact)
		}
		for i := range a.Model.Trees {
			if err := a.Model.Trees[i].validate(n); err != nil {
				return fmt.Errorf("%w: tree %d: %w", ErrMalformedArtifact, i, err)
			}
		}
	default:
		return fmt.Errorf("%w: model kind %q", ErrMalformedArtifact, a.Model.Kind)
	}
	return nil
}

func (t *Tree) validate(features int) error {
	nodes := len(t.Value)
	if nodes == 0 {
		return errors.New("no nodes")
	}
	if len(t.ChildrenLeft) != nodes || len(t.ChildrenRight) != nodes || len(t.Feature) != nodes || len(t.Threshold) != nodes {
		return errors.New("ragged node arrays")
	}
	for i := 0; i < nodes; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf {
			continue
		}
		// children must point forward so the walk cannot cycle
		if l <= i || r <= i || l >= nodes || r >= nodes {
			return fmt.Errorf("node %d: bad children %d/%d", i, l, r)
		}
		if f := t.Feature[i]; f < 0 || f >= features {
			return fmt.Errorf("node %d: feature %d out of range", i, f)
		}
	}
	return nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if !finite(x) {
			return false
		}
	}
	return true
}
