// Package smoothing forecasts the next period of a medal series from its
// history, using either a trailing moving average or exponential smoothing.
package smoothing

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/medalcast/internal/domain/model"
)

// Strategy selects a smoothing algorithm.
type Strategy string

const (
	MovingAverageStrategy Strategy = "ma"
	ExponentialStrategy   Strategy = "es"
)

// Defaults match the historical behavior of the service.
const (
	DefaultWindow = 5
	DefaultAlpha  = 0.5
)

// ErrUnknownStrategy is returned by ParseStrategy.
var ErrUnknownStrategy = errors.New("unknown smoothing strategy")

// ParseStrategy maps user input to a Strategy; empty input yields def.
func ParseStrategy(s string, def Strategy) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case MovingAverageStrategy, "moving_average", "moving-average":
		return MovingAverageStrategy, nil
	case ExponentialStrategy, "exponential", "ewma":
		return ExponentialStrategy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Estimate is the real-valued forecast per medal type, before rounding.
type Estimate struct {
	Gold   float64
	Silver float64
	Bronze float64
}

// Total sums the three estimates.
func (e Estimate) Total() float64 { return e.Gold + e.Silver + e.Bronze }

// Forecaster projects the next value of an ordered series.
type Forecaster interface {
	Next(values []float64) float64
}

// Forecast applies f to every medal column of s. An empty series gives zeros.
func Forecast(s model.PeriodSeries, f Forecaster) Estimate {
	if len(s) == 0 {
		return Estimate{}
	}
	return Estimate{
		Gold:   f.Next(s.Column(model.Gold)),
		Silver: f.Next(s.Column(model.Silver)),
		Bronze: f.Next(s.Column(model.Bronze)),
	}
}

// MovingAverage averages the last min(Window, n) values.
type MovingAverage struct {
	Window int
}

// Next implements Forecaster.
func (m MovingAverage) Next(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	w := m.Window
	if w <= 0 {
		w = DefaultWindow
	}
	if w > len(values) {
		w = len(values)
	}
	return stat.Mean(values[len(values)-w:], nil)
}

// Exponential is the EWMA recurrence s0 = x0, st = a*xt + (1-a)*s(t-1),
// evaluated to its final value.
type Exponential struct {
	Alpha float64
}

// Next implements Forecaster.
func (e Exponential) Next(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	a := e.Alpha
	if a <= 0 || a > 1 {
		a = DefaultAlpha
	}
	s := values[0]
	for _, x := range values[1:] {
		s = a*x + (1-a)*s
	}
	return s
}

// New returns the Forecaster for strategy.
func New(strategy Strategy, window int, alpha float64) (Forecaster, error) {
	switch strategy {
	case MovingAverageStrategy:
		return MovingAverage{Window: window}, nil
	case ExponentialStrategy:
		return Exponential{Alpha: alpha}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}
