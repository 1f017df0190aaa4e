package model

// Point is one period of a series.
type Point struct {
	Year int `json:"year"`
	Medals
}

// PeriodSeries is sorted ascending by Year with unique years.
type PeriodSeries []Point

// Before returns the prefix of periods strictly earlier than year.
func (s PeriodSeries) Before(year int) PeriodSeries {
	for i, p := range s {
		if p.Year >= year {
			return s[:i]
		}
	}
	return s
}

// Sum adds up every period.
func (s PeriodSeries) Sum() Medals {
	var out Medals
	for _, p := range s {
		out = out.Add(p.Medals)
	}
	return out
}

// Column extracts one medal kind as float64 values in period order.
func (s PeriodSeries) Column(kind Kind) []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		switch kind {
		case Gold:
			out[i] = float64(p.Gold)
		case Silver:
			out[i] = float64(p.Silver)
		case Bronze:
			out[i] = float64(p.Bronze)
		default:
			out[i] = float64(p.Total())
		}
	}
	return out
}

// Years returns the period years as float64, for regressions.
func (s PeriodSeries) Years() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = float64(p.Year)
	}
	return out
}

// Kind selects a medal column.
type Kind int

const (
	Total Kind = iota
	Gold
	Silver
	Bronze
)
