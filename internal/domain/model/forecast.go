package model

// Source names the tier that produced a forecast.
type Source string

const (
	SourceModel     Source = "model"
	SourceSmoothing Source = "smoothing"
	SourceZero      Source = "zero"
)

// Forecast is the projected medal split for one country and period.
// Total always equals Gold+Silver+Bronze and every count is >= 0.
type Forecast struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
	Medals
	Total    int    `json:"total"`
	Source   Source `json:"source"`
	Strategy string `json:"strategy,omitempty"`
}

// NewForecast fills Total from the split.
func NewForecast(country string, year int, m Medals, source Source, strategy string) Forecast {
	return Forecast{Country: country, Year: year, Medals: m, Total: m.Total(), Source: source, Strategy: strategy}
}

// AthleteForecast scores an athlete on historical strength.
type AthleteForecast struct {
	Athlete         string  `json:"athlete"`
	Country         string  `json:"country"`
	Sport           string  `json:"sport"`
	Historical      Medals  `json:"historical"`
	HistoricalTotal int     `json:"historical_total"`
	Score           float64 `json:"score"`
	Projected       Medals  `json:"projected"`
	LastYear        int     `json:"last_year"`
	Source          Source  `json:"source"`
}

// SportForecast projects the medals awarded in one sport.
type SportForecast struct {
	Sport string `json:"sport"`
	Year  int    `json:"year"`
	Medals
	Total  int    `json:"total"`
	Source Source `json:"source"`
}

// ModelStatus reports whether an artifact can be served.
type ModelStatus struct {
	Name      string   `json:"name"`
	Available bool     `json:"available"`
	Version   string   `json:"version,omitempty"`
	ModelType string   `json:"model_type,omitempty"`
	Features  []string `json:"features,omitempty"`
	Error     string   `json:"error,omitempty"`
}
