package predictor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/medalcast/internal/domain/identity"
	"github.com/okian/medalcast/internal/domain/model"
)

// Feature names understood by Builder. Artifacts declare a subset of these,
// in their own order.
const (
	FeatureAvgRecent3       = "avg_recent_3"
	FeatureTrend            = "trend"
	FeatureConsistency      = "consistency"
	FeaturePeakPerformance  = "peak_performance"
	FeatureYearsSinceLast   = "years_since_last"
	FeaturePopulation       = "population"
	FeatureGDPPerCapita     = "gdp_per_capita"
	FeatureSportsCulture    = "sports_culture"
	FeatureOlympicTradition = "olympic_tradition"
	FeatureIsHost           = "is_host"
	FeatureIsSummer         = "is_summer"
	FeatureYearNormalized   = "year_normalized"

	// Athlete-only features.
	FeatureHistoricalTotal = "historical_total"
	FeatureGold            = "gold"
	FeatureSilver          = "silver"
	FeatureBronze          = "bronze"
	FeatureAppearances     = "appearances"
)

// CountryFeatureOrder is the contract produced by the training pipeline for
// the country and top-countries artifacts.
var CountryFeatureOrder = []string{ //nolint:gochecknoglobals // feature contract
	FeatureAvgRecent3,
	FeatureTrend,
	FeatureConsistency,
	FeaturePeakPerformance,
	FeatureYearsSinceLast,
	FeaturePopulation,
	FeatureGDPPerCapita,
	FeatureSportsCulture,
	FeatureOlympicTradition,
	FeatureIsHost,
	FeatureIsSummer,
	FeatureYearNormalized,
}

const (
	recentWindow        = 3
	defaultYearsSince   = 4
	yearNormalizeOrigin = 1990
	yearNormalizeSpan   = 30
)

// Features is a named feature set for one entity and period.
type Features map[string]float64

// Vector orders f by the artifact's declared columns. Unknown names fail.
func (f Features) Vector(columns []string) ([]float64, error) {
	out := make([]float64, len(columns))
	for i, name := range columns {
		v, ok := f[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
		}
		out[i] = v
	}
	return out, nil
}

// Builder derives features from history plus static and host data.
type Builder struct {
	hosts map[int]string // year -> identity.Key of host country
}

// NewBuilder creates a Builder with a year -> host country table.
func NewBuilder(hosts map[int]string) *Builder {
	b := &Builder{hosts: make(map[int]string, len(hosts))}
	for year, country := range hosts {
		b.hosts[year] = identity.Key(country)
	}
	return b
}

// IsHost reports whether country hosts the games of year.
func (b *Builder) IsHost(country string, year int) bool {
	host, ok := b.hosts[year]
	return ok && host == identity.Key(country)
}

// Country builds the country feature set. Only periods before year feed the
// history-derived features.
func (b *Builder) Country(country string, year int, series model.PeriodSeries) Features {
	f := dynamics(series.Before(year), year)

	factors, _ := FactorsFor(country)
	f[FeaturePopulation] = factors.Population
	f[FeatureGDPPerCapita] = factors.GDPPerCapita
	f[FeatureSportsCulture] = factors.SportsCulture
	f[FeatureOlympicTradition] = factors.OlympicTradition

	f[FeatureIsHost] = boolFeature(b.IsHost(country, year))
	f[FeatureIsSummer] = boolFeature(year%4 == 0)
	f[FeatureYearNormalized] = float64(year-yearNormalizeOrigin) / yearNormalizeSpan
	return f
}

// Athlete builds the athlete feature set over the athlete's full history.
func (b *Builder) Athlete(country string, year int, series model.PeriodSeries) Features {
	f := b.Country(country, year, series)
	sum := series.Before(year).Sum()
	f[FeatureHistoricalTotal] = float64(sum.Total())
	f[FeatureGold] = float64(sum.Gold)
	f[FeatureSilver] = float64(sum.Silver)
	f[FeatureBronze] = float64(sum.Bronze)
	f[FeatureAppearances] = float64(len(series.Before(year)))
	return f
}

// dynamics computes the history-derived features over past periods.
func dynamics(past model.PeriodSeries, year int) Features {
	f := Features{
		FeatureAvgRecent3:      0,
		FeatureTrend:           0,
		FeatureConsistency:     0,
		FeaturePeakPerformance: 0,
		FeatureYearsSinceLast:  defaultYearsSince,
	}
	if len(past) == 0 {
		return f
	}

	totals := past.Column(model.Total)
	recent := totals
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	f[FeatureAvgRecent3] = stat.Mean(recent, nil)
	f[FeaturePeakPerformance] = floats.Max(totals)
	f[FeatureYearsSinceLast] = float64(year - past[len(past)-1].Year)

	if len(totals) >= 2 {
		_, slope := stat.LinearRegression(past.Years(), totals, nil, false)
		f[FeatureTrend] = slope
		f[FeatureConsistency] = stat.StdDev(totals, nil)
	}
	return f
}

func boolFeature(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
