package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/okian/medalcast/internal/adapters/ranking"
	"github.com/okian/medalcast/internal/adapters/worker"
	"github.com/okian/medalcast/internal/domain/allocation"
	"github.com/okian/medalcast/internal/domain/history"
	"github.com/okian/medalcast/internal/domain/model"
	"github.com/okian/medalcast/internal/domain/predictor"
	"github.com/okian/medalcast/internal/domain/smoothing"
	"github.com/okian/medalcast/pkg/logger"
	"github.com/okian/medalcast/pkg/metrics"
)

// Forecast kinds, used as metric labels.
const (
	kindCountry = "country"
	kindTop     = "top_countries"
	kindAthlete = "athlete"
	kindSport   = "sport"
)

// Athlete score heuristic: floor + per-medal step, capped.
const (
	athleteScoreFloor = 0.05
	athleteScoreStep  = 0.03
	athleteScoreCap   = 0.95
)

// PredictCountry forecasts one country. Year 0 and an empty strategy use the
// configured defaults. An unknown country yields an all-zero forecast.
func (s *Service) PredictCountry(ctx context.Context, country string, year int, strategy string) (model.Forecast, error) {
	start := time.Now()
	year, err := s.resolveYear(year)
	if err != nil {
		return model.Forecast{}, err
	}
	st, f, err := s.resolveStrategy(strategy)
	if err != nil {
		return model.Forecast{}, err
	}
	ix, err := s.history(ctx)
	if err != nil {
		return model.Forecast{}, err
	}

	label, ok := s.normalizer.Resolve(country)
	if !ok {
		out := model.NewForecast(rawLabel(country), year, model.Medals{}, model.SourceZero, "")
		metrics.RecordForecast(kindCountry, string(model.SourceZero), msSince(start))
		return out, nil
	}
	cs, _ := ix.Country(label)
	req := request{
		kind:       kindCountry,
		entity:     label,
		year:       year,
		series:     cs.Series,
		artifact:   s.artifact(ctx, ArtifactCountry),
		artifactID: ArtifactCountry,
		forecaster: f,
	}
	if cs.Country != "" {
		req.entity = cs.Country
	}

	m, src := s.tiers.run(ctx, req)
	out := model.NewForecast(req.entity, year, m, src, strategyLabel(src, st))
	metrics.RecordForecast(kindCountry, string(src), msSince(start))
	s.logger.Debug(ctx, "country forecast",
		logger.String("country", out.Country),
		logger.Int("year", year),
		logger.String("source", string(src)),
		logger.Int("total", out.Total),
	)
	return out, nil
}

// PredictTopCountries forecasts every known country and returns the n best
// by total, ties broken by canonical label ascending. n larger than the
// number of known countries returns all of them.
func (s *Service) PredictTopCountries(ctx context.Context, n, year int, strategy string) ([]model.Forecast, error) {
	start := time.Now()
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	year, err := s.resolveYear(year)
	if err != nil {
		return nil, err
	}
	st, f, err := s.resolveStrategy(strategy)
	if err != nil {
		return nil, err
	}
	ix, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	art := s.artifact(ctx, ArtifactTopCountries)
	forecasts, err := worker.Map(ctx, s.pool, ix.Countries(), func(ctx context.Context, cs history.CountrySeries) (model.Forecast, error) {
		m, src := s.tiers.run(ctx, request{
			kind:       kindTop,
			entity:     cs.Country,
			year:       year,
			series:     cs.Series,
			artifact:   art,
			artifactID: ArtifactTopCountries,
			forecaster: f,
		})
		return model.NewForecast(cs.Country, year, m, src, strategyLabel(src, st)), ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	board := ranking.NewBoard[model.Forecast]()
	for _, fc := range forecasts {
		board.Put(fc.Country, fc.Total, fc)
	}
	if board.Len() == 0 {
		return []model.Forecast{}, nil
	}

	top, err := board.TopN(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLimit, err)
	}
	out := make([]model.Forecast, len(top))
	for i, e := range top {
		out[i] = e.Value
	}
	metrics.RecordForecast(kindTop, "batch", msSince(start))
	return out, nil
}

// PredictAthletes scores every athlete on historical strength and projects
// the next-period medals with the selected strategy. Results are ordered by
// score, then historical total, descending, then by athlete name.
func (s *Service) PredictAthletes(ctx context.Context, limit int, strategy string) ([]model.AthleteForecast, error) {
	start := time.Now()
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	_, f, err := s.resolveStrategy(strategy)
	if err != nil {
		return nil, err
	}
	ix, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	art := s.artifact(ctx, ArtifactAthlete)
	out, err := worker.Map(ctx, s.pool, ix.Athletes(), func(ctx context.Context, a history.AthleteHistory) (model.AthleteForecast, error) {
		return s.athleteForecast(a, art, f), ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.HistoricalTotal != b.HistoricalTotal {
			return a.HistoricalTotal > b.HistoricalTotal
		}
		if a.Athlete != b.Athlete {
			return a.Athlete < b.Athlete
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		return a.Sport < b.Sport
	})
	if len(out) > limit {
		out = out[:limit]
	}
	metrics.RecordForecast(kindAthlete, "batch", msSince(start))
	return out, nil
}

// PredictSports forecasts the medals awarded per sport, ordered by total
// descending then sport name.
func (s *Service) PredictSports(ctx context.Context, year int, strategy string) ([]model.SportForecast, error) {
	start := time.Now()
	year, err := s.resolveYear(year)
	if err != nil {
		return nil, err
	}
	_, f, err := s.resolveStrategy(strategy)
	if err != nil {
		return nil, err
	}
	ix, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	sports := ix.Sports()
	board := ranking.NewBoard[model.SportForecast]()
	for _, sp := range sports {
		m, src := s.tiers.run(ctx, request{kind: kindSport, entity: sp.Sport, year: year, series: sp.Series, forecaster: f})
		board.Put(sp.Sport, m.Total(), model.SportForecast{Sport: sp.Sport, Year: year, Medals: m, Total: m.Total(), Source: src})
	}
	out := make([]model.SportForecast, 0, len(sports))
	if board.Len() > 0 {
		top, err := board.TopN(board.Len())
		if err != nil {
			return nil, err
		}
		for _, e := range top {
			out = append(out, e.Value)
		}
	}
	metrics.RecordForecast(kindSport, "batch", msSince(start))
	return out, nil
}

// athleteForecast scores one athlete. A usable athlete artifact replaces the
// heuristic score; the projection always comes from smoothing.
func (s *Service) athleteForecast(a history.AthleteHistory, art predictor.Model, f smoothing.Forecaster) model.AthleteForecast {
	fc := model.AthleteForecast{
		Athlete:         a.Athlete,
		Country:         a.Country,
		Sport:           a.Sport,
		Historical:      a.Medals,
		HistoricalTotal: a.Total(),
		LastYear:        a.LastYear(),
		Score:           heuristicScore(a.Total()),
		Source:          model.SourceSmoothing,
	}
	if art != nil {
		features := s.builder.Athlete(a.Country, s.defaultYear, a.Series)
		if y, err := predictor.Predict(features, art); err == nil {
			fc.Score = math.Min(1, y)
			fc.Source = model.SourceModel
		} else {
			metrics.RecordModelFailure(ArtifactAthlete, failureReason(err))
		}
	}
	est := smoothing.Forecast(a.Series, f)
	fc.Projected = allocation.RoundEach(est.Gold, est.Silver, est.Bronze)
	return fc
}

func heuristicScore(total int) float64 {
	return math.Min(athleteScoreCap, athleteScoreFloor+athleteScoreStep*float64(total))
}

// strategyLabel names the smoothing strategy only when smoothing answered.
func strategyLabel(src model.Source, st smoothing.Strategy) string {
	if src != model.SourceSmoothing {
		return ""
	}
	return string(st)
}

func msSince(t time.Time) float64 { return float64(time.Since(t).Nanoseconds()) / 1e6 }

// rawLabel echoes a placeholder request back trimmed and collapsed.
func rawLabel(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
