package service

import (
	"context"
	"errors"

	"github.com/okian/medalcast/internal/domain/allocation"
	"github.com/okian/medalcast/internal/domain/model"
	"github.com/okian/medalcast/internal/domain/predictor"
	"github.com/okian/medalcast/internal/domain/smoothing"
	"github.com/okian/medalcast/pkg/logger"
	"github.com/okian/medalcast/pkg/metrics"
)

// request carries everything a tier needs for one entity. The artifact is
// resolved once per API call and shared across entities.
type request struct {
	kind       string
	entity     string
	year       int
	series     model.PeriodSeries
	artifact   predictor.Model
	artifactID string
	forecaster smoothing.Forecaster
}

// tier is one step of the fallback chain. ok=false passes to the next tier.
type tier interface {
	source() model.Source
	forecast(ctx context.Context, req request) (m model.Medals, ok bool)
}

// modelTier runs the trained artifact and allocates its total.
type modelTier struct {
	builder *predictor.Builder
	logger  logger.Logger
}

func (t modelTier) source() model.Source { return model.SourceModel }

func (t modelTier) forecast(ctx context.Context, req request) (model.Medals, bool) {
	if req.artifact == nil {
		return model.Medals{}, false
	}
	features := t.builder.Country(req.entity, req.year, req.series)
	total, err := predictor.Predict(features, req.artifact)
	if err != nil {
		t.logger.Debug(ctx, "model tier declined",
			logger.String("artifact", req.artifactID),
			logger.String("entity", req.entity),
			logger.Error(err),
		)
		metrics.RecordModelFailure(req.artifactID, failureReason(err))
		return model.Medals{}, false
	}

	ratios, ok := allocation.Historical(req.series.Before(req.year).Sum())
	if !ok {
		ratios = allocation.TierRatios(req.entity)
	}
	return allocation.Allocate(total, ratios), true
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, predictor.ErrUnknownFeature):
		return "unknown_feature"
	case errors.Is(err, predictor.ErrNonFinite):
		return "non_finite"
	case errors.Is(err, predictor.ErrInference):
		return "inference"
	default:
		return "other"
	}
}

// smoothingTier forecasts each medal type from history. The three values
// are used directly, rounded per component.
type smoothingTier struct{}

func (smoothingTier) source() model.Source { return model.SourceSmoothing }

func (smoothingTier) forecast(_ context.Context, req request) (model.Medals, bool) {
	past := req.series.Before(req.year)
	if len(past) == 0 || req.forecaster == nil {
		return model.Medals{}, false
	}
	est := smoothing.Forecast(past, req.forecaster)
	return allocation.RoundEach(est.Gold, est.Silver, est.Bronze), true
}

// zeroTier always answers with an all-zero forecast.
type zeroTier struct{}

func (zeroTier) source() model.Source { return model.SourceZero }

func (zeroTier) forecast(context.Context, request) (model.Medals, bool) {
	return model.Medals{}, true
}

// chain runs tiers in order and returns the first answer.
type chain []tier

func (c chain) run(ctx context.Context, req request) (model.Medals, model.Source) {
	for _, t := range c {
		if m, ok := t.forecast(ctx, req); ok {
			return m, t.source()
		}
		if t.source() == model.SourceModel && req.artifact == nil {
			continue
		}
		metrics.RecordFallback(req.kind, string(t.source()))
	}
	return model.Medals{}, model.SourceZero
}
