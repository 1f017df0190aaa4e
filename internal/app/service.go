// Package service provides the forecast orchestrator behind the HTTP API and
// the CLI.
//
// Every forecast runs an explicit chain of tiers: trained model, smoothing,
// zero. Only a missing or unreadable dataset is reported to callers; model
// problems fall through to smoothing and unknown entities forecast as zero.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/medalcast/internal/adapters/dataset"
	"github.com/okian/medalcast/internal/adapters/worker"
	"github.com/okian/medalcast/internal/domain/history"
	"github.com/okian/medalcast/internal/domain/identity"
	"github.com/okian/medalcast/internal/domain/model"
	"github.com/okian/medalcast/internal/domain/predictor"
	"github.com/okian/medalcast/internal/domain/smoothing"
	"github.com/okian/medalcast/pkg/logger"
	"github.com/okian/medalcast/pkg/metrics"
)

// Accepted forecast years.
const (
	MinYear = 1896
	MaxYear = 2100
)

const defaultYear = 2028

// Service implements the forecast operations.
type Service struct {
	// loadMu serializes dataset loads; readers use index without locking.
	loadMu   sync.Mutex
	index    atomic.Pointer[history.Index]
	loadedAt atomic.Int64

	source     dataset.Source
	models     Models
	normalizer *identity.Normalizer
	builder    *predictor.Builder
	tiers      chain
	pool       *worker.Pool

	defaultStrategy smoothing.Strategy
	window          int
	alpha           float64
	hosts           map[int]string
	defaultYear     int

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultStrategy: smoothing.MovingAverageStrategy,
		window:          smoothing.DefaultWindow,
		alpha:           smoothing.DefaultAlpha,
		defaultYear:     defaultYear,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.normalizer == nil {
		s.normalizer = identity.New()
	}
	if s.pool == nil {
		s.pool = worker.NewPool(worker.WithLogger(s.logger))
	}
	s.builder = predictor.NewBuilder(s.hosts)
	s.tiers = chain{
		modelTier{builder: s.builder, logger: s.logger},
		smoothingTier{},
		zeroTier{},
	}
	return s
}

// Start loads the dataset eagerly. A failure is returned but not cached;
// requests retry the load.
func (s *Service) Start(ctx context.Context) error {
	_, err := s.history(ctx)
	return err
}

// Reload rebuilds the history index from the source and drops cached
// artifacts. The previous index keeps serving if the load fails.
func (s *Service) Reload(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if p, ok := s.models.(purger); ok {
		p.Purge()
	}
	_, err := s.load(ctx)
	return err
}

// history returns the shared index, loading it on first use.
func (s *Service) history(ctx context.Context) (*history.Index, error) {
	if ix := s.index.Load(); ix != nil {
		return ix, nil
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if ix := s.index.Load(); ix != nil {
		return ix, nil
	}
	return s.load(ctx)
}

// load must be called with loadMu held.
func (s *Service) load(ctx context.Context) (*history.Index, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: no dataset configured", ErrDataUnavailable)
	}
	start := time.Now()
	records, err := s.source.Load(ctx)
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	if err != nil {
		metrics.RecordDatasetLoad("error", ms)
		s.logger.Error(ctx, "dataset load failed",
			logger.String("source", s.source.Describe()),
			logger.Error(err),
		)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	ix := history.Build(records, s.normalizer)
	st := ix.Stats()
	s.index.Store(ix)
	s.loadedAt.Store(time.Now().Unix())

	metrics.RecordDatasetLoad("ok", ms)
	metrics.UpdateDatasetRecords(st.Records, st.Dropped())
	metrics.UpdateKnownEntities("country", st.Countries)
	metrics.UpdateKnownEntities("athlete", st.Athletes)
	metrics.UpdateKnownEntities("sport", st.Sports)
	s.logger.Info(ctx, "dataset loaded",
		logger.String("source", s.source.Describe()),
		logger.Int("records", st.Records),
		logger.Int("dropped", st.Dropped()),
		logger.Int("countries", st.Countries),
		logger.Int("athletes", st.Athletes),
		logger.Duration("took", time.Since(start)),
	)
	return ix, nil
}

// artifact fetches a model, treating every error as absence.
func (s *Service) artifact(ctx context.Context, name string) predictor.Model {
	if s.models == nil {
		return nil
	}
	m, err := s.models.Model(ctx, name)
	if err != nil {
		s.logger.Debug(ctx, "artifact unavailable", logger.String("artifact", name), logger.Error(err))
		return nil
	}
	return m
}

func (s *Service) resolveYear(year int) (int, error) {
	if year == 0 {
		return s.defaultYear, nil
	}
	if year < MinYear || year > MaxYear {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidYear, year, MinYear, MaxYear)
	}
	return year, nil
}

func (s *Service) resolveStrategy(name string) (smoothing.Strategy, smoothing.Forecaster, error) {
	st, err := smoothing.ParseStrategy(name, s.defaultStrategy)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidStrategy, err)
	}
	f, err := smoothing.New(st, s.window, s.alpha)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidStrategy, err)
	}
	return st, f, nil
}

// CountryHistory returns the canonical label and per-period medals of a
// country. Unknown countries return an empty series.
func (s *Service) CountryHistory(ctx context.Context, country string) (history.CountrySeries, error) {
	ix, err := s.history(ctx)
	if err != nil {
		return history.CountrySeries{}, err
	}
	label, ok := s.normalizer.Resolve(country)
	if !ok {
		return history.CountrySeries{Country: rawLabel(country)}, nil
	}
	cs, _ := ix.Country(label)
	return cs, nil
}

// Countries lists every known canonical country.
func (s *Service) Countries(ctx context.Context) ([]string, error) {
	ix, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	all := ix.Countries()
	out := make([]string, len(all))
	for i, c := range all {
		out[i] = c.Country
	}
	return out, nil
}

// ModelsStatus reports, for each artifact name, whether it can be served.
func (s *Service) ModelsStatus(ctx context.Context) []model.ModelStatus {
	out := make([]model.ModelStatus, 0, len(ArtifactNames))
	for _, name := range ArtifactNames {
		st := model.ModelStatus{Name: name}
		if s.models == nil {
			st.Error = "no artifact provider configured"
			out = append(out, st)
			continue
		}
		m, err := s.models.Model(ctx, name)
		switch {
		case err != nil:
			st.Error = err.Error()
		case m != nil:
			st.Available = true
			if d, ok := m.(statuser); ok {
				st = d.Status()
				st.Name = name
			}
			if len(st.Features) == 0 {
				st.Features = m.FeatureColumns()
			}
		}
		out = append(out, st)
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	stats := map[string]any{
		"defaultStrategy": string(s.defaultStrategy),
		"window":          s.window,
		"alpha":           s.alpha,
		"defaultYear":     s.defaultYear,
		"workers":         s.pool.Workers(),
		"loaded":          false,
	}
	if s.source != nil {
		stats["source"] = s.source.Describe()
	}
	if c, ok := s.models.(interface{ Cached() int }); ok {
		stats["cachedArtifacts"] = c.Cached()
	}
	if ix := s.index.Load(); ix != nil {
		stats["loaded"] = true
		stats["loadedAt"] = time.Unix(s.loadedAt.Load(), 0).UTC().Format(time.RFC3339)
		stats["history"] = ix.Stats()
	}
	return stats
}
