// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	service "github.com/okian/medalcast/internal/app"
	"github.com/okian/medalcast/internal/domain/history"
	"github.com/okian/medalcast/internal/domain/model"
	"github.com/okian/medalcast/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the orchestrator.
type Dependencies interface {
	StatsProvider

	PredictCountry(ctx context.Context, country string, year int, strategy string) (model.Forecast, error)
	PredictTopCountries(ctx context.Context, n, year int, strategy string) ([]model.Forecast, error)
	PredictAthletes(ctx context.Context, limit int, strategy string) ([]model.AthleteForecast, error)
	PredictSports(ctx context.Context, year int, strategy string) ([]model.SportForecast, error)
	ModelsStatus(ctx context.Context) []model.ModelStatus
	CountryHistory(ctx context.Context, country string) (history.CountrySeries, error)
}

// Limits bounds and defaults list sizes.
type Limits struct {
	DefaultTopN         int
	MaxTopN             int
	DefaultAthleteLimit int
	MaxAthleteLimit     int
}

// DefaultLimits mirror the configuration defaults.
func DefaultLimits() Limits {
	return Limits{DefaultTopN: 25, MaxTopN: 250, DefaultAthleteLimit: 50, MaxAthleteLimit: 1000}
}

// Option configures a Server.
type Option func(*Server)

// WithLimits overrides list-size bounds. Non-positive fields keep defaults.
func WithLimits(l Limits) Option {
	return func(s *Server) {
		if l.DefaultTopN > 0 {
			s.limits.DefaultTopN = l.DefaultTopN
		}
		if l.MaxTopN > 0 {
			s.limits.MaxTopN = l.MaxTopN
		}
		if l.DefaultAthleteLimit > 0 {
			s.limits.DefaultAthleteLimit = l.DefaultAthleteLimit
		}
		if l.MaxAthleteLimit > 0 {
			s.limits.MaxAthleteLimit = l.MaxAthleteLimit
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the forecast API.
type Server struct {
	deps   Dependencies
	limits Limits
	logger logger.Logger

	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	predictionsHandler *PredictionsHandler
	historyHandler     *HistoryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, limits: DefaultLimits(), logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.predictionsHandler = NewPredictionsHandler(deps, s.limits, s.logger)
	s.historyHandler = NewHistoryHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /metrics", "metrics", s.healthHandler.HandleMetrics)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("GET /predictions/country/{country}", "predict_country", s.predictionsHandler.HandleCountry)
	route("GET /predictions/top-countries", "predict_top_countries", s.predictionsHandler.HandleTopCountries)
	route("GET /predictions/athletes", "predict_athletes", s.predictionsHandler.HandleAthletes)
	route("GET /predictions/sports", "predict_sports", s.predictionsHandler.HandleSports)
	route("GET /predictions/models/status", "models_status", s.predictionsHandler.HandleModelsStatus)

	route("GET /history/country/{country}", "history_country", s.historyHandler.HandleCountry)
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil && status < statusInternalError {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestID(r.Context())})
}

// classify maps an error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrLimitExceeded):
		return http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidLimit),
		errors.Is(err, service.ErrInvalidStrategy),
		errors.Is(err, service.ErrInvalidYear):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrDataUnavailable), errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "data_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err with its classified status and logs server-side failures.
func fail(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, code := classify(err)
	if status >= statusInternalError {
		log.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", RequestID(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, r, status, code, err)
}
