package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/medalcast/internal/domain/model"
	"github.com/okian/medalcast/pkg/logger"
)

// PredictionsHandler serves the /predictions routes.
type PredictionsHandler struct {
	deps   Dependencies
	limits Limits
	logger logger.Logger
}

// NewPredictionsHandler creates a predictions handler.
func NewPredictionsHandler(deps Dependencies, limits Limits, log logger.Logger) *PredictionsHandler {
	return &PredictionsHandler{deps: deps, limits: limits, logger: log}
}

type topCountriesResponse struct {
	Year        int              `json:"year"`
	Count       int              `json:"count"`
	Predictions []model.Forecast `json:"predictions"`
}

type athletesResponse struct {
	Count    int                     `json:"count"`
	Athletes []model.AthleteForecast `json:"athletes"`
}

type sportsResponse struct {
	Year   int                   `json:"year"`
	Count  int                   `json:"count"`
	Sports []model.SportForecast `json:"sports"`
}

type modelsStatusResponse struct {
	Models []model.ModelStatus `json:"models"`
}

// HandleCountry handles GET /predictions/country/{country}?year=&strategy=.
func (h *PredictionsHandler) HandleCountry(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_country"
	year, err := queryInt(r, "year", 0)
	if err != nil {
		fail(w, r, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	req := countryRequest{Country: strings.TrimSpace(r.PathValue("country")), Year: year, Strategy: queryStrategy(r)}
	if err := validateRequest(req); err != nil {
		fail(w, r, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}

	f, err := h.deps.PredictCountry(r.Context(), req.Country, req.Year, req.Strategy)
	if err != nil {
		fail(w, r, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// HandleTopCountries handles GET /predictions/top-countries?n=&year=&strategy=.
func (h *PredictionsHandler) HandleTopCountries(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_top_countries"
	n, err := queryInt(r, "n", h.limits.DefaultTopN)
	if err != nil {
		fail(w, r, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	year, err := queryInt(r, "year", 0)
	if err != nil {
		fail(w, r, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	req := topCountriesRequest{N: n, Year: year, Strategy: queryStrategy(r)}
	if err := validateRequest(req); err != nil {
		fail(w, r, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.N > h.limits.MaxTopN {
		fail(w, r, h.logger, WrapKind(op, ErrLimitExceeded, fmt.Errorf("n must be at most %d", h.limits.MaxTopN)))
		return
	}

	out, err := h.deps.PredictTopCountries(r.Context(), req.N, req.Year, req.Strategy)
	if err != nil {
		fail(w, r, h.logger, Wrap(op, err))
		return
	}
	resp := topCountriesResponse{Year: req.Year, Count: len(out), Predictions: out}
	if len(out) > 0 {
		resp.Year = out[0].Year
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleAthletes handles GET /predictions/athletes?limit=&strategy=.
func (h *PredictionsHandler) HandleAthletes(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_athletes"
	limit, err := queryInt(r, "limit", h.limits.DefaultAthleteLimit)
	if err != nil {
		fail(w, r, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	req := athletesRequest{Limit: limit, Strategy: queryStrategy(r)}
	if err := validateRequest(req); err != nil {
		fail(w, r, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Limit > h.limits.MaxAthleteLimit {
		fail(w, r, h.logger, WrapKind(op, ErrLimitExceeded, fmt.Errorf("limit must be at most %d", h.limits.MaxAthleteLimit)))
		return
	}

	out, err := h.deps.PredictAthletes(r.Context(), req.Limit, req.Strategy)
	if err != nil {
		fail(w, r, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, athletesResponse{Count: len(out), Athletes: out})
}

// HandleSports handles GET /predictions/sports?year=&strategy=.
func (h *PredictionsHandler) HandleSports(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_sports"
	year, err := queryInt(r, "year", 0)
	if err != nil {
		fail(w, r, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	req := sportsRequest{Year: year, Strategy: queryStrategy(r)}
	if err := validateRequest(req); err != nil {
		fail(w, r, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}

	out, err := h.deps.PredictSports(r.Context(), req.Year, req.Strategy)
	if err != nil {
		fail(w, r, h.logger, Wrap(op, err))
		return
	}
	resp := sportsResponse{Year: req.Year, Count: len(out), Sports: out}
	if len(out) > 0 {
		resp.Year = out[0].Year
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleModelsStatus handles GET /predictions/models/status.
func (h *PredictionsHandler) HandleModelsStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, modelsStatusResponse{Models: h.deps.ModelsStatus(r.Context())})
}
