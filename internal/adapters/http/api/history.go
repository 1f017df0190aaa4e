package api

import (
	"net/http"
	"strings"

	"github.com/okian/medalcast/internal/domain/model"
	"github.com/okian/medalcast/pkg/logger"
)

// HistoryHandler serves historical series.
type HistoryHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewHistoryHandler creates a history handler.
func NewHistoryHandler(deps Dependencies, log logger.Logger) *HistoryHandler {
	return &HistoryHandler{deps: deps, logger: log}
}

type historyPoint struct {
	model.Point
	Total int `json:"total"`
}

type historyResponse struct {
	Country string         `json:"country"`
	Total   model.Medals   `json:"total"`
	Series  []historyPoint `json:"series"`
}

// HandleCountry handles GET /history/country/{country}.
func (h *HistoryHandler) HandleCountry(w http.ResponseWriter, r *http.Request) {
	const op = "api.history_country"
	req := historyRequest{Country: strings.TrimSpace(r.PathValue("country"))}
	if err := validateRequest(req); err != nil {
		fail(w, r, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}

	cs, err := h.deps.CountryHistory(r.Context(), req.Country)
	if err != nil {
		fail(w, r, h.logger, Wrap(op, err))
		return
	}
	resp := historyResponse{Country: cs.Country, Total: cs.Series.Sum(), Series: make([]historyPoint, len(cs.Series))}
	for i, p := range cs.Series {
		resp.Series[i] = historyPoint{Point: p, Total: p.Total()}
	}
	writeJSON(w, http.StatusOK, resp)
}
