package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/okian/medalcast/internal/adapters/http/api"
	service "github.com/okian/medalcast/internal/app"
	"github.com/okian/medalcast/internal/domain/history"
	"github.com/okian/medalcast/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type call struct {
	name     string
	country  string
	n        int
	year     int
	strategy string
}

// mockDeps records calls and returns canned results.
type mockDeps struct {
	calls []call
	err   error
}

func (m *mockDeps) GetStats() map[string]any { return map[string]any{"loaded": true} }

func (m *mockDeps) PredictCountry(_ context.Context, country string, year int, strategy string) (model.Forecast, error) {
	m.calls = append(m.calls, call{name: "country", country: country, year: year, strategy: strategy})
	if m.err != nil {
		return model.Forecast{}, m.err
	}
	if year == 0 {
		year = 2028
	}
	return model.NewForecast(country, year, model.Medals{Gold: 3, Silver: 2, Bronze: 1}, model.SourceSmoothing, "ma"), nil
}

func (m *mockDeps) PredictTopCountries(_ context.Context, n, year int, strategy string) ([]model.Forecast, error) {
	m.calls = append(m.calls, call{name: "top", n: n, year: year, strategy: strategy})
	if m.err != nil {
		return nil, m.err
	}
	return []model.Forecast{
		model.NewForecast("United States", 2028, model.Medals{Gold: 40, Silver: 40, Bronze: 40}, model.SourceModel, ""),
		model.NewForecast("China", 2028, model.Medals{Gold: 38, Silver: 30, Bronze: 20}, model.SourceModel, ""),
	}, nil
}

func (m *mockDeps) PredictAthletes(_ context.Context, limit int, strategy string) ([]model.AthleteForecast, error) {
	m.calls = append(m.calls, call{name: "athletes", n: limit, strategy: strategy})
	if m.err != nil {
		return nil, m.err
	}
	return []model.AthleteForecast{{Athlete: "Ada", Country: "Freedonia", Sport: "Fencing", HistoricalTotal: 2, Score: 0.11}}, nil
}

func (m *mockDeps) PredictSports(_ context.Context, year int, strategy string) ([]model.SportForecast, error) {
	m.calls = append(m.calls, call{name: "sports", year: year, strategy: strategy})
	return []model.SportForecast{{Sport: "Judo", Year: 2032, Total: 3}}, m.err
}

func (m *mockDeps) ModelsStatus(context.Context) []model.ModelStatus {
	return []model.ModelStatus{{Name: "country", Available: true}, {Name: "athlete", Error: "artifact not found"}}
}

func (m *mockDeps) CountryHistory(_ context.Context, country string) (history.CountrySeries, error) {
	m.calls = append(m.calls, call{name: "history", country: country})
	if m.err != nil {
		return history.CountrySeries{}, m.err
	}
	return history.CountrySeries{Country: "France", Series: model.PeriodSeries{
		{Year: 2020, Medals: model.Medals{Gold: 10, Silver: 12, Bronze: 11}},
		{Year: 2024, Medals: model.Medals{Gold: 16, Silver: 26, Bronze: 22}},
	}}, nil
}

func newMux(deps *mockDeps, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestCountryPrediction(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("When requesting a country forecast", func() {
			w := do(mux, http.MethodGet, "/predictions/country/Great%20Britain?year=2032&strategy=ES")

			Convey("Then the forecast is returned with flat medal fields", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				body := decode(w)
				So(body["country"], ShouldEqual, "Great Britain")
				So(body["gold"], ShouldEqual, 3)
				So(body["total"], ShouldEqual, 6)
				So(body["year"], ShouldEqual, 2032)
				So(deps.calls[0], ShouldResemble, call{name: "country", country: "Great Britain", year: 2032, strategy: "es"})
			})

			Convey("Then a request id is attached", func() {
				So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})

		Convey("When the client sends its own request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/predictions/country/France", http.NoBody)
			req.Header.Set("X-Request-ID", "abc-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get("X-Request-ID"), ShouldEqual, "abc-123")
		})

		Convey("When the strategy is unknown", func() {
			w := do(mux, http.MethodGet, "/predictions/country/France?strategy=arima")

			Convey("Then it is rejected before reaching the service", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["code"], ShouldEqual, "bad_request")
				So(deps.calls, ShouldBeEmpty)
			})
		})

		Convey("When the year is malformed or out of range", func() {
			So(do(mux, http.MethodGet, "/predictions/country/France?year=soon").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/predictions/country/France?year=1200").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the dataset is unavailable", func() {
			deps.err = fmt.Errorf("%w: medals.csv not found", service.ErrDataUnavailable)
			w := do(mux, http.MethodGet, "/predictions/country/France")

			Convey("Then the API answers 503", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decode(w)["code"], ShouldEqual, "data_unavailable")
			})
		})

		Convey("When the service rejects the input", func() {
			deps.err = service.ErrInvalidYear
			So(do(mux, http.MethodGet, "/predictions/country/France").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service fails unexpectedly", func() {
			deps.err = errors.New("boom")
			w := do(mux, http.MethodGet, "/predictions/country/France")

			Convey("Then the cause is not leaked", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["message"], ShouldEqual, "Internal Server Error")
			})
		})

		Convey("When using the wrong method", func() {
			So(do(mux, http.MethodPost, "/predictions/country/France").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestListPredictions(t *testing.T) {
	Convey("Given the API server with custom limits", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps, api.WithLimits(api.Limits{DefaultTopN: 10, MaxTopN: 50, DefaultAthleteLimit: 5, MaxAthleteLimit: 20}))

		Convey("When requesting top countries without n", func() {
			w := do(mux, http.MethodGet, "/predictions/top-countries")

			Convey("Then the default n is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["count"], ShouldEqual, 2)
				So(body["year"], ShouldEqual, 2028)
				So(deps.calls[0].n, ShouldEqual, 10)
			})
		})

		Convey("When n is out of bounds", func() {
			So(do(mux, http.MethodGet, "/predictions/top-countries?n=0").Code, ShouldEqual, http.StatusBadRequest)

			w := do(mux, http.MethodGet, "/predictions/top-countries?n=51")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(w)["code"], ShouldEqual, "limit_exceeded")
		})

		Convey("When requesting athletes", func() {
			w := do(mux, http.MethodGet, "/predictions/athletes?strategy=ma")

			Convey("Then the default limit is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["count"], ShouldEqual, 1)
				So(deps.calls[0], ShouldResemble, call{name: "athletes", n: 5, strategy: "ma"})
			})

			Convey("Then the maximum limit is enforced", func() {
				So(do(mux, http.MethodGet, "/predictions/athletes?limit=21").Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When requesting sports", func() {
			w := do(mux, http.MethodGet, "/predictions/sports?year=2032")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["year"], ShouldEqual, 2032)
			So(body["count"], ShouldEqual, 1)
		})

		Convey("When requesting model status", func() {
			w := do(mux, http.MethodGet, "/predictions/models/status")
			So(w.Code, ShouldEqual, http.StatusOK)
			models, ok := decode(w)["models"].([]any)
			So(ok, ShouldBeTrue)
			So(len(models), ShouldEqual, 2)
		})
	})
}

func TestHistoryAndOps(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("When requesting a country history", func() {
			w := do(mux, http.MethodGet, "/history/country/france")

			Convey("Then each period carries its total", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["country"], ShouldEqual, "France")
				series := body["series"].([]any)
				So(len(series), ShouldEqual, 2)
				So(series[1].(map[string]any)["total"], ShouldEqual, 64)
				So(body["total"].(map[string]any)["gold"], ShouldEqual, 26)
			})
		})

		Convey("When probing health, stats and metrics", func() {
			So(do(mux, http.MethodGet, "/healthz").Code, ShouldEqual, http.StatusOK)
			So(decode(do(mux, http.MethodGet, "/stats"))["loaded"], ShouldEqual, true)
			So(do(mux, http.MethodGet, "/metrics").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestOpError(t *testing.T) {
	Convey("Given wrapped API errors", t, func() {
		cause := errors.New("n must be an integer")
		err := api.WrapKind("api.op", api.ErrBadRequest, cause)

		Convey("Then both the kind and the cause match", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: n must be an integer")
		})

		Convey("Then Wrap keeps the upstream kind", func() {
			err := api.Wrap("api.op", service.ErrDataUnavailable)
			So(errors.Is(err, service.ErrDataUnavailable), ShouldBeTrue)
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})

		Convey("Then NewKind has no cause", func() {
			So(api.NewKind("api.op", api.ErrLimitExceeded).Error(), ShouldEqual, "api.op: limit exceeded")
		})
	})
}
