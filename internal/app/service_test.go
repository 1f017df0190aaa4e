package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/okian/medalcast/internal/adapters/dataset"
	service "github.com/okian/medalcast/internal/app"
	"github.com/okian/medalcast/internal/domain/identity"
	"github.com/okian/medalcast/internal/domain/model"
	"github.com/okian/medalcast/internal/domain/predictor"
	"github.com/okian/medalcast/internal/domain/smoothing"
	. "github.com/smartystreets/goconvey/convey"
)

// memorySource serves records from memory and counts loads.
type memorySource struct {
	mu      sync.Mutex
	records []model.MedalRecord
	loads   int32
}

func (m *memorySource) Load(context.Context) ([]model.MedalRecord, error) {
	atomic.AddInt32(&m.loads, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.MedalRecord(nil), m.records...), nil
}

func (m *memorySource) Describe() string { return "memory" }

func (m *memorySource) set(records []model.MedalRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// fixedModel predicts a constant total.
type fixedModel struct {
	total float64
	err   error
}

func (f fixedModel) FeatureColumns() []string { return []string{predictor.FeatureAvgRecent3} }

func (f fixedModel) Transform(x []float64) ([]float64, error) { return x, nil }

func (f fixedModel) Predict([]float64) (float64, error) { return f.total, f.err }

// fakeModels is an injected artifact provider.
type fakeModels map[string]predictor.Model

func (f fakeModels) Model(_ context.Context, name string) (predictor.Model, error) {
	if m, ok := f[name]; ok {
		return m, nil
	}
	return nil, errors.New("artifact not found")
}

func rec(country string, year, g, s, b int) model.MedalRecord {
	return model.MedalRecord{Country: country, Year: year, Medals: model.Medals{Gold: g, Silver: s, Bronze: b}}
}

func fixture() []model.MedalRecord {
	return []model.MedalRecord{
		rec("Freedonia", 2016, 5, 3, 2),
		rec("Freedonia", 2020, 6, 2, 2),
		rec("Alpha", 2020, 1, 1, 1),
		rec("Bravo", 2020, 2, 1, 0),
		rec("Charlie", 2020, 0, 0, 1),
		rec("USSR", 1988, 55, 31, 46),
		rec("Russia", 2016, 19, 17, 20),
		rec("Unknown", 2020, 9, 9, 9),
		rec("Freedonia", 0, 99, 99, 99),
	}
}

func checkInvariants(f model.Forecast) {
	So(f.Gold, ShouldBeGreaterThanOrEqualTo, 0)
	So(f.Silver, ShouldBeGreaterThanOrEqualTo, 0)
	So(f.Bronze, ShouldBeGreaterThanOrEqualTo, 0)
	So(f.Gold+f.Silver+f.Bronze, ShouldEqual, f.Total)
}

func TestPredictCountry(t *testing.T) {
	Convey("Given a service over an in-memory dataset without models", t, func() {
		src := &memorySource{records: fixture()}
		svc := service.New(service.WithSource(src), service.WithWindow(2))
		ctx := context.Background()

		Convey("When forecasting a country with the moving average", func() {
			f, err := svc.PredictCountry(ctx, "Freedonia", 2024, "ma")
			So(err, ShouldBeNil)

			Convey("Then the smoothed (5.5, 2.5, 2.0) is rounded per medal", func() {
				So(f.Medals, ShouldResemble, model.Medals{Gold: 6, Silver: 3, Bronze: 2})
				So(f.Total, ShouldEqual, 11)
				So(f.Source, ShouldEqual, model.SourceSmoothing)
				So(f.Strategy, ShouldEqual, "ma")
				checkInvariants(f)
			})
		})

		Convey("When forecasting with exponential smoothing", func() {
			f, err := svc.PredictCountry(ctx, "freedonia", 2024, "es")
			So(err, ShouldBeNil)

			Convey("Then the recurrence result is used", func() {
				So(f.Country, ShouldEqual, "Freedonia")
				So(f.Medals, ShouldResemble, model.Medals{Gold: 6, Silver: 3, Bronze: 2})
				So(f.Strategy, ShouldEqual, "es")
			})
		})

		Convey("When forecasting a period before any history", func() {
			f, err := svc.PredictCountry(ctx, "Freedonia", 2012, "")
			So(err, ShouldBeNil)
			So(f.Total, ShouldEqual, 0)
			So(f.Source, ShouldEqual, model.SourceZero)
		})

		Convey("When forecasting an unknown country", func() {
			f, err := svc.PredictCountry(ctx, "Atlantis", 2028, "")

			Convey("Then the forecast is all zeros and not an error", func() {
				So(err, ShouldBeNil)
				So(f.Country, ShouldEqual, "Atlantis")
				So(f.Medals, ShouldResemble, model.Medals{})
				So(f.Total, ShouldEqual, 0)
				So(f.Source, ShouldEqual, model.SourceZero)
			})
		})

		Convey("When forecasting through a historical alias", func() {
			f, err := svc.PredictCountry(ctx, "Soviet Union", 2024, "")

			Convey("Then the history of the canonical country is used", func() {
				So(err, ShouldBeNil)
				So(f.Country, ShouldEqual, "Russia")
				So(f.Total, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the input is invalid", func() {
			_, err := svc.PredictCountry(ctx, "Freedonia", 2024, "arima")
			So(errors.Is(err, service.ErrInvalidStrategy), ShouldBeTrue)

			_, err = svc.PredictCountry(ctx, "Freedonia", 1500, "")
			So(errors.Is(err, service.ErrInvalidYear), ShouldBeTrue)
		})

		Convey("When many requests race on the first load", func() {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = svc.PredictCountry(ctx, "Freedonia", 2024, "")
				}()
			}
			wg.Wait()

			Convey("Then the dataset is loaded once", func() {
				So(atomic.LoadInt32(&src.loads), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a service with a country model", t, func() {
		src := &memorySource{records: fixture()}
		ctx := context.Background()

		Convey("When the model answers", func() {
			svc := service.New(service.WithSource(src), service.WithModels(fakeModels{
				service.ArtifactCountry: fixedModel{total: 10},
			}))
			f, err := svc.PredictCountry(ctx, "Freedonia", 2024, "")
			So(err, ShouldBeNil)

			Convey("Then its total is split by historical proportions", func() {
				// history sums to (11, 5, 4)
				So(f.Source, ShouldEqual, model.SourceModel)
				So(f.Medals, ShouldResemble, model.Medals{Gold: 6, Silver: 3, Bronze: 1})
				So(f.Total, ShouldEqual, 10)
				So(f.Strategy, ShouldEqual, "")
			})
		})

		Convey("When the model fails", func() {
			svc := service.New(service.WithSource(src), service.WithWindow(2), service.WithModels(fakeModels{
				service.ArtifactCountry: fixedModel{err: errors.New("corrupt")},
			}))
			f, err := svc.PredictCountry(ctx, "Freedonia", 2024, "")

			Convey("Then smoothing answers silently", func() {
				So(err, ShouldBeNil)
				So(f.Source, ShouldEqual, model.SourceSmoothing)
				So(f.Total, ShouldEqual, 11)
			})
		})

		Convey("When the country is a placeholder label", func() {
			svc := service.New(service.WithSource(src), service.WithModels(fakeModels{
				service.ArtifactCountry: fixedModel{total: 12},
			}))
			f, err := svc.PredictCountry(ctx, "  unknown ", 2024, "ma")
			So(err, ShouldBeNil)

			Convey("Then the model is skipped and the raw label is echoed with zeros", func() {
				So(f.Country, ShouldEqual, "unknown")
				So(f.Country, ShouldNotEqual, identity.Discard)
				So(f.Medals, ShouldResemble, model.Medals{})
				So(f.Total, ShouldEqual, 0)
				So(f.Source, ShouldEqual, model.SourceZero)
				So(f.Strategy, ShouldEqual, "")
			})

			Convey("Then its history is empty under the raw label", func() {
				cs, err := svc.CountryHistory(ctx, "n/a")
				So(err, ShouldBeNil)
				So(cs.Country, ShouldEqual, "n/a")
				So(cs.Series, ShouldBeEmpty)
			})
		})

		Convey("When the country has no history", func() {
			svc := service.New(service.WithSource(src), service.WithModels(fakeModels{
				service.ArtifactCountry: fixedModel{total: 10},
			}))
			f, err := svc.PredictCountry(ctx, "United States", 2028, "")

			Convey("Then tier ratios split the total", func() {
				So(err, ShouldBeNil)
				So(f.Medals, ShouldResemble, model.Medals{Gold: 5, Silver: 3, Bronze: 2})
			})
		})
	})

	Convey("Given a dataset that does not exist", t, func() {
		svc := service.New(service.WithSource(dataset.NewCSV(filepath.Join(t.TempDir(), "missing.csv"))))

		Convey("Then every forecast reports ErrDataUnavailable", func() {
			_, err := svc.PredictCountry(context.Background(), "France", 2028, "")
			So(errors.Is(err, service.ErrDataUnavailable), ShouldBeTrue)

			_, err = svc.PredictTopCountries(context.Background(), 5, 2028, "")
			So(errors.Is(err, service.ErrDataUnavailable), ShouldBeTrue)

			So(errors.Is(svc.Start(context.Background()), service.ErrDataUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given a service with no dataset configured", t, func() {
		_, err := service.New().PredictCountry(context.Background(), "France", 2028, "")
		So(errors.Is(err, service.ErrDataUnavailable), ShouldBeTrue)
	})
}

func TestPredictTopCountries(t *testing.T) {
	Convey("Given a service over the fixture", t, func() {
		svc := service.New(service.WithSource(&memorySource{records: fixture()}), service.WithWindow(2))
		ctx := context.Background()

		Convey("When asking for more countries than are known", func() {
			top, err := svc.PredictTopCountries(ctx, 100, 2024, "")
			So(err, ShouldBeNil)

			Convey("Then all are returned sorted by total with label tie-break", func() {
				names := make([]string, len(top))
				for i, f := range top {
					names[i] = f.Country
					checkInvariants(f)
				}
				// Russia 94, Freedonia 11, Alpha 3, Bravo 3, Charlie 1
				So(names, ShouldResemble, []string{"Russia", "Freedonia", "Alpha", "Bravo", "Charlie"})
				for i := 1; i < len(top); i++ {
					So(top[i-1].Total, ShouldBeGreaterThanOrEqualTo, top[i].Total)
				}
			})
		})

		Convey("When truncating", func() {
			top, err := svc.PredictTopCountries(ctx, 2, 2024, "ma")
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 2)
			So(top[1].Country, ShouldEqual, "Freedonia")
		})

		Convey("When the limit is not positive", func() {
			_, err := svc.PredictTopCountries(ctx, 0, 2024, "")
			So(errors.Is(err, service.ErrInvalidLimit), ShouldBeTrue)
		})
	})
}

func TestPredictAthletes(t *testing.T) {
	Convey("Given athlete records", t, func() {
		athlete := func(name, country, sport string, year, g int) model.MedalRecord {
			return model.MedalRecord{Country: country, Athlete: name, Sport: sport, ParticipantType: "Athlete", Year: year, Medals: model.Medals{Gold: g}}
		}
		records := []model.MedalRecord{
			athlete("Ada", "Freedonia", "Fencing", 2016, 1),
			athlete("Ada", "Freedonia", "Fencing", 2020, 1),
			athlete("Bea", "Freedonia", "Rowing", 2020, 1),
			athlete("Cal", "Alpha", "Judo", 2016, 1),
			{Country: "Alpha", Athlete: "Team", ParticipantType: "GameTeam", Sport: "Hockey", Year: 2020, Medals: model.Medals{Gold: 1}},
		}
		svc := service.New(service.WithSource(&memorySource{records: records}))
		ctx := context.Background()

		Convey("When listing athletes", func() {
			out, err := svc.PredictAthletes(ctx, 10, "")
			So(err, ShouldBeNil)

			Convey("Then team entries are excluded and ordering is score, total, name", func() {
				So(len(out), ShouldEqual, 3)
				So(out[0].Athlete, ShouldEqual, "Ada")
				So(out[0].HistoricalTotal, ShouldEqual, 2)
				So(out[0].Score, ShouldAlmostEqual, 0.11)
				So(out[1].Athlete, ShouldEqual, "Bea")
				So(out[2].Athlete, ShouldEqual, "Cal")
				So(out[0].Projected.Gold, ShouldEqual, 1)
				for _, a := range out {
					So(a.Score, ShouldBeBetweenOrEqual, 0, 1)
				}
			})
		})

		Convey("When limiting", func() {
			out, err := svc.PredictAthletes(ctx, 1, "")
			So(err, ShouldBeNil)
			So(len(out), ShouldEqual, 1)
		})

		Convey("When an athlete model is available", func() {
			svc := service.New(service.WithSource(&memorySource{records: records}), service.WithModels(fakeModels{
				service.ArtifactAthlete: fixedModel{total: 3},
			}))
			out, err := svc.PredictAthletes(ctx, 10, "")
			So(err, ShouldBeNil)

			Convey("Then scores come from the model and are capped at one", func() {
				So(out[0].Score, ShouldEqual, 1)
				So(out[0].Source, ShouldEqual, model.SourceModel)
			})
		})

		Convey("When the limit is not positive", func() {
			_, err := svc.PredictAthletes(ctx, -1, "")
			So(errors.Is(err, service.ErrInvalidLimit), ShouldBeTrue)
		})
	})
}

func TestPredictSports(t *testing.T) {
	Convey("Given records across sports", t, func() {
		records := []model.MedalRecord{
			{Country: "Alpha", Sport: "Judo", Year: 2016, Medals: model.Medals{Gold: 1, Bronze: 2}},
			{Country: "Alpha", Sport: "Judo", Year: 2020, Medals: model.Medals{Gold: 1, Bronze: 2}},
			{Country: "Bravo", Sport: "Archery", Year: 2020, Medals: model.Medals{Silver: 1}},
		}
		svc := service.New(service.WithSource(&memorySource{records: records}))

		out, err := svc.PredictSports(context.Background(), 2024, "")
		So(err, ShouldBeNil)

		Convey("Then sports are ordered by projected total", func() {
			So(len(out), ShouldEqual, 2)
			So(out[0].Sport, ShouldEqual, "Judo")
			So(out[0].Total, ShouldEqual, 3)
			So(out[1].Sport, ShouldEqual, "Archery")
			So(out[1].Year, ShouldEqual, 2024)
		})
	})
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a started service", t, func() {
		src := &memorySource{records: fixture()}
		svc := service.New(
			service.WithSource(src),
			service.WithDefaultStrategy(smoothing.ExponentialStrategy),
			service.WithDefaultYear(2032),
			service.WithHosts(map[int]string{2032: "Australia"}),
		)
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("Then stats describe the loaded dataset", func() {
			stats := svc.GetStats()
			So(stats["loaded"], ShouldEqual, true)
			So(stats["source"], ShouldEqual, "memory")
			So(stats["defaultStrategy"], ShouldEqual, "es")
			So(stats["defaultYear"], ShouldEqual, 2032)
		})

		Convey("Then defaults apply to requests that omit them", func() {
			f, err := svc.PredictCountry(context.Background(), "Freedonia", 0, "")
			So(err, ShouldBeNil)
			So(f.Year, ShouldEqual, 2032)
			So(f.Strategy, ShouldEqual, "es")
		})

		Convey("When the dataset changes and the service reloads", func() {
			src.set([]model.MedalRecord{rec("Zed", 2020, 1, 0, 0)})
			So(svc.Reload(context.Background()), ShouldBeNil)

			Convey("Then the new history is served", func() {
				names, err := svc.Countries(context.Background())
				So(err, ShouldBeNil)
				So(names, ShouldResemble, []string{"Zed"})
				So(atomic.LoadInt32(&src.loads), ShouldEqual, 2)
			})
		})

		Convey("When reading a country history", func() {
			cs, err := svc.CountryHistory(context.Background(), "FREEDONIA")
			So(err, ShouldBeNil)
			So(cs.Country, ShouldEqual, "Freedonia")
			So(len(cs.Series), ShouldEqual, 2)
		})
	})
}

func TestModelsStatus(t *testing.T) {
	Convey("Given a provider with one artifact", t, func() {
		svc := service.New(service.WithModels(fakeModels{service.ArtifactCountry: fixedModel{total: 1}}))
		status := svc.ModelsStatus(context.Background())

		Convey("Then every artifact name is reported", func() {
			So(len(status), ShouldEqual, len(service.ArtifactNames))
			So(status[0].Name, ShouldEqual, service.ArtifactCountry)
			So(status[0].Available, ShouldBeTrue)
			So(status[0].Features, ShouldResemble, []string{predictor.FeatureAvgRecent3})
			So(status[1].Available, ShouldBeFalse)
			So(status[1].Error, ShouldNotBeEmpty)
		})
	})

	Convey("Given no provider", t, func() {
		status := service.New().ModelsStatus(context.Background())
		So(status[0].Available, ShouldBeFalse)
	})
}
