package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10}),
				WithMetricsEnabled(true),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(m, ShouldNotBeNil)
				So(m.namespace, ShouldEqual, "test")
				So(m.subsystem, ShouldEqual, "unit")
				So(m.histogramBuckets, ShouldResemble, []float64{1, 10})
				So(m.constLabels["env"], ShouldEqual, "test")
			})

			Convey("And collectors are registered on the given registry", func() {
				m.forecastsTotal.WithLabelValues("country", "model").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				So(families[0].GetName(), ShouldStartWith, "test_unit_")
			})
		})

		Convey("When empty values are passed", func() {
			m := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(m.namespace, ShouldEqual, "medalcast")
				So(m.subsystem, ShouldEqual, "forecast")
				So(len(m.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording forecasts", func() {
			before := testutil.ToFloat64(globalManager.forecastsTotal.WithLabelValues("country", "smoothing"))
			RecordForecast("country", "smoothing", 1.5)
			RecordForecast("country", "smoothing", 2.5)

			Convey("Then the counter moves", func() {
				after := testutil.ToFloat64(globalManager.forecastsTotal.WithLabelValues("country", "smoothing"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When recording cache and dataset activity", func() {
			hits := testutil.ToFloat64(globalManager.artifactCacheHits)
			RecordArtifactCacheHit()
			RecordArtifactCacheMiss()
			UpdateArtifactCacheEntries(3)
			RecordArtifactLoad(4)
			RecordDatasetLoad("ok", 12)
			UpdateDatasetRecords(100, 7)
			UpdateKnownEntities("countries", 42)

			Convey("Then gauges and counters reflect it", func() {
				So(testutil.ToFloat64(globalManager.artifactCacheHits)-hits, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.artifactCacheEntries), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.datasetRecords), ShouldEqual, 100)
				So(testutil.ToFloat64(globalManager.datasetDropped), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.knownEntities.WithLabelValues("countries")), ShouldEqual, 42)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			So(func() {
				RecordHTTPRequest("top_countries", "GET", "200")
				RecordHTTPRequestDuration("top_countries", "GET", "200", 3)
				RecordErrorByEndpoint("country", "GET", "client_error")
				RecordErrorByType("client_error", "medium")
				RecordFallback("country", "model")
				RecordModelFailure("country", "not_found")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When metrics are disabled", func() {
			SetEnabled(false)
			defer SetEnabled(true)
			before := testutil.ToFloat64(globalManager.fallbacksTotal.WithLabelValues("top", "model"))
			RecordFallback("top", "model")

			Convey("Then nothing is recorded", func() {
				So(testutil.ToFloat64(globalManager.fallbacksTotal.WithLabelValues("top", "model")), ShouldEqual, before)
			})
		})

		Convey("Then the registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
