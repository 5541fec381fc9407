package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// value reads the current value of a counter or gauge.
func value(m prometheus.Metric) float64 {
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		return -1
	}
	if c := out.GetCounter(); c != nil {
		return c.GetValue()
	}
	return out.GetGauge().GetValue()
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then every metric is registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.rankingsComputed.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(f.GetName(), ShouldStartWith, "hirematch_")
				}
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("scorer"),
				WithHistogramBuckets([]float64{1, 10}),
				WithScoreBuckets([]float64{50}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.rankingsComputed.Inc()

			Convey("Then the options shape the exposition", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_scorer_rankings_computed_total")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 10})
				So(manager.scoreBuckets, ShouldResemble, []float64{50})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When options receive empty values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithScoreBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "hirematch")
				So(manager.subsystem, ShouldEqual, "matching")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
				So(len(manager.scoreBuckets), ShouldEqual, 10)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		m := globalManager

		Convey("When recording a ranking", func() {
			rankings := value(m.rankingsComputed)
			scored := value(m.candidatesScored)
			RecordRanking(12)
			RecordCandidateScored()

			Convey("Then rankings and scored pairs are counted", func() {
				So(value(m.rankingsComputed), ShouldEqual, rankings+1)
				So(value(m.candidatesScored), ShouldEqual, scored+13)
			})
		})

		Convey("When recording cache traffic", func() {
			hits := value(m.cacheHits)
			misses := value(m.cacheMisses)
			getErrs := value(m.cacheErrors.WithLabelValues("get"))
			RecordCacheHit()
			RecordCacheHit()
			RecordCacheMiss()
			RecordCacheError("get")

			Convey("Then each counter moves", func() {
				So(value(m.cacheHits), ShouldEqual, hits+2)
				So(value(m.cacheMisses), ShouldEqual, misses+1)
				So(value(m.cacheErrors.WithLabelValues("get")), ShouldEqual, getErrs+1)
			})
		})

		Convey("When recording store activity", func() {
			before := value(m.storeErrors.WithLabelValues("postgres", "list_candidates", "query"))
			RecordStoreQueryLatency("postgres", "list_candidates", 3.5)
			RecordStoreError("postgres", "list_candidates", "query")
			UpdateStoreSize(40, 3)

			Convey("Then errors are labelled and gauges set", func() {
				So(value(m.storeErrors.WithLabelValues("postgres", "list_candidates", "query")), ShouldEqual, before+1)
				So(value(m.storedRecords.WithLabelValues("candidates")), ShouldEqual, 40)
				So(value(m.storedRecords.WithLabelValues("positions")), ShouldEqual, 3)
			})
		})

		Convey("When recording HTTP traffic and errors", func() {
			before := value(m.httpRequests.WithLabelValues("matches", "GET", "200"))
			RecordHTTPRequest("matches", "GET", "200")
			RecordHTTPRequestDuration("matches", "GET", "200", 4.2)
			RecordErrorByComponent("service", "store_unavailable")
			RecordErrorByEndpoint("matches", "GET", "not_found")

			Convey("Then the request is counted", func() {
				So(value(m.httpRequests.WithLabelValues("matches", "GET", "200")), ShouldEqual, before+1)
				So(value(m.errorRateByEndpoint.WithLabelValues("matches", "GET", "not_found")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When observing scores and latencies", func() {
			So(func() {
				ObserveMatchScore(0)
				ObserveMatchScore(100)
				RecordRankingLatency(0.25)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordCacheMiss()
		families, err := GetRegistry().Gather()

		Convey("Then it exposes service and runtime metrics", func() {
			So(err, ShouldBeNil)
			var service, runtime bool
			for _, f := range families {
				service = service || strings.HasPrefix(f.GetName(), "hirematch_cache_")
				runtime = runtime || strings.HasPrefix(f.GetName(), "go_")
			}
			So(service, ShouldBeTrue)
			So(runtime, ShouldBeTrue)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		before := value(globalManager.cacheHits)
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					RecordCacheHit()
					ObserveMatchScore(50)
				}
			}()
		}
		wg.Wait()

		Convey("Then no update is lost", func() {
			So(value(globalManager.cacheHits), ShouldEqual, before+1000)
		})
	})
}
