package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"store": "memory"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordReceiptProcessed(28)

			Convey("Then metric names should carry the namespace and subsystem", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_unit_receipts_processed_total")
				So(names, ShouldContain, "test_unit_receipt_points")
			})
		})

		Convey("When registering two managers on the same registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the duplicate registration should panic", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording processed receipts", func() {
			m.RecordReceiptProcessed(28)
			m.RecordReceiptProcessed(109)

			Convey("Then the counter and histogram should reflect them", func() {
				So(testutil.ToFloat64(m.receiptsProcessed), ShouldEqual, 2)
				So(testutil.CollectAndCount(m.receiptPoints), ShouldEqual, 1)
			})
		})

		Convey("When recording lookups", func() {
			m.RecordPointsLookup(LookupHit)
			m.RecordPointsLookup(LookupHit)
			m.RecordPointsLookup(LookupMiss)

			Convey("Then hits and misses should be counted separately", func() {
				So(testutil.ToFloat64(m.pointsLookups.WithLabelValues(LookupHit)), ShouldEqual, 2)
				So(testutil.ToFloat64(m.pointsLookups.WithLabelValues(LookupMiss)), ShouldEqual, 1)
			})
		})

		Convey("When recording store metrics", func() {
			m.UpdateReceiptsStored(7)
			m.RecordIDCollision()
			m.RecordStoreLatency("submit", 0.2)

			Convey("Then gauges and counters should be updated", func() {
				So(testutil.ToFloat64(m.receiptsStored), ShouldEqual, 7)
				So(testutil.ToFloat64(m.idCollisions), ShouldEqual, 1)
			})
		})

		Convey("When recording validation and error metrics", func() {
			m.RecordValidationError("total")
			m.RecordErrorByComponent("store", "id_generation")
			m.RecordErrorByType("client_error", "medium")
			m.RecordErrorByEndpoint("process", "POST", "client_error")

			Convey("Then each vector should hold the labelled sample", func() {
				So(testutil.ToFloat64(m.validationErrors.WithLabelValues("total")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errorRateByComponent.WithLabelValues("store", "id_generation")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errorRateByType.WithLabelValues("client_error", "medium")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errorRateByEndpoint.WithLabelValues("process", "POST", "client_error")), ShouldEqual, 1)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					m.RecordHTTPRequest("process", "POST", "200")
					m.RecordHTTPRequestDuration("process", "POST", "200", 1.5)
					m.RecordScoringLatency(0.01)
					m.UpdateSystemMemoryUsage(1024)
					m.UpdateSystemGoroutineCount(12)
					m.RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording through package-level functions", func() {
			before := testutil.ToFloat64(globalManager.receiptsProcessed)
			RecordReceiptProcessed(10)
			UpdateReceiptsStored(3)

			Convey("Then the global registry should observe the samples", func() {
				So(testutil.ToFloat64(globalManager.receiptsProcessed), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.receiptsStored), ShouldEqual, 3)
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
