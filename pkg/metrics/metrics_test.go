package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a metrics manager with a custom registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("Then it should be created with all collectors registered", func() {
			So(manager, ShouldNotBeNil)

			families, err := registry.Gather()
			So(err, ShouldBeNil)
			// Counters without observations are still registered; gauges show up.
			So(families, ShouldNotBeNil)
		})
	})

	Convey("Given a metrics manager with custom options", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(
			WithPrometheusRegistry(registry),
			WithNamespace("school"),
			WithSubsystem("roster"),
			WithHistogramBuckets([]float64{1, 10, 100}),
		)

		Convey("Then options should be applied without panicking", func() {
			So(manager, ShouldNotBeNil)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording business metrics", func() {
			So(func() {
				RecordSignup()
				RecordUnregister()
				RecordRejection("not_found")
				RecordRejection("already_signed_up")
				UpdateActivityCount(9)
				UpdateParticipantCount(15)
			}, ShouldNotPanic)
		})

		Convey("When recording audit metrics", func() {
			So(func() {
				RecordAuditEvent()
				RecordAuditDrop()
				RecordAuditDuplicate()
				UpdateAuditTrailSize(3)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("activities", "GET", "200")
				RecordHTTPRequestDuration("activities", "GET", "200", 1.5)
				RecordErrorByEndpoint("signup", "POST", "not_found")
				RecordErrorByType("not_found", "medium")
				RecordErrorLatency("http", "not_found", 0.7)
			}, ShouldNotPanic)
		})

		Convey("When recording queue and worker metrics", func() {
			So(func() {
				UpdateQueueSize(1)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.01)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueDequeueError()
				RecordQueueProcessingLatency(0.2)
				UpdateWorkerCount(4)
				UpdateWorkerActiveCount(4)
				UpdateWorkerIdleCount(0)
				RecordWorkerProcessingLatency(0.3)
				RecordWorkerError()
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.1)
			}, ShouldNotPanic)
		})

		Convey("Then the global registry should gather without error", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
