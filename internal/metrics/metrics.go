// Package metrics exposes the spooler's Prometheus series. Adapted
// structurally from the teacher's internal/metrics/metrics.go (same
// promauto + CounterVec/HistogramVec/Gauge idiom), renamed to the
// print-spooling domain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spool_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spool_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Job lifecycle metrics
	JobsSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spool_jobs_submitted_total",
			Help: "Total number of jobs accepted for submission",
		},
	)

	JobsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spool_jobs_completed_total",
			Help: "Total number of jobs that finished printing successfully",
		},
	)

	JobsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spool_jobs_failed_total",
			Help: "Total number of jobs that ended in SubmitFailed",
		},
		[]string{"reason"}, // overload, busy, render_error
	)

	// Pipeline container gauges, sampled by the pipeline's stats reporter
	// (the teacher's processor.reportStats equivalent).
	BufferSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spool_buffer_size",
			Help: "Current size of a bounded FIFO buffer",
		},
		[]string{"name"},
	)

	BufferCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spool_buffer_capacity",
			Help: "Capacity of a bounded FIFO buffer",
		},
		[]string{"name"},
	)

	WellSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spool_well_size",
			Help: "Current size of a bounded priority well",
		},
		[]string{"name"},
	)

	WellCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spool_well_capacity",
			Help: "Capacity of a bounded priority well",
		},
		[]string{"name"},
	)

	// Printer metrics
	PrinterRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spool_printer_render_duration_seconds",
			Help:    "Time taken to render one job",
			Buckets: []float64{.5, 1, 2, 3, 5, 8, 13},
		},
	)

	PrinterBusyRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spool_printer_busy_rejections_total",
			Help: "Total number of submit_task calls rejected because the printer was busy",
		},
	)

	// Kafka job-event sink metrics
	KafkaPublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spool_kafka_publish_total",
			Help: "Total number of job events published to Kafka",
		},
		[]string{"status"}, // status: success, failed
	)

	KafkaPublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spool_kafka_publish_duration_seconds",
			Help:    "Time taken to publish a batch of job events to Kafka",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	KafkaPublishRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spool_kafka_publish_retries_total",
			Help: "Total number of Kafka publish retries",
		},
	)

	// Panic recovery
	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spool_panics_recovered_total",
			Help: "Total number of panics recovered",
		},
		[]string{"component"},
	)
)
