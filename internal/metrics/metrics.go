package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IssueDuration tracks the latency of campaign code issuance
	IssueDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "qr_issue_duration_seconds",
			Help: "Duration of campaign code issuance requests in seconds",
			Buckets: []float64{
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
				5.0,   // 5s
			},
		},
		[]string{"status"}, // success or failure
	)

	// Scans counts scan-redirect resolutions
	Scans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_scans_total",
			Help: "Total number of scan redirects served",
		},
		[]string{"resolved"}, // known or orphan
	)

	// StorageDegraded counts durable writes and reads that fell back to the
	// in-memory store
	StorageDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_storage_degraded_total",
			Help: "Total number of operations degraded to the fallback store",
		},
		[]string{"operation"}, // write or read
	)

	// ReportFailures counts coordination reports that were dropped or rejected
	ReportFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_report_failures_total",
			Help: "Total number of failed coordination reports",
		},
		[]string{"reason"}, // send_error, bad_status, queue_full
	)
)

// RecordIssueDuration records the duration of an issuance request
func RecordIssueDuration(status string, duration float64) {
	IssueDuration.WithLabelValues(status).Observe(duration)
}
