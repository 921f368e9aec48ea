package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	ProjectInteractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_interactions_total",
			Help: "Total number of project views and likes",
		},
		[]string{"kind"}, // kind: view, like
	)

	ReorderBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reorder_batches_total",
			Help: "Total number of reorder requests per collection",
		},
		[]string{"collection", "status"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of outbound emails",
		},
		[]string{"driver", "status"}, // status: success, failed
	)

	AssetOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_operations_total",
			Help: "Total number of stored file operations",
		},
		[]string{"operation", "status"},
	)

	ContactSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Total number of contact form submissions",
		},
		[]string{"status"}, // status: accepted, rejected, limited
	)
)

func status(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementProjectView() {
	ProjectInteractions.WithLabelValues("view").Inc()
}

func IncrementProjectLike() {
	ProjectInteractions.WithLabelValues("like").Inc()
}

func RecordReorder(collection string, err error) {
	ReorderBatches.WithLabelValues(collection, status(err)).Inc()
}

func RecordEmail(driver string, err error) {
	EmailsSent.WithLabelValues(driver, status(err)).Inc()
}

func RecordAssetOperation(operation string, err error) {
	AssetOperations.WithLabelValues(operation, status(err)).Inc()
}

func IncrementContactSubmission(result string) {
	ContactSubmissions.WithLabelValues(result).Inc()
}
