package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Catalog deletion counters, labelled by level (category, subcategory,
	// group) and outcome (deleted, blocked, reassigned, forced).
	CatalogDeleteCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_catalog_deletes_total",
			Help: "Total number of catalog deletion attempts by level and outcome",
		},
		[]string{"level", "outcome"},
	)

	EnquiryCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bazaar_enquiries_total",
			Help: "Total number of customer enquiries opened",
		},
	)

	PrintRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_print_requests_total",
			Help: "Total number of print request operations",
		},
		[]string{"operation"}, // create, quote, accept, decline
	)

	UploadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_uploads_total",
			Help: "Total number of media uploads by bucket",
		},
		[]string{"bucket"},
	)

	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bazaar_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bazaar_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(CatalogDeleteCounter)
	prometheus.MustRegister(EnquiryCounter)
	prometheus.MustRegister(PrintRequestCounter)
	prometheus.MustRegister(UploadCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
}

// Handler returns the HTTP handler for the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation records the duration of a database operation:
//
//	defer metrics.TrackDBOperation("delete_category")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordCatalogDelete increments the deletion counter for one attempt.
func RecordCatalogDelete(level, outcome string) {
	CatalogDeleteCounter.WithLabelValues(level, outcome).Inc()
}

// RecordPrintRequest increments the print request operation counter.
func RecordPrintRequest(operation string) {
	PrintRequestCounter.WithLabelValues(operation).Inc()
}

// RecordUpload increments the upload counter for a bucket.
func RecordUpload(bucket string) {
	UploadCounter.WithLabelValues(bucket).Inc()
}
