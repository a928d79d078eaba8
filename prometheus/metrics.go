package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"challan-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Catalog metrics
	CatalogSyncCreatedTotal    prometheus.Counter
	CatalogSyncDuplicatesTotal prometheus.Counter
	CatalogOperationsCounter   *prometheus.CounterVec

	// Challan metrics
	ChallanOperationsCounter *prometheus.CounterVec
	ItemBatchSize            prometheus.Histogram
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	CatalogSyncCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_catalog_sync_created_total",
			Help: "Total number of catalog entries created by name sync",
		},
	)

	CatalogSyncDuplicatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_catalog_sync_duplicates_total",
			Help: "Total number of names reported as duplicates by name sync",
		},
	)

	CatalogOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_catalog_operations_total",
			Help: "Total number of catalog item operations",
		},
		[]string{"operation"},
	)

	ChallanOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_challan_operations_total",
			Help: "Total number of draft challan operations",
		},
		[]string{"operation"},
	)

	ItemBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_item_batch_size",
			Help:    "Number of line items per batch write",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordCatalogSync records the outcome of one catalog name sync
func RecordCatalogSync(created, duplicates int) {
	if CatalogSyncCreatedTotal == nil || CatalogSyncDuplicatesTotal == nil {
		return
	}
	CatalogSyncCreatedTotal.Add(float64(created))
	CatalogSyncDuplicatesTotal.Add(float64(duplicates))
}

// RecordCatalogOperation increments the counter for catalog item operations
func RecordCatalogOperation(operation string) {
	if CatalogOperationsCounter == nil {
		return
	}
	CatalogOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordChallanOperation increments the counter for draft challan operations
func RecordChallanOperation(operation string) {
	if ChallanOperationsCounter == nil {
		return
	}
	ChallanOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordItemBatch records the size of one line-item batch write
func RecordItemBatch(size int) {
	if ItemBatchSize == nil {
		return
	}
	ItemBatchSize.Observe(float64(size))
}
