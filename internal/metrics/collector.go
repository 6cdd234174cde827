package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all metrics for the data validation service
type Collector struct {
	// Request counters
	validateRequests prometheus.Counter
	batchRequests    prometheus.Counter
	compareRequests  prometheus.Counter
	reportRequests   prometheus.Counter

	// Error counters
	validateErrors prometheus.Counter
	batchErrors    prometheus.Counter

	// Outcome counters by data type
	validationOutcomes *prometheus.CounterVec

	// Processing histograms
	validateDuration prometheus.Histogram
	batchDuration    prometheus.Histogram
	batchSize        prometheus.Histogram

	// Score histograms
	confidenceScores prometheus.Histogram
	qualityScores    prometheus.Histogram

	// Detection counters
	anomaliesDetected prometheus.Counter
	issuesDetected    prometheus.Counter

	// Storage metrics
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	historyWrites   prometheus.Counter
	historyErrors   prometheus.Counter
	dbQueryDuration prometheus.Histogram
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		// Request counters
		validateRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "validate_requests_total",
			Help:      "Total number of single-item validation requests",
		}),
		batchRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "batch_requests_total",
			Help:      "Total number of batch validation requests",
		}),
		compareRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "compare_requests_total",
			Help:      "Total number of quality comparison requests",
		}),
		reportRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "report_requests_total",
			Help:      "Total number of quality report requests",
		}),

		// Error counters
		validateErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "validate_errors_total",
			Help:      "Total number of validation request errors",
		}),
		batchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "batch_errors_total",
			Help:      "Total number of batch validation errors",
		}),

		validationOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "validation_outcomes_total",
			Help:      "Validation outcomes partitioned by data type and result",
		}, []string{"data_type", "outcome"}),

		// Processing histograms
		validateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "validate_duration_seconds",
			Help:      "Duration of single-item validation operations",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
		batchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "batch_duration_seconds",
			Help:      "Duration of batch validation operations",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
		}),
		batchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "batch_size",
			Help:      "Number of items per batch validation request",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}),

		// Score histograms
		confidenceScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "confidence_score",
			Help:      "Distribution of validation confidence scores",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		qualityScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "quality_score",
			Help:      "Distribution of overall quality scores",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),

		// Detection counters
		anomaliesDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "anomalies_detected_total",
			Help:      "Total number of anomalies detected",
		}),
		issuesDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "issues_detected_total",
			Help:      "Total number of quality issues detected",
		}),

		// Storage metrics
		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "report_cache_hits_total",
			Help:      "Total number of report cache hits",
		}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "report_cache_misses_total",
			Help:      "Total number of report cache misses",
		}),
		historyWrites: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "history_writes_total",
			Help:      "Total number of validation history writes",
		}),
		historyErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "history_errors_total",
			Help:      "Total number of validation history errors",
		}),
		dbQueryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prospect_analyzer",
			Subsystem: "data_validation",
			Name:      "db_query_duration_seconds",
			Help:      "Duration of database queries",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}),
	}
}

// RecordValidation records the outcome of one validation pass.
func (c *Collector) RecordValidation(dataType string, valid bool, confidence float64, duration time.Duration) {
	c.validateRequests.Inc()
	c.validateDuration.Observe(duration.Seconds())
	c.confidenceScores.Observe(confidence)

	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	c.validationOutcomes.WithLabelValues(dataType, outcome).Inc()
}

// RecordValidationError records a failed validation request.
func (c *Collector) RecordValidationError(dataType string) {
	c.validateErrors.Inc()
	c.validationOutcomes.WithLabelValues(dataType, "error").Inc()
}

// RecordBatch records the outcome of one batch validation pass.
func (c *Collector) RecordBatch(size int, duration time.Duration) {
	c.batchRequests.Inc()
	c.batchSize.Observe(float64(size))
	c.batchDuration.Observe(duration.Seconds())
}

// RecordBatchError records a failed batch request.
func (c *Collector) RecordBatchError() {
	c.batchErrors.Inc()
}

// RecordComparison records a quality comparison request.
func (c *Collector) RecordComparison() {
	c.compareRequests.Inc()
}

// RecordReport records a quality report request.
func (c *Collector) RecordReport() {
	c.reportRequests.Inc()
}

// RecordQuality records the outputs of one quality analysis.
func (c *Collector) RecordQuality(overallScore float64, issueCount, anomalyCount int) {
	c.qualityScores.Observe(overallScore)
	c.issuesDetected.Add(float64(issueCount))
	c.anomaliesDetected.Add(float64(anomalyCount))
}

// RecordCacheHit records a report cache hit.
func (c *Collector) RecordCacheHit() {
	c.cacheHits.Inc()
}

// RecordCacheMiss records a report cache miss.
func (c *Collector) RecordCacheMiss() {
	c.cacheMisses.Inc()
}

// RecordHistoryWrite records one persisted validation history entry.
func (c *Collector) RecordHistoryWrite(duration time.Duration) {
	c.historyWrites.Inc()
	c.dbQueryDuration.Observe(duration.Seconds())
}

// RecordHistoryError records a failed history operation.
func (c *Collector) RecordHistoryError() {
	c.historyErrors.Inc()
}
