package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prospect-analyzer/data-validation/internal/config"
	"github.com/prospect-analyzer/data-validation/internal/metrics"
	"github.com/prospect-analyzer/data-validation/internal/models"
	"github.com/prospect-analyzer/data-validation/internal/realtime"
	"github.com/prospect-analyzer/data-validation/internal/service"
	"github.com/prospect-analyzer/data-validation/internal/storage"
)

// Handler contains all API handlers
type Handler struct {
	config    *config.Config
	logger    *zap.Logger
	service   *service.Service
	collector *metrics.Collector
	cache     *storage.ReportCache
	history   *storage.HistoryRepository
	hub       *realtime.Hub
}

// NewHandler creates a new API handler. The cache, history repository and hub
// are optional and may be nil when their backends are disabled.
func NewHandler(
	cfg *config.Config,
	logger *zap.Logger,
	svc *service.Service,
	collector *metrics.Collector,
	cache *storage.ReportCache,
	history *storage.HistoryRepository,
	hub *realtime.Hub,
) *Handler {
	return &Handler{
		config:    cfg,
		logger:    logger,
		service:   svc,
		collector: collector,
		cache:     cache,
		history:   history,
		hub:       hub,
	}
}

// ValidateRequest is the body of a single-item validation request.
type ValidateRequest struct {
	DataType       string          `json:"data_type" binding:"required"`
	Data           json.RawMessage `json:"data" binding:"required"`
	StrictMode     *bool           `json:"strict_mode"`
	IncludeQuality *bool           `json:"include_quality"`
}

// BatchRequest is the body of a batch validation request.
type BatchRequest struct {
	Items          []service.ItemInput `json:"items" binding:"required"`
	StrictMode     *bool               `json:"strict_mode"`
	IncludeQuality *bool               `json:"include_quality"`
}

// CompareRequest is the body of a quality comparison request.
type CompareRequest struct {
	Items    []service.ItemInput `json:"items" binding:"required"`
	Criteria []string            `json:"criteria"`
}

// ReportRequest is the body of a report generation request.
type ReportRequest struct {
	Items  []service.ItemInput `json:"items" binding:"required"`
	Format string              `json:"format"`
}

// Health returns service health status
func (h *Handler) Health(c *gin.Context) {
	components := map[string]string{
		"validation": "healthy",
	}
	status := http.StatusOK

	if h.cache != nil {
		components["cache"] = "healthy"
		if err := h.cache.Health(c.Request.Context()); err != nil {
			components["cache"] = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}
	if h.hub != nil {
		components["realtime"] = "healthy"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":     overall,
		"timestamp":  time.Now().UTC(),
		"components": components,
	})
}

// Validate validates and scores a single record.
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	includeQuality := h.config.Validation.IncludeQuality
	if req.IncludeQuality != nil {
		includeQuality = *req.IncludeQuality
	}
	strict := h.config.Validation.StrictMode
	if req.StrictMode != nil {
		strict = *req.StrictMode
	}

	start := time.Now()

	rec, err := models.UnmarshalRecord(req.DataType, req.Data)
	if err != nil {
		h.collector.RecordValidationError(req.DataType)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	assessment := h.service.ValidateAndScore(rec, service.Options{
		StrictMode:     strict,
		IncludeQuality: includeQuality,
	})

	h.collector.RecordValidation(req.DataType,
		assessment.Validation.IsValid,
		assessment.Validation.ConfidenceScore,
		time.Since(start))
	if assessment.QualityReport != nil {
		h.collector.RecordQuality(assessment.QualityReport.OverallScore,
			len(assessment.QualityReport.Issues),
			len(assessment.QualityReport.Anomalies))

		if gradeBelow(assessment.QualityReport.Grade, h.config.Quality.MinAcceptableGrade) {
			h.logger.Warn("data quality below acceptable grade",
				zap.String("data_type", req.DataType),
				zap.String("grade", assessment.QualityReport.Grade),
				zap.String("min_acceptable", h.config.Quality.MinAcceptableGrade))
		}
	}

	h.persistAssessments("", assessment)

	c.JSON(http.StatusOK, assessment)
}

// ValidateBatch validates a batch of records.
func (h *Handler) ValidateBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.collector.RecordBatchError()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if len(req.Items) > h.config.Validation.MaxBatchSize {
		h.collector.RecordBatchError()
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "Batch exceeds maximum size",
			"limit": h.config.Validation.MaxBatchSize,
		})
		return
	}

	includeQuality := h.config.Validation.IncludeQuality
	if req.IncludeQuality != nil {
		includeQuality = *req.IncludeQuality
	}
	strict := h.config.Validation.StrictMode
	if req.StrictMode != nil {
		strict = *req.StrictMode
	}

	start := time.Now()
	result := h.service.ValidateMultiple(req.Items, strict, includeQuality)
	h.collector.RecordBatch(len(req.Items), time.Since(start))

	if h.hub != nil {
		h.hub.PublishProgress(realtime.BatchProgress{
			BatchID:   result.BatchID,
			Processed: result.Statistics.TotalItems,
			Total:     result.Statistics.TotalItems,
			Valid:     result.Statistics.ValidItems,
			Invalid:   result.Statistics.InvalidItems,
		})
		h.hub.PublishCompleted(result.BatchID, result.Statistics)
	}
	h.persistAssessments(result.BatchID, result.Items...)

	c.JSON(http.StatusOK, result)
}

// Compare ranks a set of records by quality.
func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	h.collector.RecordComparison()
	c.JSON(http.StatusOK, h.service.CompareQuality(req.Items, req.Criteria))
}

// GenerateReport renders a quality report over a batch of records.
func (h *Handler) GenerateReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	h.collector.RecordReport()
	report := h.service.GenerateReport(req.Items, service.ParseReportFormat(req.Format))

	if h.cache != nil {
		if id := reportID(report); id != "" {
			if err := h.cache.Store(c.Request.Context(), id, report); err != nil {
				h.logger.Warn("failed to cache report", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, report)
}

// GetReport fetches a previously generated report from the cache.
func (h *Handler) GetReport(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report cache is not enabled"})
		return
	}

	raw, err := h.cache.Get(c.Request.Context(), c.Param("id"))
	if err == storage.ErrCacheMiss {
		h.collector.RecordCacheMiss()
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to read cached report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		return
	}

	h.collector.RecordCacheHit()
	c.Data(http.StatusOK, "application/json", raw)
}

// GetHistory lists recent validation outcomes.
func (h *Handler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Validation history is not enabled"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}

	records, err := h.history.ListRecent(c.Request.Context(), c.Query("data_type"), limit)
	if err != nil {
		h.collector.RecordHistoryError()
		h.logger.Error("failed to list validation history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// GetBatchHistory lists the persisted outcomes of one batch.
func (h *Handler) GetBatchHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Validation history is not enabled"})
		return
	}

	records, err := h.history.ListByBatch(c.Request.Context(), c.Param("batch_id"))
	if err != nil {
		h.collector.RecordHistoryError()
		h.logger.Error("failed to list batch history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve batch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// ProspectConfidence validates a batch and rolls it up into per-family
// confidence scores for one prospect.
func (h *Handler) ProspectConfidence(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	strict := h.config.Validation.StrictMode
	if req.StrictMode != nil {
		strict = *req.StrictMode
	}

	result := h.service.ValidateMultiple(req.Items, strict, false)

	c.JSON(http.StatusOK, gin.H{
		"batch_id":          result.BatchID,
		"confidence_scores": service.ProspectConfidence(result),
		"statistics":        result.Statistics,
	})
}

// persistAssessments writes assessments to the history store when enabled.
func (h *Handler) persistAssessments(batchID string, assessments ...*service.Assessment) {
	if h.history == nil {
		return
	}

	ctx := context.Background()
	for _, assessment := range assessments {
		if assessment.Validation == nil {
			continue
		}
		start := time.Now()
		if _, err := h.history.RecordAssessment(ctx, batchID, assessment); err != nil {
			h.collector.RecordHistoryError()
			h.logger.Warn("failed to persist assessment",
				zap.String("item_id", assessment.ID),
				zap.Error(err))
			continue
		}
		h.collector.RecordHistoryWrite(time.Since(start))
	}
}

var gradeRank = map[string]int{"A": 0, "B": 1, "C": 2, "D": 3, "F": 4}

// gradeBelow reports whether grade is worse than the configured minimum.
func gradeBelow(grade, minimum string) bool {
	g, ok := gradeRank[grade]
	if !ok {
		return false
	}
	m, ok := gradeRank[minimum]
	if !ok {
		return false
	}
	return g > m
}

// reportID extracts the generated ID from any report shape.
func reportID(report interface{}) string {
	switch r := report.(type) {
	case *service.ExecutiveReport:
		return r.ReportID
	case *service.SummaryReport:
		return r.ReportID
	case *service.DetailedReport:
		return r.ReportID
	default:
		return ""
	}
}
