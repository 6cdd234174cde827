package service

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/prospect-analyzer/data-validation/internal/models"
	"github.com/prospect-analyzer/data-validation/internal/quality"
	"github.com/prospect-analyzer/data-validation/internal/validation"
)

// Service is the unified entry point for validation, quality scoring,
// comparison and reporting across all supported data types.
type Service struct {
	validator *validation.Validator
	scorer    *quality.Scorer
	logger    *zap.Logger
}

// New creates a validation service.
func New(validator *validation.Validator, scorer *quality.Scorer, logger *zap.Logger) *Service {
	return &Service{
		validator: validator,
		scorer:    scorer,
		logger:    logger,
	}
}

// Options controls a single validate-and-score pass.
type Options struct {
	// StrictMode enables the stricter validation rules for optional data.
	StrictMode bool
	// IncludeQuality enables the full quality analysis on top of validation.
	IncludeQuality bool
	// Related carries other records collected for the same prospect, used
	// for cross-reference consistency checks.
	Related map[models.DataType]models.Record
}

// Summary condenses an assessment into the fields callers act on.
type Summary struct {
	Status             string   `json:"status"`
	Message            string   `json:"message,omitempty"`
	ConfidenceLevel    string   `json:"confidence_level,omitempty"`
	ConfidenceScore    float64  `json:"confidence_score"`
	PrimaryIssues      []string `json:"primary_issues,omitempty"`
	KeyRecommendations []string `json:"key_recommendations,omitempty"`
	OverallGrade       string   `json:"overall_grade,omitempty"`
	OverallScore       float64  `json:"overall_score,omitempty"`
	DataRichnessLevel  string   `json:"data_richness_level,omitempty"`
	AnomalyCount       int      `json:"anomaly_count,omitempty"`
}

// Assessment is the full outcome of validating and scoring one record.
type Assessment struct {
	ID            string             `json:"id,omitempty"`
	DataType      string             `json:"data_type"`
	Validation    *validation.Result `json:"validation"`
	QualityReport *quality.Report    `json:"quality_report,omitempty"`
	Summary       *Summary           `json:"summary"`
	Error         string             `json:"error,omitempty"`
}

// ItemInput is one entry in a batch request. Data is decoded according to
// DataType before validation. Context optionally carries other records for
// the same prospect, keyed by data type, for cross-reference checks.
type ItemInput struct {
	ID       string                     `json:"id,omitempty"`
	DataType string                     `json:"data_type"`
	Data     json.RawMessage            `json:"data"`
	Context  map[string]json.RawMessage `json:"context,omitempty"`
}

// decodeRelated turns an item's raw context into typed records. Entries with
// an unknown type tag or malformed payload are dropped.
func decodeRelated(context map[string]json.RawMessage) map[models.DataType]models.Record {
	if len(context) == 0 {
		return nil
	}
	related := make(map[models.DataType]models.Record, len(context))
	for tag, raw := range context {
		rec, err := models.UnmarshalRecord(tag, raw)
		if err != nil {
			continue
		}
		related[rec.Type] = rec
	}
	if len(related) == 0 {
		return nil
	}
	return related
}

// ValidateAndScore validates one record and, when requested, runs the full
// quality analysis. Internal failures degrade into an error assessment; the
// method never returns an error to the caller.
func (s *Service) ValidateAndScore(rec models.Record, opts Options) *Assessment {
	s.logger.Info("starting validation and quality scoring",
		zap.String("data_type", string(rec.Type)),
		zap.Bool("strict_mode", opts.StrictMode),
		zap.Bool("include_quality", opts.IncludeQuality))

	assessment := &Assessment{DataType: string(rec.Type)}

	validationResult, err := s.validator.Validate(rec, opts.StrictMode)
	if err != nil {
		return s.errorAssessment(string(rec.Type), err)
	}
	assessment.Validation = validationResult

	var report *quality.Report
	if opts.IncludeQuality {
		report, _, err = s.scorer.Analyze(rec, opts.Related)
		if err != nil {
			return s.errorAssessment(string(rec.Type), err)
		}
		assessment.QualityReport = report
	}

	assessment.Summary = buildSummary(validationResult, report)

	s.logger.Info("validation and scoring completed",
		zap.String("data_type", string(rec.Type)),
		zap.Bool("is_valid", validationResult.IsValid),
		zap.Float64("confidence_score", validationResult.ConfidenceScore))

	return assessment
}

// errorAssessment is the degraded response shape for internal failures.
func (s *Service) errorAssessment(dataType string, err error) *Assessment {
	s.logger.Error("validation and scoring failed",
		zap.String("data_type", dataType),
		zap.Error(err))

	return &Assessment{
		DataType: dataType,
		Validation: &validation.Result{
			IsValid:         false,
			ConfidenceScore: 0.0,
			ConfidenceLevel: validation.InterpretScore(0.0),
			RequiredFields:  validation.NewFieldGroup(nil),
			OptionalFields:  validation.NewFieldGroup(nil),
			Issues:          []string{fmt.Sprintf("Validation service error: %v", err)},
			Recommendations: []string{"Contact support for assistance"},
		},
		Summary: &Summary{
			Status:  "error",
			Message: fmt.Sprintf("Validation failed: %v", err),
		},
	}
}

func buildSummary(result *validation.Result, report *quality.Report) *Summary {
	status := "invalid"
	if result.IsValid {
		status = "valid"
	}

	summary := &Summary{
		Status:             status,
		ConfidenceLevel:    result.ConfidenceLevel,
		ConfidenceScore:    result.ConfidenceScore,
		PrimaryIssues:      firstN(result.Issues, 3),
		KeyRecommendations: firstN(result.Recommendations, 3),
	}

	if report != nil {
		summary.OverallGrade = report.Grade
		summary.OverallScore = report.OverallScore
		summary.DataRichnessLevel = report.RichnessLevel
		summary.AnomalyCount = len(report.Anomalies)
	}
	return summary
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
