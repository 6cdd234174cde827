package service

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportFormat selects how much detail a quality report carries.
type ReportFormat string

const (
	ReportFormatExecutive ReportFormat = "executive"
	ReportFormatSummary   ReportFormat = "summary"
	ReportFormatDetailed  ReportFormat = "detailed"
)

// ParseReportFormat normalizes a raw format string, defaulting to detailed.
func ParseReportFormat(raw string) ReportFormat {
	switch ReportFormat(raw) {
	case ReportFormatExecutive, ReportFormatSummary:
		return ReportFormat(raw)
	default:
		return ReportFormatDetailed
	}
}

// ExecutiveReport is the management-level view of a batch.
type ExecutiveReport struct {
	ReportID         string            `json:"report_id"`
	ReportType       string            `json:"report_type"`
	Overview         ExecutiveOverview `json:"overview"`
	KeyFindings      []string          `json:"key_findings"`
	ActionItems      []string          `json:"action_items"`
	DataDistribution map[string]int    `json:"data_distribution"`
}

// ExecutiveOverview holds the headline figures of an executive report.
type ExecutiveOverview struct {
	TotalDataItems   int     `json:"total_data_items"`
	DataQualityScore string  `json:"data_quality_score"`
	DataValidityRate string  `json:"data_validity_rate"`
	ConfidenceLevel  float64 `json:"confidence_level"`
}

// SummaryReport is the statistics-first view of a batch.
type SummaryReport struct {
	ReportID            string              `json:"report_id"`
	ReportType          string              `json:"report_type"`
	Statistics          *BatchStatistics    `json:"statistics"`
	TopIssues           []CommonIssue       `json:"top_issues"`
	Recommendations     []string            `json:"recommendations"`
	QualityDistribution QualityDistribution `json:"quality_distribution"`
}

// QualityDistribution buckets items into quality tiers.
type QualityDistribution struct {
	HighQuality   int `json:"high_quality"`
	MediumQuality int `json:"medium_quality"`
	LowQuality    int `json:"low_quality"`
}

// DetailedReport carries the full batch results plus analysis layers.
type DetailedReport struct {
	ReportID        string                `json:"report_id"`
	ReportType      string                `json:"report_type"`
	FullResults     *BatchResult          `json:"full_results"`
	Analysis        DetailedAnalysis      `json:"analysis"`
	Recommendations TieredRecommendations `json:"recommendations"`
}

// DetailedAnalysis groups the analytical sections of a detailed report.
type DetailedAnalysis struct {
	DataTypeAnalysis map[string]*TypeAnalysis `json:"data_type_analysis"`
	QualityTrends    *QualityTrends           `json:"quality_trends"`
	IssueAnalysis    *IssueAnalysis           `json:"issue_analysis"`
}

// TypeAnalysis summarizes outcomes for one data type within a batch.
type TypeAnalysis struct {
	Count         int     `json:"count"`
	AvgQuality    float64 `json:"avg_quality"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// QualityTrends describes the score distribution across a batch. Message is
// set instead of the numeric sections when no scores are available.
type QualityTrends struct {
	Message      string             `json:"message,omitempty"`
	Distribution *ScoreDistribution `json:"distribution,omitempty"`
	Statistics   *ScoreStatistics   `json:"statistics,omitempty"`
}

// ScoreDistribution buckets overall scores into named bands.
type ScoreDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

// ScoreStatistics holds descriptive statistics over overall scores.
type ScoreStatistics struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// IssueAnalysis summarizes recurring issues in a detailed report.
type IssueAnalysis struct {
	MostCommon           []CommonIssue  `json:"most_common"`
	SeverityDistribution map[string]int `json:"severity_distribution"`
	Recommendations      []string       `json:"recommendations"`
}

// TieredRecommendations splits advice by planning horizon.
type TieredRecommendations struct {
	Immediate []string `json:"immediate"`
	ShortTerm []string `json:"short_term"`
	LongTerm  []string `json:"long_term"`
}

// GenerateReport validates the batch and renders it in the requested format.
func (s *Service) GenerateReport(items []ItemInput, format ReportFormat) interface{} {
	s.logger.Info("generating quality report",
		zap.Int("item_count", len(items)),
		zap.String("format", string(format)))

	batch := s.ValidateMultiple(items, false, true)

	switch format {
	case ReportFormatExecutive:
		return s.executiveReport(batch)
	case ReportFormatSummary:
		return s.summaryReport(batch)
	default:
		return s.detailedReport(batch)
	}
}

func (s *Service) executiveReport(batch *BatchResult) *ExecutiveReport {
	stats := batch.Statistics

	validityRate := "0%"
	validFinding := "No valid items"
	if stats.TotalItems > 0 {
		validPct := float64(stats.ValidItems) / float64(stats.TotalItems) * 100
		validityRate = fmt.Sprintf("%.1f%%", validPct)
		validFinding = fmt.Sprintf("%d items passed validation (%.1f%%)", stats.ValidItems, validPct)
	}

	return &ExecutiveReport{
		ReportID:   uuid.NewString(),
		ReportType: "executive_summary",
		Overview: ExecutiveOverview{
			TotalDataItems:   stats.TotalItems,
			DataQualityScore: fmt.Sprintf("%.1f%%", stats.AverageQualityScore*100),
			DataValidityRate: validityRate,
			ConfidenceLevel:  stats.AverageConfidence,
		},
		KeyFindings: []string{
			fmt.Sprintf("Processed %d data items across %d data types",
				stats.TotalItems, len(stats.DataTypeDistribution)),
			validFinding,
			fmt.Sprintf("Average quality score: %.1f%%", stats.AverageQualityScore*100),
		},
		ActionItems: []string{
			fmt.Sprintf("Address %d common data quality issues", len(stats.CommonIssues)),
			"Implement data enrichment for low-scoring items",
			"Establish regular data quality monitoring",
		},
		DataDistribution: stats.DataTypeDistribution,
	}
}

func (s *Service) summaryReport(batch *BatchResult) *SummaryReport {
	stats := batch.Statistics

	var distribution QualityDistribution
	for _, item := range batch.Items {
		if item.QualityReport == nil {
			distribution.LowQuality++
			continue
		}
		switch score := item.QualityReport.OverallScore; {
		case score >= 0.8:
			distribution.HighQuality++
		case score >= 0.6:
			distribution.MediumQuality++
		default:
			distribution.LowQuality++
		}
	}

	topIssues := stats.CommonIssues
	if len(topIssues) > 3 {
		topIssues = topIssues[:3]
	}

	return &SummaryReport{
		ReportID:   uuid.NewString(),
		ReportType: "summary",
		Statistics: stats,
		TopIssues:  topIssues,
		Recommendations: []string{
			"Focus on resolving the most common issues first",
			"Implement validation at data collection points",
			"Consider automated data quality monitoring",
		},
		QualityDistribution: distribution,
	}
}

func (s *Service) detailedReport(batch *BatchResult) *DetailedReport {
	return &DetailedReport{
		ReportID:    uuid.NewString(),
		ReportType:  "detailed",
		FullResults: batch,
		Analysis: DetailedAnalysis{
			DataTypeAnalysis: analyzeByDataType(batch),
			QualityTrends:    analyzeQualityTrends(batch),
			IssueAnalysis: &IssueAnalysis{
				MostCommon:           batch.Statistics.CommonIssues,
				SeverityDistribution: map[string]int{"high": 0, "medium": 0, "low": 0},
				Recommendations: []string{
					"Implement data validation at collection points",
					"Create data quality monitoring dashboards",
					"Establish data quality SLAs",
				},
			},
		},
		Recommendations: TieredRecommendations{
			Immediate: []string{
				"Fix critical validation failures",
				"Address high-severity data quality issues",
				"Implement basic data cleaning procedures",
			},
			ShortTerm: []string{
				"Implement automated data validation pipelines",
				"Create data quality monitoring dashboards",
				"Establish data quality metrics and KPIs",
			},
			LongTerm: []string{
				"Implement machine learning-based anomaly detection",
				"Create comprehensive data governance framework",
				"Establish data quality SLAs and governance policies",
			},
		},
	}
}

func analyzeByDataType(batch *BatchResult) map[string]*TypeAnalysis {
	analysis := map[string]*TypeAnalysis{}

	for _, item := range batch.Items {
		if item.Error != "" {
			continue
		}

		typeStats, ok := analysis[item.DataType]
		if !ok {
			typeStats = &TypeAnalysis{}
			analysis[item.DataType] = typeStats
		}
		typeStats.Count++
		if item.QualityReport != nil {
			typeStats.AvgQuality += item.QualityReport.OverallScore
		}
		if item.Validation != nil {
			typeStats.AvgConfidence += item.Validation.ConfidenceScore
		}
	}

	for _, typeStats := range analysis {
		if typeStats.Count > 0 {
			typeStats.AvgQuality /= float64(typeStats.Count)
			typeStats.AvgConfidence /= float64(typeStats.Count)
		}
	}
	return analysis
}

func analyzeQualityTrends(batch *BatchResult) *QualityTrends {
	var scores []float64
	for _, item := range batch.Items {
		if item.Error == "" && item.QualityReport != nil {
			scores = append(scores, item.QualityReport.OverallScore)
		}
	}

	if len(scores) == 0 {
		return &QualityTrends{Message: "No quality scores available for analysis"}
	}

	var distribution ScoreDistribution
	total := 0.0
	min, max := scores[0], scores[0]
	for _, score := range scores {
		total += score
		if score < min {
			min = score
		}
		if score > max {
			max = score
		}
		switch {
		case score >= 0.9:
			distribution.Excellent++
		case score >= 0.7:
			distribution.Good++
		case score >= 0.5:
			distribution.Fair++
		default:
			distribution.Poor++
		}
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	return &QualityTrends{
		Distribution: &distribution,
		Statistics: &ScoreStatistics{
			Mean:   total / float64(len(scores)),
			Median: sorted[len(sorted)/2],
			Min:    min,
			Max:    max,
		},
	}
}
