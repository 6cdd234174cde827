package quality

import "time"

// Issue is a data quality defect surfaced by the scorer.
type Issue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Field       string `json:"field,omitempty"`
}

// Anomaly is a statistically unusual pattern in the data. Anomalies are not
// defects by themselves but warrant manual review.
type Anomaly struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Field       string `json:"field,omitempty"`
}

// Recommendation is an actionable suggestion attached to a report.
type Recommendation struct {
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// RichnessMetrics quantifies how much usable content a record carries.
type RichnessMetrics struct {
	FieldCount        int     `json:"field_count"`
	NonEmptyFields    int     `json:"non_empty_fields"`
	RichFields        int     `json:"rich_fields"`
	ListFields        int     `json:"list_fields"`
	NestedObjects     int     `json:"nested_objects"`
	TextContentLength int     `json:"text_content_length"`
	UniqueIdentifiers int     `json:"unique_identifiers"`
	CompletenessRatio float64 `json:"completeness_ratio"`
	RichnessRatio     float64 `json:"richness_ratio"`
}

// Report is the full quality assessment of one record.
type Report struct {
	Timestamp         time.Time        `json:"timestamp"`
	OverallScore      float64          `json:"overall_score"`
	Grade             string           `json:"grade"`
	ValidityScore     float64          `json:"validity_score"`
	CompletenessScore float64          `json:"completeness_score"`
	ConsistencyScore  float64          `json:"consistency_score"`
	FreshnessScore    float64          `json:"freshness_score"`
	Richness          RichnessMetrics  `json:"richness"`
	RichnessLevel     string           `json:"richness_level"`
	Issues            []Issue          `json:"issues"`
	Anomalies         []Anomaly        `json:"anomalies"`
	Recommendations   []Recommendation `json:"recommendations"`
}

// ScoreToGrade maps a score in [0, 1] to a letter grade.
func ScoreToGrade(score float64) string {
	switch {
	case score >= 0.9:
		return "A"
	case score >= 0.8:
		return "B"
	case score >= 0.7:
		return "C"
	case score >= 0.6:
		return "D"
	default:
		return "F"
	}
}

// RichnessLevel maps a richness ratio to a human-readable level.
func RichnessLevel(ratio float64) string {
	switch {
	case ratio >= 0.8:
		return "very high"
	case ratio >= 0.6:
		return "high"
	case ratio >= 0.4:
		return "medium"
	case ratio >= 0.2:
		return "low"
	default:
		return "very low"
	}
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
