package validation

import (
	"time"
)

// FieldVerdict is the outcome of a single field check. Malformed input never
// raises; it produces Valid=false with a reason in Issue.
type FieldVerdict struct {
	Valid       bool        `json:"valid"`
	Value       interface{} `json:"value,omitempty"`
	Issue       string      `json:"issue,omitempty"`
	ValidCount  int         `json:"valid_count,omitempty"`
	RecentCount int         `json:"recent_count,omitempty"`
	TotalCount  int         `json:"total_count,omitempty"`
}

// FieldGroup collects the verdicts for one tier of fields (required or
// optional) with derived counts.
type FieldGroup struct {
	Total   int                     `json:"total"`
	Valid   int                     `json:"valid"`
	Details map[string]FieldVerdict `json:"details"`
}

// NewFieldGroup derives totals from a verdict map.
func NewFieldGroup(details map[string]FieldVerdict) FieldGroup {
	group := FieldGroup{
		Total:   len(details),
		Valid:   0,
		Details: details,
	}
	for _, verdict := range details {
		if verdict.Valid {
			group.Valid++
		}
	}
	return group
}

// Score returns the fraction of valid fields in the group.
func (g FieldGroup) Score() float64 {
	if g.Total == 0 {
		return 0.0
	}
	return float64(g.Valid) / float64(g.Total)
}

// Result holds the outcome of validating one record.
type Result struct {
	IsValid         bool       `json:"is_valid"`
	ConfidenceScore float64    `json:"confidence_score"`
	ConfidenceLevel string     `json:"confidence_level"`
	RequiredFields  FieldGroup `json:"required_fields"`
	OptionalFields  FieldGroup `json:"optional_fields"`
	Issues          []string   `json:"issues"`
	Recommendations []string   `json:"recommendations"`
	Timestamp       time.Time  `json:"timestamp"`
}

// InterpretScore maps a confidence score onto a human-readable level.
func InterpretScore(score float64) string {
	switch {
	case score >= 0.9:
		return "very high"
	case score >= 0.75:
		return "high"
	case score >= 0.6:
		return "medium"
	case score >= 0.4:
		return "low"
	default:
		return "very low"
	}
}

// clamp bounds a score to [0, 1].
func clamp(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	if score < 0.0 {
		return 0.0
	}
	return score
}
