package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prospect-analyzer/data-validation/internal/models"
)

// CommonIssue is one recurring issue across a batch with its frequency.
type CommonIssue struct {
	Issue      string  `json:"issue"`
	Frequency  int     `json:"frequency"`
	Percentage float64 `json:"percentage"`
}

// BatchStatistics aggregates outcomes across a batch.
type BatchStatistics struct {
	TotalItems           int            `json:"total_items"`
	ValidItems           int            `json:"valid_items"`
	InvalidItems         int            `json:"invalid_items"`
	AverageConfidence    float64        `json:"average_confidence"`
	AverageQualityScore  float64        `json:"average_quality_score"`
	DataTypeDistribution map[string]int `json:"data_type_distribution"`
	CommonIssues         []CommonIssue  `json:"common_issues"`
}

// BatchResult holds per-item assessments plus aggregate statistics.
type BatchResult struct {
	BatchID    string           `json:"batch_id"`
	Items      []*Assessment    `json:"items"`
	Statistics *BatchStatistics `json:"statistics"`
}

// ValidateMultiple validates a batch of items of potentially different types.
// Malformed items are recorded as item errors; the batch never aborts.
// Averages are taken over the full batch size, so error items drag them down.
func (s *Service) ValidateMultiple(items []ItemInput, strict, includeQuality bool) *BatchResult {
	s.logger.Info("starting batch validation", zap.Int("item_count", len(items)))

	result := &BatchResult{
		BatchID: uuid.NewString(),
		Items:   make([]*Assessment, 0, len(items)),
		Statistics: &BatchStatistics{
			TotalItems:           len(items),
			DataTypeDistribution: map[string]int{},
			CommonIssues:         []CommonIssue{},
		},
	}

	totalConfidence := 0.0
	totalQuality := 0.0
	var allIssues []string

	for i, item := range items {
		itemID := item.ID
		if itemID == "" {
			itemID = fmt.Sprintf("item_%d", i)
		}

		if emptyPayload(item.Data) || item.DataType == "" {
			result.Items = append(result.Items, &Assessment{
				ID:    itemID,
				Error: "Missing data or data_type",
			})
			result.Statistics.InvalidItems++
			continue
		}

		rec, err := models.UnmarshalRecord(item.DataType, item.Data)

		var assessment *Assessment
		if err != nil {
			assessment = s.errorAssessment(item.DataType, err)
		} else {
			assessment = s.ValidateAndScore(rec, Options{
				StrictMode:     strict,
				IncludeQuality: includeQuality,
				Related:        decodeRelated(item.Context),
			})
		}
		assessment.ID = itemID
		result.Items = append(result.Items, assessment)

		if assessment.Validation.IsValid {
			result.Statistics.ValidItems++
		} else {
			result.Statistics.InvalidItems++
		}

		totalConfidence += assessment.Validation.ConfidenceScore
		if includeQuality && assessment.QualityReport != nil {
			totalQuality += assessment.QualityReport.OverallScore
		}

		result.Statistics.DataTypeDistribution[item.DataType]++
		allIssues = append(allIssues, assessment.Validation.Issues...)
	}

	divisor := float64(len(items))
	if divisor == 0 {
		divisor = 1
	}
	result.Statistics.AverageConfidence = totalConfidence / divisor
	if includeQuality {
		result.Statistics.AverageQualityScore = totalQuality / divisor
	}
	result.Statistics.CommonIssues = identifyCommonIssues(allIssues)

	s.logger.Info("batch validation completed",
		zap.Int("valid_items", result.Statistics.ValidItems),
		zap.Int("invalid_items", result.Statistics.InvalidItems))

	return result
}

// emptyPayload reports whether a raw data payload carries nothing to
// validate. JSON null and empty containers count the same as an absent field.
func emptyPayload(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "{}", "[]":
		return true
	}
	return false
}

// identifyCommonIssues returns the five most frequent issues, in descending
// frequency with first occurrence breaking ties.
func identifyCommonIssues(allIssues []string) []CommonIssue {
	common := []CommonIssue{}
	if len(allIssues) == 0 {
		return common
	}

	counts := map[string]int{}
	firstSeen := map[string]int{}
	for i, issue := range allIssues {
		if _, seen := counts[issue]; !seen {
			firstSeen[issue] = i
		}
		counts[issue]++
	}

	unique := make([]string, 0, len(counts))
	for issue := range counts {
		unique = append(unique, issue)
	}
	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return firstSeen[unique[i]] < firstSeen[unique[j]]
	})

	if len(unique) > 5 {
		unique = unique[:5]
	}
	for _, issue := range unique {
		common = append(common, CommonIssue{
			Issue:      issue,
			Frequency:  counts[issue],
			Percentage: float64(counts[issue]) / float64(len(allIssues)) * 100,
		})
	}
	return common
}
