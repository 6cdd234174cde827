package service

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/prospect-analyzer/data-validation/internal/models"
)

// DefaultComparisonCriteria are the score components compared when the
// caller does not pick their own.
var DefaultComparisonCriteria = []string{"overall_score", "completeness_score", "validity_score"}

// RankedItem is one item's position in a criterion ranking.
type RankedItem struct {
	Rank  int     `json:"rank"`
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Grade string  `json:"grade"`
}

// ComparisonExtreme identifies the best or worst item of a comparison.
type ComparisonExtreme struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// ComparisonStatistics summarizes the compared set.
type ComparisonStatistics struct {
	TotalItems   int                `json:"total_items"`
	AverageScore float64            `json:"average_score"`
	BestItem     *ComparisonExtreme `json:"best_item"`
	WorstItem    *ComparisonExtreme `json:"worst_item"`
}

// Comparison holds per-criterion rankings across a set of items.
type Comparison struct {
	Rankings        map[string][]RankedItem `json:"rankings"`
	Statistics      *ComparisonStatistics   `json:"statistics"`
	Recommendations []string                `json:"recommendations"`
}

type scoredItem struct {
	id      string
	scores  map[string]float64
	overall float64
	grade   string
}

// CompareQuality scores every item and ranks them against each criterion.
// Items that fail to produce a quality report are left out of the rankings.
func (s *Service) CompareQuality(items []ItemInput, criteria []string) *Comparison {
	if len(criteria) == 0 {
		criteria = DefaultComparisonCriteria
	}

	s.logger.Info("starting data quality comparison",
		zap.Int("item_count", len(items)),
		zap.Strings("criteria", criteria))

	var scored []scoredItem
	for i, item := range items {
		itemID := item.ID
		if itemID == "" {
			itemID = fmt.Sprintf("item_%d", i)
		}

		rec, err := models.UnmarshalRecord(item.DataType, item.Data)
		if err != nil {
			continue
		}
		assessment := s.ValidateAndScore(rec, Options{
			IncludeQuality: true,
			Related:        decodeRelated(item.Context),
		})
		if assessment.QualityReport == nil {
			continue
		}

		report := assessment.QualityReport
		scored = append(scored, scoredItem{
			id: itemID,
			scores: map[string]float64{
				"completeness_score": report.CompletenessScore,
				"consistency_score":  report.ConsistencyScore,
				"freshness_score":    report.FreshnessScore,
				"validity_score":     report.ValidityScore,
			},
			overall: report.OverallScore,
			grade:   report.Grade,
		})
	}

	rankings := make(map[string][]RankedItem, len(criteria))
	for _, criterion := range criteria {
		ordered := make([]scoredItem, len(scored))
		copy(ordered, scored)
		sort.SliceStable(ordered, func(i, j int) bool {
			return criterionScore(ordered[i], criterion) > criterionScore(ordered[j], criterion)
		})

		ranked := make([]RankedItem, 0, len(ordered))
		for idx, item := range ordered {
			ranked = append(ranked, RankedItem{
				Rank:  idx + 1,
				ID:    item.id,
				Score: criterionScore(item, criterion),
				Grade: item.grade,
			})
		}
		rankings[criterion] = ranked
	}

	stats := &ComparisonStatistics{TotalItems: len(scored)}
	if len(scored) > 0 {
		best, worst := scored[0], scored[0]
		total := 0.0
		for _, item := range scored {
			total += item.overall
			if item.overall > best.overall {
				best = item
			}
			if item.overall < worst.overall {
				worst = item
			}
		}
		stats.AverageScore = total / float64(len(scored))
		stats.BestItem = &ComparisonExtreme{ID: best.id, Score: best.overall}
		stats.WorstItem = &ComparisonExtreme{ID: worst.id, Score: worst.overall}
	}

	comparison := &Comparison{
		Rankings:        rankings,
		Statistics:      stats,
		Recommendations: comparisonRecommendations(scored),
	}

	s.logger.Info("data quality comparison completed")
	return comparison
}

func criterionScore(item scoredItem, criterion string) float64 {
	if criterion == "overall_score" {
		return item.overall
	}
	if score, ok := item.scores[criterion]; ok {
		return score
	}
	return item.overall
}

func comparisonRecommendations(scored []scoredItem) []string {
	if len(scored) == 0 {
		return []string{"No items to compare"}
	}

	var recommendations []string

	total := 0.0
	lowQuality := 0
	best := scored[0]
	for _, item := range scored {
		total += item.overall
		if item.overall < 0.6 {
			lowQuality++
		}
		if item.overall > best.overall {
			best = item
		}
	}
	avg := total / float64(len(scored))

	if lowQuality > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Focus on improving %d low-quality items (%.1f%% of total)",
			lowQuality, float64(lowQuality)/float64(len(scored))*100))
	}
	if avg < 0.7 {
		recommendations = append(recommendations,
			"Overall data quality is below acceptable threshold - consider data enrichment")
	}
	recommendations = append(recommendations, fmt.Sprintf(
		"Use item '%s' as a quality benchmark for other items", best.id))

	return recommendations
}
