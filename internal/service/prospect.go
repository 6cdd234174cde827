package service

import "github.com/prospect-analyzer/data-validation/internal/models"

// ConfidenceScores aggregates confidence per data family for one prospect.
// A family pointer is nil when the batch contained no records of that family.
type ConfidenceScores struct {
	LinkedIn    *float64 `json:"linkedin,omitempty"`
	SocialMedia *float64 `json:"social_media,omitempty"`
	CompanyData *float64 `json:"company_data,omitempty"`
	Overall     float64  `json:"overall"`
}

var dataTypeFamilies = map[models.DataType]string{
	models.DataTypeLinkedInProfile: "linkedin",
	models.DataTypeLinkedInPosts:   "linkedin",
	models.DataTypeLinkedInCompany: "linkedin",
	models.DataTypeFacebook:        "social",
	models.DataTypeTwitter:         "social",
	models.DataTypeSocialMedia:     "social",
	models.DataTypeCompany:         "company",
}

// ProspectConfidence rolls a batch result up into per-family confidence
// scores for the prospect the batch was collected for.
func ProspectConfidence(batch *BatchResult) ConfidenceScores {
	sums := map[string]float64{}
	counts := map[string]int{}
	overallSum := 0.0
	overallCount := 0

	for _, item := range batch.Items {
		if item.Validation == nil {
			continue
		}
		score := item.Validation.ConfidenceScore
		overallSum += score
		overallCount++

		family, ok := dataTypeFamilies[models.DataType(item.DataType)]
		if !ok {
			continue
		}
		sums[family] += score
		counts[family]++
	}

	scores := ConfidenceScores{}
	if overallCount > 0 {
		scores.Overall = overallSum / float64(overallCount)
	}
	if counts["linkedin"] > 0 {
		avg := sums["linkedin"] / float64(counts["linkedin"])
		scores.LinkedIn = &avg
	}
	if counts["social"] > 0 {
		avg := sums["social"] / float64(counts["social"])
		scores.SocialMedia = &avg
	}
	if counts["company"] > 0 {
		avg := sums["company"] / float64(counts["company"])
		scores.CompanyData = &avg
	}
	return scores
}
