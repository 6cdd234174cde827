package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prospect-analyzer/data-validation/internal/models"
)

func TestAnalyzeRichness(t *testing.T) {
	t.Run("profile metrics", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeLinkedInProfile,
			LinkedInProfile: &models.LinkedInProfile{
				FullName:   "John Smith",
				ProfileURL: "https://www.linkedin.com/in/john-smith",
				Summary:    "Experienced engineer who has built data platforms for ten years.",
				Skills:     []string{"Go", "Python", "SQL"},
				Experience: []models.Experience{{Title: "Engineer"}},
			},
		}

		metrics := AnalyzeRichness(rec)

		// LinkedInProfile has 11 exported fields.
		assert.Equal(t, 11, metrics.FieldCount)
		assert.Equal(t, 5, metrics.NonEmptyFields)
		assert.Equal(t, 2, metrics.ListFields, "skills and experience")
		assert.Equal(t, 1, metrics.UniqueIdentifiers, "profile_url")
		// The three-element skills list and the long summary count as rich.
		assert.Equal(t, 2, metrics.RichFields)
		assert.Positive(t, metrics.TextContentLength)
		assert.InDelta(t, 5.0/11.0, metrics.CompletenessRatio, 1e-9)
		assert.InDelta(t, 2.0/11.0, metrics.RichnessRatio, 1e-9)
	})

	t.Run("empty payload yields zero metrics", func(t *testing.T) {
		metrics := AnalyzeRichness(models.Record{Type: models.DataTypeLinkedInProfile})

		assert.Equal(t, 0, metrics.FieldCount)
		assert.Equal(t, 0.0, metrics.RichnessRatio)
	})

	t.Run("nested company structs count as objects", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeCompany,
			Company: &models.CompanyData{
				Name: "Acme Corp",
				Financial: &models.CompanyFinancial{
					Revenue:   "$10M",
					Valuation: "$100M",
					Funding:   "Series B",
				},
				Funding: map[string]interface{}{"total": "$25M"},
			},
		}

		metrics := AnalyzeRichness(rec)

		assert.Equal(t, 2, metrics.NestedObjects, "financial struct and funding map")
		assert.GreaterOrEqual(t, metrics.RichFields, 1, "financial struct has three populated fields")
	})
}
