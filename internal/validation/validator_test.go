package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prospect-analyzer/data-validation/internal/models"
)

var testClock = func() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	return NewValidator(zap.NewNop(), WithClock(testClock))
}

func intPtr(i int) *int { return &i }

func TestValidateLinkedInProfile(t *testing.T) {
	v := newTestValidator(t)

	t.Run("complete profile is valid with high confidence", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeLinkedInProfile,
			LinkedInProfile: &models.LinkedInProfile{
				FullName:   "John Smith",
				ProfileURL: "https://www.linkedin.com/in/john-smith",
				Headline:   "Senior Software Engineer",
				Location:   "San Francisco, CA",
				Summary:    "Experienced engineer building data platforms for a decade.",
				Experience: []models.Experience{
					{Title: "Engineer", Company: "Acme"},
					{Title: "Senior Engineer", Company: "Globex"},
					{Title: "Staff Engineer", Company: "Initech"},
				},
				Education:        []models.Education{{School: "MIT"}},
				Skills:           []string{"Go", "Python", "SQL", "Kubernetes", "Terraform"},
				ProfileImage:     "https://media.example.com/john.jpg",
				ConnectionsCount: intPtr(500),
			},
		}

		result, err := v.Validate(rec, false)
		require.NoError(t, err)

		assert.True(t, result.IsValid, "all required fields are present")
		assert.GreaterOrEqual(t, result.ConfidenceScore, 0.9,
			"fully populated profile with bonuses should score very high")
		assert.LessOrEqual(t, result.ConfidenceScore, 1.0)
		assert.Equal(t, "very high", result.ConfidenceLevel)
		assert.Empty(t, result.Issues)
	})

	t.Run("missing required fields fail validation", func(t *testing.T) {
		rec := models.Record{
			Type:            models.DataTypeLinkedInProfile,
			LinkedInProfile: &models.LinkedInProfile{Headline: "Engineer"},
		}

		result, err := v.Validate(rec, false)
		require.NoError(t, err)

		assert.False(t, result.IsValid)
		assert.Contains(t, result.Issues, "Missing or invalid full name")
		assert.Contains(t, result.Issues, "Missing or invalid LinkedIn profile URL")
	})

	t.Run("strict mode flags missing experience and education", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeLinkedInProfile,
			LinkedInProfile: &models.LinkedInProfile{
				FullName:   "Jane Doe",
				ProfileURL: "https://www.linkedin.com/in/jane-doe",
			},
		}

		result, err := v.Validate(rec, true)
		require.NoError(t, err)

		assert.Contains(t, result.Issues, "No work experience data")
		assert.Contains(t, result.Issues, "No education data")
		assert.True(t, result.IsValid, "strict issues are advisory, required fields still pass")
	})

	t.Run("nil payload yields a bounded score", func(t *testing.T) {
		rec := models.Record{Type: models.DataTypeLinkedInProfile}

		result, err := v.Validate(rec, false)
		require.NoError(t, err)

		assert.False(t, result.IsValid)
		assert.GreaterOrEqual(t, result.ConfidenceScore, 0.0)
		assert.LessOrEqual(t, result.ConfidenceScore, 1.0)
	})
}

func TestValidateLinkedInPosts(t *testing.T) {
	v := newTestValidator(t)

	t.Run("no posts reports an issue", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeLinkedInPosts,
			LinkedInPosts: &models.LinkedInPosts{
				ProfileURL: "https://www.linkedin.com/in/john-smith",
			},
		}

		result, err := v.Validate(rec, false)
		require.NoError(t, err)

		assert.Contains(t, result.Issues, "No posts found")
	})

	t.Run("strict mode flags limited post data", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeLinkedInPosts,
			LinkedInPosts: &models.LinkedInPosts{
				ProfileURL: "https://www.linkedin.com/in/john-smith",
				AuthorName: "John Smith",
				Posts: []models.Post{
					{Text: "Hello", CreatedAt: "2024-06-01"},
					{Text: "World", CreatedAt: "2024-06-02"},
				},
			},
		}

		result, err := v.Validate(rec, true)
		require.NoError(t, err)

		assert.Contains(t, result.Issues, "Limited post data")
		assert.True(t, result.IsValid, "posts have a lower validity threshold")
	})
}

func TestValidateCompanyData(t *testing.T) {
	v := newTestValidator(t)

	t.Run("multiple sources earn a confidence bonus", func(t *testing.T) {
		single := models.Record{
			Type: models.DataTypeCompany,
			Company: &models.CompanyData{
				Name:    "Acme Corp",
				Sources: []string{"linkedin"},
			},
		}
		multi := models.Record{
			Type: models.DataTypeCompany,
			Company: &models.CompanyData{
				Name:    "Acme Corp",
				Sources: []string{"linkedin", "crunchbase", "zoominfo"},
			},
		}

		singleResult, err := v.Validate(single, false)
		require.NoError(t, err)
		multiResult, err := v.Validate(multi, false)
		require.NoError(t, err)

		assert.Greater(t, multiResult.ConfidenceScore, singleResult.ConfidenceScore,
			"corroborated company data should score higher")
	})

	t.Run("missing sources reports an issue", func(t *testing.T) {
		rec := models.Record{
			Type:    models.DataTypeCompany,
			Company: &models.CompanyData{Name: "Acme Corp"},
		}

		result, err := v.Validate(rec, false)
		require.NoError(t, err)

		assert.Contains(t, result.Issues, "No data sources specified")
	})
}

func TestValidateSocialMedia(t *testing.T) {
	v := newTestValidator(t)

	t.Run("no platforms reports an issue", func(t *testing.T) {
		rec := models.Record{
			Type:        models.DataTypeSocialMedia,
			SocialMedia: &models.SocialMediaData{},
		}

		result, err := v.Validate(rec, false)
		require.NoError(t, err)

		assert.False(t, result.IsValid)
		assert.Contains(t, result.Issues, "No social media data available")
	})

	t.Run("twitter handle alone validates the twitter record", func(t *testing.T) {
		rec := models.Record{
			Type:    models.DataTypeTwitter,
			Twitter: &models.TwitterData{Handle: "@john_doe"},
		}

		result, err := v.Validate(rec, false)
		require.NoError(t, err)

		assert.True(t, result.IsValid, "handle is the only required twitter field")
	})
}

func TestValidateUnsupportedType(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.Validate(models.Record{Type: "instagram_data"}, false)
	require.Error(t, err)

	var unsupported *models.ErrUnsupportedDataType
	assert.ErrorAs(t, err, &unsupported)
}

func TestConfidenceScoresBounded(t *testing.T) {
	v := newTestValidator(t)

	records := []models.Record{
		{Type: models.DataTypeLinkedInProfile, LinkedInProfile: &models.LinkedInProfile{}},
		{Type: models.DataTypeLinkedInPosts, LinkedInPosts: &models.LinkedInPosts{}},
		{Type: models.DataTypeLinkedInCompany, LinkedInCompany: &models.LinkedInCompany{}},
		{Type: models.DataTypeFacebook, Facebook: &models.FacebookData{}},
		{Type: models.DataTypeTwitter, Twitter: &models.TwitterData{}},
		{Type: models.DataTypeSocialMedia, SocialMedia: &models.SocialMediaData{}},
		{Type: models.DataTypeCompany, Company: &models.CompanyData{}},
	}

	for _, rec := range records {
		t.Run(string(rec.Type), func(t *testing.T) {
			result, err := v.Validate(rec, false)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, result.ConfidenceScore, 0.0)
			assert.LessOrEqual(t, result.ConfidenceScore, 1.0)
			assert.NotEmpty(t, result.ConfidenceLevel)
		})
	}
}

func TestInterpretScore(t *testing.T) {
	cases := []struct {
		score float64
		level string
	}{
		{0.95, "very high"},
		{0.8, "high"},
		{0.65, "medium"},
		{0.5, "low"},
		{0.1, "very low"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, InterpretScore(tc.score))
	}
}
