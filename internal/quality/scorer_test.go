package quality

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prospect-analyzer/data-validation/internal/models"
	"github.com/prospect-analyzer/data-validation/internal/validation"
)

var testClock = func() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	validator := validation.NewValidator(zap.NewNop(), validation.WithClock(testClock))
	return NewScorer(validator, zap.NewNop(), WithScorerClock(testClock))
}

func intPtr(i int) *int { return &i }

func TestAnalyzeOverallScoreComposition(t *testing.T) {
	scorer := newTestScorer(t)

	rec := models.Record{
		Type: models.DataTypeLinkedInProfile,
		LinkedInProfile: &models.LinkedInProfile{
			FullName:   "John Smith",
			ProfileURL: "https://www.linkedin.com/in/john-smith",
			Headline:   "Senior Software Engineer",
			Skills:     []string{"Go", "Python", "SQL"},
		},
	}

	report, result, err := scorer.Analyze(rec, nil)
	require.NoError(t, err)
	require.NotNil(t, report)
	require.NotNil(t, result)

	expected := report.ValidityScore*0.3 +
		report.CompletenessScore*0.3 +
		report.ConsistencyScore*0.25 +
		report.FreshnessScore*0.15
	assert.InDelta(t, expected, report.OverallScore, 1e-9,
		"overall score is the weighted blend of the component scores")

	assert.Equal(t, result.ConfidenceScore, report.ValidityScore)
	assert.Equal(t, ScoreToGrade(report.OverallScore), report.Grade)
	assert.True(t, report.Timestamp.Equal(testClock()),
		"report carries the analysis timestamp")
}

func TestAnalyzeUnsupportedType(t *testing.T) {
	scorer := newTestScorer(t)

	_, _, err := scorer.Analyze(models.Record{Type: "unknown"}, nil)
	require.Error(t, err)
}

func TestScoreToGrade(t *testing.T) {
	cases := []struct {
		score float64
		grade string
	}{
		{0.95, "A"},
		{0.85, "B"},
		{0.75, "C"},
		{0.65, "D"},
		{0.2, "F"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.grade, ScoreToGrade(tc.score))
	}
}

func TestAssessFreshness(t *testing.T) {
	scorer := newTestScorer(t)
	now := testClock()

	t.Run("recent posts score full freshness", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeLinkedInPosts,
			LinkedInPosts: &models.LinkedInPosts{
				Posts: []models.Post{
					{Text: "a", CreatedAt: now.AddDate(0, 0, -5).Format(time.RFC3339)},
					{Text: "b", CreatedAt: now.AddDate(0, 0, -10).Format(time.RFC3339)},
				},
			},
		}
		assert.Equal(t, 1.0, scorer.assessFreshness(rec))
	})

	t.Run("stale posts score zero", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeLinkedInPosts,
			LinkedInPosts: &models.LinkedInPosts{
				Posts: []models.Post{
					{Text: "a", CreatedAt: now.AddDate(-2, 0, 0).Format(time.RFC3339)},
				},
			},
		}
		assert.Equal(t, 0.0, scorer.assessFreshness(rec))
	})

	t.Run("quarter-old posts score half weight", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeLinkedInPosts,
			LinkedInPosts: &models.LinkedInPosts{
				Posts: []models.Post{
					{Text: "a", CreatedAt: now.AddDate(0, 0, -60).Format(time.RFC3339)},
				},
			},
		}
		assert.InDelta(t, 0.5, scorer.assessFreshness(rec), 1e-9)
	})

	t.Run("types without timestamps are neutral", func(t *testing.T) {
		rec := models.Record{
			Type:            models.DataTypeLinkedInProfile,
			LinkedInProfile: &models.LinkedInProfile{FullName: "John Smith"},
		}
		assert.Equal(t, 0.5, scorer.assessFreshness(rec))
	})

	t.Run("company news uses wider windows", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeCompany,
			Company: &models.CompanyData{
				News: []models.NewsItem{
					{Title: "Funding round", PublishedAt: now.AddDate(0, 0, -60).Format(time.RFC3339)},
					{Title: "Product launch", PublishedAt: now.AddDate(0, 0, -200).Format(time.RFC3339)},
				},
			},
		}
		// One double-weighted recent article plus one single-weighted older one.
		assert.InDelta(t, 0.75, scorer.assessFreshness(rec), 1e-9)
	})
}

func TestAdjustProfileCompleteness(t *testing.T) {
	longDescription := "Led a platform team of eight engineers through a multi-year migration."

	profile := &models.LinkedInProfile{
		Experience: []models.Experience{
			{Title: "a", Description: longDescription},
			{Title: "b", Description: longDescription},
			{Title: "c"},
		},
		Education: []models.Education{{School: "MIT"}, {School: "Stanford"}},
		Skills:    []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
	}

	// +0.05 experience depth, +0.05 detailed descriptions, +0.03 education, +0.05 skills.
	assert.InDelta(t, 0.68, adjustProfileCompleteness(profile, 0.5), 1e-9)
	assert.Equal(t, 0.5, adjustProfileCompleteness(nil, 0.5))
}

func TestAdjustCompanyCompleteness(t *testing.T) {
	company := &models.CompanyData{
		Sources:   []string{"linkedin", "crunchbase", "zoominfo"},
		Financial: &models.CompanyFinancial{Revenue: "$10M"},
		Employees: &models.CompanyEmployees{EmployeeCount: intPtr(120)},
	}

	// +0.1 three sources, +0.05 financial data, +0.03 employee data.
	assert.InDelta(t, 0.68, adjustCompanyCompleteness(company, 0.5), 1e-9)

	twoSources := &models.CompanyData{Sources: []string{"linkedin", "crunchbase"}}
	assert.InDelta(t, 0.55, adjustCompanyCompleteness(twoSources, 0.5), 1e-9)

	// Presence of the sub-objects earns the bonus even before any of their
	// fields are filled in.
	bareObjects := &models.CompanyData{
		Financial: &models.CompanyFinancial{},
		Employees: &models.CompanyEmployees{},
	}
	assert.InDelta(t, 0.58, adjustCompanyCompleteness(bareObjects, 0.5), 1e-9)
}

func TestDetectIssues(t *testing.T) {
	t.Run("validation issues carry high severity", func(t *testing.T) {
		result := &validation.Result{Issues: []string{"Missing or invalid full name"}}
		rec := models.Record{
			Type:            models.DataTypeLinkedInProfile,
			LinkedInProfile: &models.LinkedInProfile{ProfileImage: "https://img.example.com/a.jpg"},
		}

		issues := detectIssues(rec, result)
		require.NotEmpty(t, issues)
		assert.Equal(t, "validation", issues[0].Type)
		assert.Equal(t, "high", issues[0].Severity)
	})

	t.Run("placeholder summary is flagged", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeLinkedInProfile,
			LinkedInProfile: &models.LinkedInProfile{
				Summary:      "Lorem ipsum dolor sit amet",
				ProfileImage: "https://img.example.com/a.jpg",
			},
		}

		issues := detectIssues(rec, &validation.Result{})
		require.Len(t, issues, 1)
		assert.Equal(t, "placeholder_content", issues[0].Type)
		assert.Equal(t, "medium", issues[0].Severity)
		assert.Equal(t, "summary", issues[0].Field)
	})

	t.Run("missing profile image is a low severity issue", func(t *testing.T) {
		rec := models.Record{
			Type:            models.DataTypeLinkedInProfile,
			LinkedInProfile: &models.LinkedInProfile{FullName: "John Smith"},
		}

		issues := detectIssues(rec, &validation.Result{})
		require.Len(t, issues, 1)
		assert.Equal(t, "missing_content", issues[0].Type)
		assert.Equal(t, "low", issues[0].Severity)
	})

	t.Run("negative employee count is invalid data", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeCompany,
			Company: &models.CompanyData{
				Employees: &models.CompanyEmployees{EmployeeCount: intPtr(-5)},
			},
		}

		issues := detectIssues(rec, &validation.Result{})
		require.Len(t, issues, 1)
		assert.Equal(t, "invalid_data", issues[0].Type)
		assert.Equal(t, "high", issues[0].Severity)
	})

	t.Run("facebook posts with no engagement are flagged", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeFacebook,
			Facebook: &models.FacebookData{
				Posts: []models.Post{{Text: "a"}, {Text: "b"}},
			},
		}

		issues := detectIssues(rec, &validation.Result{})
		require.Len(t, issues, 1)
		assert.Equal(t, "low_engagement", issues[0].Type)
	})
}

func TestDetectAnomalies(t *testing.T) {
	t.Run("extreme connection count", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeLinkedInProfile,
			LinkedInProfile: &models.LinkedInProfile{
				ConnectionsCount: intPtr(50000),
			},
		}

		anomalies := detectAnomalies(rec)
		require.Len(t, anomalies, 1)
		assert.Equal(t, "unusual_metric", anomalies[0].Type)
		assert.Contains(t, anomalies[0].Description, "50000")
	})

	t.Run("valuation per employee ratio", func(t *testing.T) {
		rec := models.Record{
			Type: models.DataTypeCompany,
			Company: &models.CompanyData{
				Financial: &models.CompanyFinancial{Valuation: "$2,000,000,000"},
				Employees: &models.CompanyEmployees{EmployeeCount: intPtr(10)},
			},
		}

		anomalies := detectAnomalies(rec)
		require.Len(t, anomalies, 1)
		assert.Equal(t, "unusual_ratio", anomalies[0].Type)
	})

	t.Run("bot-like posting cadence", func(t *testing.T) {
		now := testClock()
		posts := make([]models.Post, 12)
		for i := range posts {
			posts[i] = models.Post{
				Text:      fmt.Sprintf("post %d", i),
				CreatedAt: now.Add(-time.Duration(i) * 6 * time.Hour).Format(time.RFC3339),
			}
		}
		rec := models.Record{
			Type:     models.DataTypeFacebook,
			Facebook: &models.FacebookData{Posts: posts},
		}

		anomalies := detectAnomalies(rec)
		require.Len(t, anomalies, 1)
		assert.Equal(t, "pattern_anomaly", anomalies[0].Type)
		assert.Equal(t, "Unusually regular posting pattern detected", anomalies[0].Description)
	})

	t.Run("irregular human cadence passes", func(t *testing.T) {
		now := testClock()
		offsets := []time.Duration{1, 3, 9, 11, 25, 26, 50, 80, 81, 130, 200, 300}
		posts := make([]models.Post, len(offsets))
		for i, h := range offsets {
			posts[i] = models.Post{
				Text:      fmt.Sprintf("post %d", i),
				CreatedAt: now.Add(-h * time.Hour).Format(time.RFC3339),
			}
		}
		rec := models.Record{
			Type:     models.DataTypeFacebook,
			Facebook: &models.FacebookData{Posts: posts},
		}

		assert.Empty(t, detectAnomalies(rec))
	})
}

func TestGenerateRecommendations(t *testing.T) {
	rec := models.Record{
		Type:            models.DataTypeLinkedInProfile,
		LinkedInProfile: &models.LinkedInProfile{FullName: "John Smith"},
	}
	result := &validation.Result{
		Recommendations: []string{"Verify LinkedIn profile URL format"},
	}
	issues := []Issue{
		{Type: "invalid_data", Severity: "high", Description: "Negative employee count"},
		{Type: "missing_content", Severity: "low", Description: "No profile image available"},
	}
	anomalies := []Anomaly{
		{Type: "unusual_metric", Severity: "medium", Description: "Unusually high connection count: 50000"},
	}

	recommendations := generateRecommendations(rec, result, issues, anomalies)

	var actions []string
	for _, r := range recommendations {
		actions = append(actions, r.Type)
	}
	assert.Contains(t, actions, "validation")
	assert.Contains(t, actions, "issue_resolution")
	assert.Contains(t, actions, "anomaly_review")
	assert.Contains(t, actions, "enrichment", "profile without image gets an enrichment suggestion")

	for _, r := range recommendations {
		if r.Type == "issue_resolution" {
			assert.Equal(t, "high", r.Priority)
			assert.Equal(t, "data_cleaning", r.Action)
		}
		if r.Type == "anomaly_review" {
			assert.Equal(t, "manual_review", r.Action)
		}
	}
}

func TestSortIssuesBySeverity(t *testing.T) {
	issues := []Issue{
		{Severity: "low", Description: "first low"},
		{Severity: "high", Description: "high"},
		{Severity: "medium", Description: "medium"},
		{Severity: "low", Description: "second low"},
	}

	SortIssuesBySeverity(issues)

	assert.Equal(t, "high", issues[0].Severity)
	assert.Equal(t, "medium", issues[1].Severity)
	assert.Equal(t, "first low", issues[2].Description)
	assert.Equal(t, "second low", issues[3].Description)
}

func TestRichnessLevel(t *testing.T) {
	cases := []struct {
		ratio float64
		level string
	}{
		{0.9, "very high"},
		{0.7, "high"},
		{0.5, "medium"},
		{0.3, "low"},
		{0.1, "very low"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, RichnessLevel(tc.ratio))
	}
}
