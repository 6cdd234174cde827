package quality

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/prospect-analyzer/data-validation/internal/models"
	"github.com/prospect-analyzer/data-validation/internal/validation"
)

// placeholderMarkers are strings scrapers pick up from unfinished profiles.
var placeholderMarkers = []string{"lorem ipsum", "placeholder", "coming soon", "update soon"}

var nonNumericPattern = regexp.MustCompile(`[^\d.]`)

// detectIssues collects validation failures and type-specific defects.
func detectIssues(rec models.Record, result *validation.Result) []Issue {
	issues := []Issue{}

	for _, issue := range result.Issues {
		issues = append(issues, Issue{
			Type:        "validation",
			Severity:    "high",
			Description: issue,
		})
	}

	switch rec.Type {
	case models.DataTypeLinkedInProfile:
		issues = append(issues, detectProfileIssues(rec.LinkedInProfile)...)
	case models.DataTypeCompany:
		issues = append(issues, detectCompanyIssues(rec.Company)...)
	case models.DataTypeFacebook:
		if rec.Facebook != nil {
			issues = append(issues, detectEngagementIssues(rec.Facebook.Posts)...)
		}
	}
	return issues
}

func detectProfileIssues(profile *models.LinkedInProfile) []Issue {
	var issues []Issue
	if profile == nil {
		return issues
	}

	if profile.Summary != "" {
		lower := strings.ToLower(profile.Summary)
		for _, marker := range placeholderMarkers {
			if strings.Contains(lower, marker) {
				issues = append(issues, Issue{
					Type:        "placeholder_content",
					Severity:    "medium",
					Description: "Profile summary contains placeholder text",
					Field:       "summary",
				})
				break
			}
		}
	}

	if profile.ProfileImage == "" {
		issues = append(issues, Issue{
			Type:        "missing_content",
			Severity:    "low",
			Description: "No profile image available",
			Field:       "profile_image",
		})
	}
	return issues
}

func detectCompanyIssues(company *models.CompanyData) []Issue {
	var issues []Issue
	if company == nil || company.Employees == nil {
		return issues
	}

	if count := company.Employees.EmployeeCount; count != nil && *count < 0 {
		issues = append(issues, Issue{
			Type:        "invalid_data",
			Severity:    "high",
			Description: "Negative employee count",
			Field:       "employees.employee_count",
		})
	}
	return issues
}

func detectEngagementIssues(posts []models.Post) []Issue {
	var issues []Issue
	if len(posts) == 0 {
		return issues
	}

	total := 0
	for _, post := range posts {
		total += post.Likes + post.Comments + post.Shares
	}

	if float64(total)/float64(len(posts)) < 1 {
		issues = append(issues, Issue{
			Type:        "low_engagement",
			Severity:    "medium",
			Description: "Very low social media engagement detected",
			Field:       "posts",
		})
	}
	return issues
}

// detectAnomalies flags statistically unusual patterns for manual review.
func detectAnomalies(rec models.Record) []Anomaly {
	anomalies := []Anomaly{}

	switch rec.Type {
	case models.DataTypeLinkedInProfile:
		anomalies = append(anomalies, detectProfileAnomalies(rec.LinkedInProfile)...)
	case models.DataTypeCompany:
		anomalies = append(anomalies, detectCompanyAnomalies(rec.Company)...)
	case models.DataTypeFacebook:
		if rec.Facebook != nil {
			anomalies = append(anomalies, detectPostingPatternAnomalies(rec.Facebook.Posts)...)
		}
	}
	return anomalies
}

func detectProfileAnomalies(profile *models.LinkedInProfile) []Anomaly {
	var anomalies []Anomaly
	if profile == nil {
		return anomalies
	}

	// LinkedIn caps displayed connections around 30k.
	if profile.ConnectionsCount != nil && *profile.ConnectionsCount > 30000 {
		anomalies = append(anomalies, Anomaly{
			Type:        "unusual_metric",
			Severity:    "medium",
			Description: fmt.Sprintf("Unusually high connection count: %d", *profile.ConnectionsCount),
			Field:       "connections_count",
		})
	}

	if len(profile.Experience) > 10 {
		shortTenures := 0
		for _, exp := range profile.Experience {
			if isShortTenure(exp) {
				shortTenures++
			}
		}
		if float64(shortTenures)/float64(len(profile.Experience)) > 0.7 {
			anomalies = append(anomalies, Anomaly{
				Type:        "pattern_anomaly",
				Severity:    "low",
				Description: "Frequent job changes detected",
				Field:       "experience",
			})
		}
	}
	return anomalies
}

// isShortTenure would compute employment duration from the entry's date range.
// The scraped date strings are not normalized yet, so nothing is flagged.
func isShortTenure(exp models.Experience) bool {
	return false
}

func detectCompanyAnomalies(company *models.CompanyData) []Anomaly {
	var anomalies []Anomaly
	if company == nil || company.Financial == nil || company.Employees == nil {
		return anomalies
	}
	if company.Financial.Valuation == "" || company.Employees.EmployeeCount == nil {
		return anomalies
	}

	raw := nonNumericPattern.ReplaceAllString(company.Financial.Valuation, "")
	valuation, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return anomalies
	}

	employeeCount := *company.Employees.EmployeeCount
	if employeeCount <= 0 {
		return anomalies
	}

	perEmployee := valuation / float64(employeeCount)
	if perEmployee > 10_000_000 {
		anomalies = append(anomalies, Anomaly{
			Type:        "unusual_ratio",
			Severity:    "medium",
			Description: fmt.Sprintf("Unusually high valuation per employee: $%.0f", perEmployee),
			Field:       "financial.valuation",
		})
	}
	return anomalies
}

// detectPostingPatternAnomalies looks for bot-like regularity in post timing.
// A feed where most intervals sit within ten percent of the mean interval is
// almost never human.
func detectPostingPatternAnomalies(posts []models.Post) []Anomaly {
	var anomalies []Anomaly

	var times []time.Time
	for _, post := range posts {
		if ts, ok := post.Timestamp(); ok {
			times = append(times, ts)
		}
	}
	if len(times) < 10 {
		return anomalies
	}

	intervals := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		intervals = append(intervals, math.Abs(times[i].Sub(times[i-1]).Seconds()))
	}

	mean := stat.Mean(intervals, nil)
	similar := 0
	for _, interval := range intervals {
		if math.Abs(interval-mean) < mean*0.1 {
			similar++
		}
	}

	if float64(similar)/float64(len(intervals)) > 0.8 {
		anomalies = append(anomalies, Anomaly{
			Type:        "pattern_anomaly",
			Severity:    "medium",
			Description: "Unusually regular posting pattern detected",
			Field:       "posts",
		})
	}
	return anomalies
}

// generateRecommendations turns validation output, issues and anomalies into
// prioritized follow-up actions.
func generateRecommendations(rec models.Record, result *validation.Result, issues []Issue, anomalies []Anomaly) []Recommendation {
	recommendations := []Recommendation{}

	for _, suggestion := range result.Recommendations {
		recommendations = append(recommendations, Recommendation{
			Type:        "validation",
			Priority:    "high",
			Description: suggestion,
			Action:      "data_collection",
		})
	}

	for _, issue := range issues {
		if issue.Severity == "high" {
			recommendations = append(recommendations, Recommendation{
				Type:        "issue_resolution",
				Priority:    "high",
				Description: fmt.Sprintf("Resolve %s issue: %s", issue.Type, issue.Description),
				Action:      "data_cleaning",
			})
		}
	}

	for _, anomaly := range anomalies {
		recommendations = append(recommendations, Recommendation{
			Type:        "anomaly_review",
			Priority:    "medium",
			Description: fmt.Sprintf("Review %s anomaly: %s", anomaly.Type, anomaly.Description),
			Action:      "manual_review",
		})
	}

	recommendations = append(recommendations, enrichmentRecommendations(rec)...)
	return recommendations
}

func enrichmentRecommendations(rec models.Record) []Recommendation {
	var recommendations []Recommendation

	switch rec.Type {
	case models.DataTypeLinkedInProfile:
		if rec.LinkedInProfile == nil || rec.LinkedInProfile.ProfileImage == "" {
			recommendations = append(recommendations, Recommendation{
				Type:        "enrichment",
				Priority:    "low",
				Description: "Add profile image for better visual identification",
				Action:      "data_collection",
			})
		}
	case models.DataTypeCompany:
		if rec.Company == nil || rec.Company.Website == "" {
			recommendations = append(recommendations, Recommendation{
				Type:        "enrichment",
				Priority:    "medium",
				Description: "Add company website for verification and additional data",
				Action:      "data_collection",
			})
		}
	}
	return recommendations
}

// SortIssuesBySeverity orders issues high, medium, low while keeping the
// original order within a severity.
func SortIssuesBySeverity(issues []Issue) {
	rank := map[string]int{"high": 0, "medium": 1, "low": 2}
	sort.SliceStable(issues, func(i, j int) bool {
		return rank[issues[i].Severity] < rank[issues[j].Severity]
	})
}
