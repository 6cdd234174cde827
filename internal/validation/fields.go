package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/prospect-analyzer/data-validation/internal/models"
)

// Field validators are pure predicates: one field value in, a FieldVerdict
// out. They never fail; bad input yields Valid=false with a descriptive issue.

var (
	personNamePattern    = regexp.MustCompile(`^[a-zA-Z\s\-.']+$`)
	twitterHandlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{1,15}$`)

	companySizePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+-\d+`),       // e.g. "50-100"
		regexp.MustCompile(`(?i)\d+\+`),         // e.g. "1000+"
		regexp.MustCompile(`(?i)<\d+`),          // e.g. "<50"
		regexp.MustCompile(`(?i)\d+ employees`), // e.g. "100 employees"
	}

	validDataSources = map[string]struct{}{
		"linkedin":   {},
		"facebook":   {},
		"twitter":    {},
		"crunchbase": {},
		"duns":       {},
		"zoominfo":   {},
		"erasmus":    {},
	}
)

// recentActivityWindow is how far back a post still counts as recent activity.
const recentActivityWindow = 180 * 24 * time.Hour

// ValidatePersonName checks that a name looks like a real first+last name.
func ValidatePersonName(name string) FieldVerdict {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return FieldVerdict{Valid: false, Value: name, Issue: "Missing or invalid name"}
	}
	if len(trimmed) < 2 {
		return FieldVerdict{Valid: false, Value: trimmed, Issue: "Name too short"}
	}
	if !personNamePattern.MatchString(trimmed) {
		return FieldVerdict{Valid: false, Value: trimmed, Issue: "Name contains invalid characters"}
	}
	if len(strings.Fields(trimmed)) < 2 {
		return FieldVerdict{Valid: false, Value: trimmed, Issue: "Missing first or last name"}
	}
	return FieldVerdict{Valid: true, Value: trimmed}
}

// ValidateLinkedInURL checks a LinkedIn profile URL (host and /in/ path).
func ValidateLinkedInURL(raw string) FieldVerdict {
	if raw == "" {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Missing LinkedIn URL"}
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Invalid URL format"}
	}
	if parsed.Host != "linkedin.com" && parsed.Host != "www.linkedin.com" {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Not a LinkedIn URL"}
	}
	if !strings.Contains(parsed.Path, "/in/") {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Invalid LinkedIn profile URL format"}
	}
	return FieldVerdict{Valid: true, Value: raw}
}

// ValidateLinkedInCompanyURL checks a LinkedIn company URL (host and /company/ path).
func ValidateLinkedInCompanyURL(raw string) FieldVerdict {
	if raw == "" {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Missing LinkedIn company URL"}
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Invalid URL format"}
	}
	if parsed.Host != "linkedin.com" && parsed.Host != "www.linkedin.com" {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Not a LinkedIn URL"}
	}
	if !strings.Contains(parsed.Path, "/company/") {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Invalid LinkedIn company URL format"}
	}
	return FieldVerdict{Valid: true, Value: raw}
}

// ValidateFacebookURL checks that a URL points at facebook.com.
func ValidateFacebookURL(raw string) FieldVerdict {
	if raw == "" {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Missing Facebook URL"}
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Invalid URL format"}
	}
	if !strings.Contains(parsed.Host, "facebook.com") {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Not a Facebook URL"}
	}
	return FieldVerdict{Valid: true, Value: raw}
}

// ValidateTwitterHandle checks a Twitter/X handle, tolerating a leading @.
func ValidateTwitterHandle(handle string) FieldVerdict {
	if handle == "" {
		return FieldVerdict{Valid: false, Value: handle, Issue: "Missing Twitter handle"}
	}
	clean := strings.TrimLeft(handle, "@")
	if !twitterHandlePattern.MatchString(clean) {
		return FieldVerdict{Valid: false, Value: handle, Issue: "Invalid Twitter handle format"}
	}
	return FieldVerdict{Valid: true, Value: handle}
}

// ValidateWebsiteURL checks a generic website URL for scheme and host.
func ValidateWebsiteURL(raw string) FieldVerdict {
	if raw == "" {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Missing website URL"}
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Invalid URL format"}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Incomplete URL"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Invalid URL scheme"}
	}
	return FieldVerdict{Valid: true, Value: raw}
}

// ValidateImageURL checks an image URL for scheme and host.
func ValidateImageURL(raw string) FieldVerdict {
	if raw == "" {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Missing image URL"}
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Invalid URL format"}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return FieldVerdict{Valid: false, Value: raw, Issue: "Invalid image URL"}
	}
	return FieldVerdict{Valid: true, Value: raw}
}

// ValidateNonEmptyString checks a string for non-whitespace content.
func ValidateNonEmptyString(value string) FieldVerdict {
	if strings.TrimSpace(value) == "" {
		return FieldVerdict{Valid: false, Value: value, Issue: "Empty or missing string"}
	}
	return FieldVerdict{Valid: true, Value: value}
}

// ValidateLocation checks a location string.
func ValidateLocation(location string) FieldVerdict {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return FieldVerdict{Valid: false, Value: location, Issue: "Missing location"}
	}
	if len(trimmed) < 2 {
		return FieldVerdict{Valid: false, Value: trimmed, Issue: "Location too short"}
	}
	return FieldVerdict{Valid: true, Value: trimmed}
}

// DefaultMinTextLength is the minimum length for free-text fields.
const DefaultMinTextLength = 10

// ValidateTextContent checks free text against a minimum length.
func ValidateTextContent(text string, minLength int) FieldVerdict {
	if text == "" {
		return FieldVerdict{Valid: false, Value: text, Issue: "Missing text content"}
	}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minLength {
		return FieldVerdict{
			Valid: false,
			Value: trimmed,
			Issue: fmt.Sprintf("Text too short (min %d chars)", minLength),
		}
	}
	return FieldVerdict{Valid: true, Value: trimmed}
}

// ValidatePositiveInt checks an optional integer for presence and positivity.
func ValidatePositiveInt(value *int) FieldVerdict {
	if value == nil {
		return FieldVerdict{Valid: false, Value: nil, Issue: "Missing number"}
	}
	if *value <= 0 {
		return FieldVerdict{Valid: false, Value: *value, Issue: "Number must be positive"}
	}
	return FieldVerdict{Valid: true, Value: *value}
}

// ValidatePositiveCount checks a derived count (e.g. a list length).
func ValidatePositiveCount(count int) FieldVerdict {
	if count <= 0 {
		return FieldVerdict{Valid: false, Value: count, Issue: "Number must be positive"}
	}
	return FieldVerdict{Valid: true, Value: count}
}

// ValidateStringList checks that a string list is present and non-empty.
func ValidateStringList(items []string) FieldVerdict {
	if len(items) == 0 {
		return FieldVerdict{Valid: false, Value: items, Issue: "Empty list"}
	}
	return FieldVerdict{Valid: true, Value: items}
}

// ValidateMapContent checks that a mapping is present and non-empty.
func ValidateMapContent(data map[string]interface{}) FieldVerdict {
	if len(data) == 0 {
		return FieldVerdict{Valid: false, Value: data, Issue: "Missing or invalid dictionary"}
	}
	return FieldVerdict{Valid: true, Value: data}
}

// ValidateDataSources checks every source against the provider allow-set.
func ValidateDataSources(sources []string) FieldVerdict {
	if len(sources) == 0 {
		return FieldVerdict{Valid: false, Value: sources, Issue: "Missing data sources"}
	}
	var invalid []string
	for _, source := range sources {
		if _, ok := validDataSources[source]; !ok {
			invalid = append(invalid, source)
		}
	}
	if len(invalid) > 0 {
		return FieldVerdict{
			Valid: false,
			Value: sources,
			Issue: fmt.Sprintf("Invalid sources: %v", invalid),
		}
	}
	return FieldVerdict{Valid: true, Value: sources}
}

// ValidateExperienceList checks work history entries; an entry counts only
// with both a title and a company.
func ValidateExperienceList(experience []models.Experience) FieldVerdict {
	if len(experience) == 0 {
		return FieldVerdict{Valid: false, Value: experience, Issue: "Missing experience data"}
	}
	validCount := 0
	for _, entry := range experience {
		if entry.Title != "" && entry.Company != "" {
			validCount++
		}
	}
	if validCount == 0 {
		return FieldVerdict{Valid: false, Value: experience, Issue: "No valid experience entries"}
	}
	return FieldVerdict{Valid: true, Value: experience, ValidCount: validCount}
}

// ValidateEducationList checks education entries; an entry counts with a school.
func ValidateEducationList(education []models.Education) FieldVerdict {
	if len(education) == 0 {
		return FieldVerdict{Valid: false, Value: education, Issue: "Missing education data"}
	}
	validCount := 0
	for _, entry := range education {
		if entry.School != "" {
			validCount++
		}
	}
	if validCount == 0 {
		return FieldVerdict{Valid: false, Value: education, Issue: "No valid education entries"}
	}
	return FieldVerdict{Valid: true, Value: education, ValidCount: validCount}
}

// ValidateSkillsList checks a skills list, ignoring blank entries.
func ValidateSkillsList(skills []string) FieldVerdict {
	if len(skills) == 0 {
		return FieldVerdict{Valid: false, Value: skills, Issue: "Missing skills data"}
	}
	validCount := 0
	for _, skill := range skills {
		if strings.TrimSpace(skill) != "" {
			validCount++
		}
	}
	if validCount == 0 {
		return FieldVerdict{Valid: false, Value: skills, Issue: "No valid skills"}
	}
	return FieldVerdict{Valid: true, Value: skills, ValidCount: validCount}
}

// ValidateCompanySize matches free-text company size descriptions.
func ValidateCompanySize(size string) FieldVerdict {
	if size == "" {
		return FieldVerdict{Valid: false, Value: size, Issue: "Missing company size"}
	}
	for _, pattern := range companySizePatterns {
		if pattern.MatchString(size) {
			return FieldVerdict{Valid: true, Value: size}
		}
	}
	return FieldVerdict{Valid: false, Value: size, Issue: "Invalid company size format"}
}

// ValidateFinancialData checks aggregated financial data for any content.
func ValidateFinancialData(financial *models.CompanyFinancial) FieldVerdict {
	if financial == nil {
		return FieldVerdict{Valid: false, Value: nil, Issue: "Missing financial data"}
	}
	if !financial.HasData() {
		return FieldVerdict{Valid: false, Value: financial, Issue: "No financial information"}
	}
	return FieldVerdict{Valid: true, Value: financial}
}

// ValidateEmployeeData checks aggregated employee data for any content.
func ValidateEmployeeData(employees *models.CompanyEmployees) FieldVerdict {
	if employees == nil {
		return FieldVerdict{Valid: false, Value: nil, Issue: "Missing employee data"}
	}
	if !employees.HasData() {
		return FieldVerdict{Valid: false, Value: employees, Issue: "No employee information"}
	}
	return FieldVerdict{Valid: true, Value: employees}
}

// ValidateRecentPosts checks for posting activity within the last six months.
// Unparseable timestamps are skipped, not counted against the record.
func ValidateRecentPosts(posts []models.Post, now time.Time) FieldVerdict {
	if len(posts) == 0 {
		return FieldVerdict{Valid: false, Value: posts, Issue: "No posts data"}
	}
	threshold := now.Add(-recentActivityWindow)
	recentCount := 0
	for _, post := range posts {
		if ts, ok := post.Timestamp(); ok && !ts.Before(threshold) {
			recentCount++
		}
	}
	return FieldVerdict{
		Valid:       recentCount > 0,
		Value:       posts,
		RecentCount: recentCount,
		TotalCount:  len(posts),
	}
}

// ValidatePostList checks that posts carry actual text content.
func ValidatePostList(posts []models.Post) FieldVerdict {
	if len(posts) == 0 {
		return FieldVerdict{Valid: false, Value: posts, Issue: "No posts"}
	}
	validCount := 0
	for _, post := range posts {
		if post.Body() != "" {
			validCount++
		}
	}
	if validCount == 0 {
		return FieldVerdict{Valid: false, Value: posts, Issue: "No valid posts with content"}
	}
	return FieldVerdict{
		Valid:      true,
		Value:      posts,
		ValidCount: validCount,
		TotalCount: len(posts),
	}
}
