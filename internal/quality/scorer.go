package quality

import (
	"time"

	"go.uber.org/zap"

	"github.com/prospect-analyzer/data-validation/internal/models"
	"github.com/prospect-analyzer/data-validation/internal/validation"
)

// Overall score weighting. Validity and completeness dominate; freshness
// matters least but still moves the grade.
const (
	validityWeight     = 0.3
	completenessWeight = 0.3
	consistencyWeight  = 0.25
	freshnessWeight    = 0.15
)

// Completeness blends the validated field tiers with required fields
// weighted heavily.
const (
	requiredCompletenessWeight = 0.8
	optionalCompletenessWeight = 0.2
)

// Scorer produces quality reports by combining field validation with
// completeness, consistency, freshness and richness analysis.
type Scorer struct {
	validator        *validation.Validator
	logger           *zap.Logger
	now              func() time.Time
	anomalyDetection bool
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithScorerClock overrides the wall clock used for freshness scoring.
func WithScorerClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) {
		s.now = now
	}
}

// WithAnomalyDetection toggles the anomaly detection pass.
func WithAnomalyDetection(enabled bool) ScorerOption {
	return func(s *Scorer) {
		s.anomalyDetection = enabled
	}
}

// NewScorer creates a quality scorer backed by the given validator.
func NewScorer(validator *validation.Validator, logger *zap.Logger, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		validator:        validator,
		logger:           logger,
		now:              time.Now,
		anomalyDetection: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs the full quality assessment for one record. The related set,
// when non-empty, enables cross-reference consistency checks against other
// records collected for the same prospect.
func (s *Scorer) Analyze(rec models.Record, related map[models.DataType]models.Record) (*Report, *validation.Result, error) {
	s.logger.Info("performing data quality analysis",
		zap.String("data_type", string(rec.Type)))

	validationResult, err := s.validator.Validate(rec, false)
	if err != nil {
		return nil, nil, err
	}

	completeness := s.assessCompleteness(rec, validationResult)
	consistency := s.assessConsistency(rec, related)
	freshness := s.assessFreshness(rec)
	validity := validationResult.ConfidenceScore

	richness := AnalyzeRichness(rec)

	issues := detectIssues(rec, validationResult)
	anomalies := []Anomaly{}
	if s.anomalyDetection {
		anomalies = detectAnomalies(rec)
	}
	recommendations := generateRecommendations(rec, validationResult, issues, anomalies)
	SortIssuesBySeverity(issues)

	overall := clamp(validity*validityWeight +
		completeness*completenessWeight +
		consistency*consistencyWeight +
		freshness*freshnessWeight)

	return &Report{
		Timestamp:         s.now(),
		OverallScore:      overall,
		Grade:             ScoreToGrade(overall),
		ValidityScore:     validity,
		CompletenessScore: completeness,
		ConsistencyScore:  consistency,
		FreshnessScore:    freshness,
		Richness:          richness,
		RichnessLevel:     RichnessLevel(richness.RichnessRatio),
		Issues:            issues,
		Anomalies:         anomalies,
		Recommendations:   recommendations,
	}, validationResult, nil
}

func (s *Scorer) assessCompleteness(rec models.Record, result *validation.Result) float64 {
	base := result.RequiredFields.Score()*requiredCompletenessWeight +
		result.OptionalFields.Score()*optionalCompletenessWeight

	switch rec.Type {
	case models.DataTypeLinkedInProfile:
		base = adjustProfileCompleteness(rec.LinkedInProfile, base)
	case models.DataTypeCompany:
		base = adjustCompanyCompleteness(rec.Company, base)
	case models.DataTypeFacebook:
		if rec.Facebook != nil {
			base = adjustPostVolumeCompleteness(len(rec.Facebook.Posts), base)
		}
	case models.DataTypeTwitter:
		if rec.Twitter != nil {
			base = adjustPostVolumeCompleteness(len(rec.Twitter.Tweets), base)
		}
	}
	return clamp(base)
}

// adjustProfileCompleteness rewards depth beyond the bare field checks.
func adjustProfileCompleteness(profile *models.LinkedInProfile, base float64) float64 {
	if profile == nil {
		return base
	}
	bonus := 0.0

	if len(profile.Experience) >= 3 {
		bonus += 0.05
	}
	detailed := 0
	for _, exp := range profile.Experience {
		if len(exp.Description) > 50 {
			detailed++
		}
	}
	if detailed >= 2 {
		bonus += 0.05
	}

	if len(profile.Education) >= 2 {
		bonus += 0.03
	}
	if len(profile.Skills) >= 10 {
		bonus += 0.05
	}
	return base + bonus
}

func adjustCompanyCompleteness(company *models.CompanyData, base float64) float64 {
	if company == nil {
		return base
	}
	bonus := 0.0

	if len(company.Sources) >= 3 {
		bonus += 0.1
	} else if len(company.Sources) >= 2 {
		bonus += 0.05
	}
	if company.Financial != nil {
		bonus += 0.05
	}
	if company.Employees != nil {
		bonus += 0.03
	}
	return base + bonus
}

func adjustPostVolumeCompleteness(postCount int, base float64) float64 {
	if postCount >= 20 {
		return base + 0.05
	}
	if postCount >= 10 {
		return base + 0.03
	}
	return base
}

func (s *Scorer) assessConsistency(rec models.Record, related map[models.DataType]models.Record) float64 {
	score := 1.0

	switch rec.Type {
	case models.DataTypeLinkedInProfile:
		score = checkProfileConsistency(rec.LinkedInProfile)
	case models.DataTypeCompany:
		score = checkCompanyConsistency(rec.Company)
	case models.DataTypeSocialMedia:
		score = checkSocialMediaConsistency(rec.SocialMedia)
	}

	if len(related) > 0 {
		score = (score + checkCrossReferenceConsistency(rec, related)) / 2
	}
	return score
}

func checkProfileConsistency(profile *models.LinkedInProfile) float64 {
	score := 1.0
	if profile == nil {
		return score
	}
	issues := countExperienceDateIssues(profile.Experience)
	score -= 0.1 * float64(issues)
	if score < 0 {
		return 0
	}
	return score
}

// countExperienceDateIssues would flag overlapping ranges and future dates.
// Scraped date strings are too free-form to parse reliably yet.
// TODO: parse "Jan 2020 - Present" style ranges once the scraper normalizes them.
func countExperienceDateIssues(experience []models.Experience) int {
	return 0
}

// checkCompanyConsistency cross-checks the headcount figures and funding data
// a company record carries. The individual checks are not implemented yet, so
// the score stays neutral.
func checkCompanyConsistency(company *models.CompanyData) float64 {
	return 1.0
}

// checkSocialMediaConsistency would compare handles and display names across
// platforms. Not implemented yet, so the score stays neutral.
func checkSocialMediaConsistency(social *models.SocialMediaData) float64 {
	return 1.0
}

// checkCrossReferenceConsistency would verify agreement between this record
// and other records for the same prospect, such as the LinkedIn company name
// matching the aggregated company data. Not implemented yet.
func checkCrossReferenceConsistency(rec models.Record, related map[models.DataType]models.Record) float64 {
	return 1.0
}

// assessFreshness scores recency for record types that carry timestamps.
// Types without any time dimension get a neutral 0.5.
func (s *Scorer) assessFreshness(rec models.Record) float64 {
	now := s.now()

	switch rec.Type {
	case models.DataTypeLinkedInPosts:
		if rec.LinkedInPosts != nil && len(rec.LinkedInPosts.Posts) > 0 {
			return postsFreshness(rec.LinkedInPosts.Posts, now)
		}
	case models.DataTypeTwitter:
		if rec.Twitter != nil && len(rec.Twitter.Tweets) > 0 {
			return postsFreshness(rec.Twitter.Tweets, now)
		}
	case models.DataTypeFacebook:
		if rec.Facebook != nil && len(rec.Facebook.Posts) > 0 {
			return postsFreshness(rec.Facebook.Posts, now)
		}
	case models.DataTypeCompany:
		if rec.Company != nil && len(rec.Company.News) > 0 {
			return newsFreshness(rec.Company.News, now)
		}
	}
	return 0.5
}

// postsFreshness weighs posts from the last month double and posts from the
// last quarter single, against a maximum where every post is very recent.
func postsFreshness(posts []models.Post, now time.Time) float64 {
	if len(posts) == 0 {
		return 0.0
	}

	veryRecent := now.AddDate(0, 0, -30)
	recent := now.AddDate(0, 0, -90)

	weight := 0
	for _, post := range posts {
		ts, ok := post.Timestamp()
		if !ok {
			continue
		}
		if !ts.Before(veryRecent) {
			weight += 2
		} else if !ts.Before(recent) {
			weight++
		}
	}

	return clamp(float64(weight) / float64(len(posts)*2))
}

// newsFreshness uses wider windows than posts; news cycles are slower.
func newsFreshness(news []models.NewsItem, now time.Time) float64 {
	if len(news) == 0 {
		return 0.5
	}

	veryRecent := now.AddDate(0, 0, -90)
	recent := now.AddDate(0, 0, -365)

	weight := 0
	for _, article := range news {
		ts, ok := article.Timestamp()
		if !ok {
			continue
		}
		if !ts.Before(veryRecent) {
			weight += 2
		} else if !ts.Before(recent) {
			weight++
		}
	}

	return clamp(float64(weight) / float64(len(news)*2))
}
