package validation

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prospect-analyzer/data-validation/internal/models"
)

// Validator runs the type-specific validation routines over collected records.
// It is stateless apart from its clock and safe for concurrent use.
type Validator struct {
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the wall clock, used for deterministic freshness checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator creates a validator.
func NewValidator(logger *zap.Logger, opts ...Option) *Validator {
	v := &Validator{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate dispatches a record to the validator for its data type. Unknown
// types fail with ErrUnsupportedDataType; any internal failure inside a type
// validator degrades to a zero-confidence result instead of propagating.
func (v *Validator) Validate(rec models.Record, strict bool) (result *Result, err error) {
	if _, parseErr := models.ParseDataType(string(rec.Type)); parseErr != nil {
		return nil, parseErr
	}

	v.logger.Debug("validating data",
		zap.String("data_type", string(rec.Type)),
		zap.Bool("strict_mode", strict))

	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validation failed",
				zap.String("data_type", string(rec.Type)),
				zap.Any("panic", r))
			result = v.failedResult(fmt.Sprintf("Validation error: %v", r))
			err = nil
		}
	}()

	switch rec.Type {
	case models.DataTypeLinkedInProfile:
		result = v.validateLinkedInProfile(orEmpty(rec.LinkedInProfile), strict)
	case models.DataTypeLinkedInPosts:
		result = v.validateLinkedInPosts(orEmpty(rec.LinkedInPosts), strict)
	case models.DataTypeLinkedInCompany:
		result = v.validateLinkedInCompany(orEmpty(rec.LinkedInCompany), strict)
	case models.DataTypeFacebook:
		result = v.validateFacebook(orEmpty(rec.Facebook), strict)
	case models.DataTypeTwitter:
		result = v.validateTwitter(orEmpty(rec.Twitter), strict)
	case models.DataTypeSocialMedia:
		result = v.validateSocialMedia(orEmpty(rec.SocialMedia), strict)
	case models.DataTypeCompany:
		result = v.validateCompany(orEmpty(rec.Company), strict)
	}
	return result, nil
}

// orEmpty substitutes a zero-value record for a missing payload so that the
// field validators report it as uniformly invalid rather than panicking.
func orEmpty[T any](ptr *T) *T {
	if ptr == nil {
		return new(T)
	}
	return ptr
}

// failedResult is the degraded result returned when a validator itself fails.
func (v *Validator) failedResult(issue string) *Result {
	return &Result{
		IsValid:         false,
		ConfidenceScore: 0.0,
		ConfidenceLevel: InterpretScore(0.0),
		RequiredFields:  NewFieldGroup(map[string]FieldVerdict{}),
		OptionalFields:  NewFieldGroup(map[string]FieldVerdict{}),
		Issues:          []string{issue},
		Recommendations: []string{"Check data format and try again"},
		Timestamp:       v.now(),
	}
}

// buildResult assembles a Result from the two field tiers and the
// type-specific weighting.
func (v *Validator) buildResult(
	required, optional map[string]FieldVerdict,
	requiredWeight, optionalWeight, validThreshold, bonus float64,
	issues, recommendations []string,
) *Result {
	requiredGroup := NewFieldGroup(required)
	optionalGroup := NewFieldGroup(optional)

	confidence := requiredGroup.Score()*requiredWeight + optionalGroup.Score()*optionalWeight + bonus

	if issues == nil {
		issues = []string{}
	}
	if recommendations == nil {
		recommendations = []string{}
	}

	score := clamp(confidence)
	return &Result{
		IsValid:         requiredGroup.Score() >= validThreshold,
		ConfidenceScore: score,
		ConfidenceLevel: InterpretScore(score),
		RequiredFields:  requiredGroup,
		OptionalFields:  optionalGroup,
		Issues:          issues,
		Recommendations: recommendations,
		Timestamp:       v.now(),
	}
}

func (v *Validator) validateLinkedInProfile(profile *models.LinkedInProfile, strict bool) *Result {
	var issues, recommendations []string

	required := map[string]FieldVerdict{
		"full_name":   ValidatePersonName(profile.FullName),
		"profile_url": ValidateLinkedInURL(profile.ProfileURL),
	}
	optional := map[string]FieldVerdict{
		"headline":          ValidateNonEmptyString(profile.Headline),
		"location":          ValidateLocation(profile.Location),
		"summary":           ValidateTextContent(profile.Summary, DefaultMinTextLength),
		"experience":        ValidateExperienceList(profile.Experience),
		"education":         ValidateEducationList(profile.Education),
		"skills":            ValidateSkillsList(profile.Skills),
		"profile_image":     ValidateImageURL(profile.ProfileImage),
		"connections_count": ValidatePositiveInt(profile.ConnectionsCount),
	}

	if !required["full_name"].Valid {
		issues = append(issues, "Missing or invalid full name")
		recommendations = append(recommendations, "Ensure profile has a valid full name")
	}
	if !required["profile_url"].Valid {
		issues = append(issues, "Missing or invalid LinkedIn profile URL")
		recommendations = append(recommendations, "Verify LinkedIn profile URL format")
	}
	if strict {
		if !optional["experience"].Valid {
			issues = append(issues, "No work experience data")
			recommendations = append(recommendations, "Add work experience for better profile completeness")
		}
		if !optional["education"].Valid {
			issues = append(issues, "No education data")
			recommendations = append(recommendations, "Add education information")
		}
	}

	// Richness bonuses on top of the weighted blend.
	bonus := 0.0
	if len(profile.Experience) >= 3 {
		bonus += 0.05
	}
	if len(profile.Skills) >= 5 {
		bonus += 0.05
	}

	return v.buildResult(required, optional, 0.7, 0.3, 0.8, bonus, issues, recommendations)
}

func (v *Validator) validateLinkedInPosts(posts *models.LinkedInPosts, strict bool) *Result {
	var issues, recommendations []string

	required := map[string]FieldVerdict{
		"profile_url": ValidateLinkedInURL(posts.ProfileURL),
		"posts_exist": {Valid: len(posts.Posts) > 0, Value: len(posts.Posts)},
	}
	optional := map[string]FieldVerdict{
		"author_name":     ValidatePersonName(posts.AuthorName),
		"post_count":      ValidatePositiveCount(len(posts.Posts)),
		"recent_activity": ValidateRecentPosts(posts.Posts, v.now()),
	}
	if len(posts.Posts) > 0 {
		optional["post_quality"] = ValidatePostList(posts.Posts)
	}

	if len(posts.Posts) == 0 {
		issues = append(issues, "No posts found")
		recommendations = append(recommendations, "Verify profile has public posts or increase scraping limits")
	}
	if strict && len(posts.Posts) > 0 && len(posts.Posts) < 5 {
		issues = append(issues, "Limited post data")
		recommendations = append(recommendations, "Consider increasing post scraping limit for better insights")
	}

	// Posts are optional-heavy, so the validity bar is lower here.
	return v.buildResult(required, optional, 0.6, 0.4, 0.5, 0, issues, recommendations)
}

func (v *Validator) validateLinkedInCompany(company *models.LinkedInCompany, strict bool) *Result {
	var issues, recommendations []string

	required := map[string]FieldVerdict{
		"name":        ValidateNonEmptyString(company.Name),
		"company_url": ValidateLinkedInCompanyURL(company.CompanyURL),
	}
	optional := map[string]FieldVerdict{
		"description":    ValidateTextContent(company.Description, DefaultMinTextLength),
		"industry":       ValidateNonEmptyString(company.Industry),
		"company_size":   ValidateCompanySize(company.CompanySize),
		"location":       ValidateLocation(company.Location),
		"website":        ValidateWebsiteURL(company.Website),
		"employee_count": ValidatePositiveInt(company.EmployeeCount),
		"specialties":    ValidateStringList(company.Specialties),
	}

	if !required["name"].Valid {
		issues = append(issues, "Missing or invalid company name")
		recommendations = append(recommendations, "Verify company name is properly extracted")
	}
	if strict && !optional["website"].Valid {
		issues = append(issues, "No company website")
		recommendations = append(recommendations, "Company website helps verify authenticity")
	}

	return v.buildResult(required, optional, 0.7, 0.3, 0.8, 0, issues, recommendations)
}

func (v *Validator) validateFacebook(facebook *models.FacebookData, strict bool) *Result {
	required := map[string]FieldVerdict{
		"page_url": ValidateFacebookURL(facebook.PageURL),
		"name":     ValidateNonEmptyString(facebook.Name),
	}
	optional := map[string]FieldVerdict{
		"posts_exist":     {Valid: len(facebook.Posts) > 0, Value: len(facebook.Posts)},
		"page_info":       ValidateMapContent(facebook.PageInfo),
		"recent_activity": ValidateRecentPosts(facebook.Posts, v.now()),
	}

	return v.buildResult(required, optional, 0.6, 0.4, 0.8, 0, nil, nil)
}

func (v *Validator) validateTwitter(twitter *models.TwitterData, strict bool) *Result {
	required := map[string]FieldVerdict{
		"handle": ValidateTwitterHandle(twitter.Handle),
	}
	optional := map[string]FieldVerdict{
		"profile_info":    ValidateMapContent(twitter.ProfileInfo),
		"tweets_exist":    {Valid: len(twitter.Tweets) > 0, Value: len(twitter.Tweets)},
		"followers_count": ValidatePositiveInt(twitter.FollowersCount),
		"following_count": ValidatePositiveInt(twitter.FollowingCount),
		"recent_activity": ValidateRecentPosts(twitter.Tweets, v.now()),
	}

	return v.buildResult(required, optional, 0.5, 0.5, 0.8, 0, nil, nil)
}

func (v *Validator) validateSocialMedia(social *models.SocialMediaData, strict bool) *Result {
	var issues, recommendations []string

	facebookValid := false
	twitterValid := false
	if social.Facebook != nil {
		facebookValid = v.validateFacebook(social.Facebook, strict).IsValid
	}
	if social.Twitter != nil {
		twitterValid = v.validateTwitter(social.Twitter, strict).IsValid
	}

	hasData := social.Facebook != nil || social.Twitter != nil
	required := map[string]FieldVerdict{
		"has_data": {Valid: hasData, Value: "has_social_data"},
	}
	optional := map[string]FieldVerdict{
		"facebook_valid": {Valid: facebookValid, Value: social.Facebook != nil},
		"twitter_valid":  {Valid: twitterValid, Value: social.Twitter != nil},
		"multiple_platforms": {
			Valid: social.Facebook != nil && social.Twitter != nil,
			Value: "multiple_platforms",
		},
	}

	if !hasData {
		issues = append(issues, "No social media data available")
		recommendations = append(recommendations, "Provide at least one social media platform data")
	}

	return v.buildResult(required, optional, 0.6, 0.4, 0.8, 0, issues, recommendations)
}

func (v *Validator) validateCompany(company *models.CompanyData, strict bool) *Result {
	var issues, recommendations []string

	required := map[string]FieldVerdict{
		"name":    ValidateNonEmptyString(company.Name),
		"sources": ValidateDataSources(company.Sources),
	}
	optional := map[string]FieldVerdict{
		"website":        ValidateWebsiteURL(company.Website),
		"financial_data": ValidateFinancialData(company.Financial),
		"funding_info":   ValidateMapContent(company.Funding),
		"industry_info":  ValidateMapContent(company.Industry),
		"employee_data":  ValidateEmployeeData(company.Employees),
		"technologies":   ValidateStringList(company.Technologies),
	}
	if len(company.Sources) >= 3 {
		optional["multi_source"] = FieldVerdict{Valid: true, Value: len(company.Sources)}
	}

	if len(company.Sources) == 0 {
		issues = append(issues, "No data sources specified")
		recommendations = append(recommendations, "Specify which sources provided the company data")
	}
	if strict && company.Website == "" {
		issues = append(issues, "No company website")
		recommendations = append(recommendations, "Company website is important for verification")
	}

	// Corroboration across providers earns a flat confidence bonus.
	bonus := 0.0
	if len(company.Sources) >= 2 {
		bonus = 0.1
	}

	return v.buildResult(required, optional, 0.6, 0.4, 0.8, bonus, issues, recommendations)
}
