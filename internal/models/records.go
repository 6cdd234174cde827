package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DataType identifies the kind of collected record being validated.
type DataType string

const (
	DataTypeLinkedInProfile DataType = "linkedin_profile"
	DataTypeLinkedInPosts   DataType = "linkedin_posts"
	DataTypeLinkedInCompany DataType = "linkedin_company"
	DataTypeFacebook        DataType = "facebook_data"
	DataTypeTwitter         DataType = "twitter_data"
	DataTypeSocialMedia     DataType = "social_media_data"
	DataTypeCompany         DataType = "company_data"
)

// AllDataTypes lists every supported data type in a stable order.
var AllDataTypes = []DataType{
	DataTypeLinkedInProfile,
	DataTypeLinkedInPosts,
	DataTypeLinkedInCompany,
	DataTypeFacebook,
	DataTypeTwitter,
	DataTypeSocialMedia,
	DataTypeCompany,
}

// ErrUnsupportedDataType is returned when a data type tag has no registered validator.
type ErrUnsupportedDataType struct {
	Tag string
}

func (e *ErrUnsupportedDataType) Error() string {
	return fmt.Sprintf("unsupported data type: %s", e.Tag)
}

// ParseDataType converts a raw tag into a DataType.
func ParseDataType(tag string) (DataType, error) {
	for _, dt := range AllDataTypes {
		if string(dt) == tag {
			return dt, nil
		}
	}
	return "", &ErrUnsupportedDataType{Tag: tag}
}

// Record is a tagged union over the supported record shapes. Exactly one of the
// payload pointers is set, matching Type.
type Record struct {
	Type            DataType
	LinkedInProfile *LinkedInProfile
	LinkedInPosts   *LinkedInPosts
	LinkedInCompany *LinkedInCompany
	Facebook        *FacebookData
	Twitter         *TwitterData
	SocialMedia     *SocialMediaData
	Company         *CompanyData
}

// UnmarshalRecord decodes raw JSON into the typed record matching the tag.
func UnmarshalRecord(tag string, raw json.RawMessage) (Record, error) {
	dt, err := ParseDataType(tag)
	if err != nil {
		return Record{}, err
	}

	rec := Record{Type: dt}

	decode := func(v interface{}) error {
		if len(raw) == 0 {
			return nil
		}
		return json.Unmarshal(raw, v)
	}

	switch dt {
	case DataTypeLinkedInProfile:
		rec.LinkedInProfile = &LinkedInProfile{}
		err = decode(rec.LinkedInProfile)
	case DataTypeLinkedInPosts:
		rec.LinkedInPosts = &LinkedInPosts{}
		err = decode(rec.LinkedInPosts)
	case DataTypeLinkedInCompany:
		rec.LinkedInCompany = &LinkedInCompany{}
		err = decode(rec.LinkedInCompany)
	case DataTypeFacebook:
		rec.Facebook = &FacebookData{}
		err = decode(rec.Facebook)
	case DataTypeTwitter:
		rec.Twitter = &TwitterData{}
		err = decode(rec.Twitter)
	case DataTypeSocialMedia:
		rec.SocialMedia = &SocialMediaData{}
		err = decode(rec.SocialMedia)
	case DataTypeCompany:
		rec.Company = &CompanyData{}
		err = decode(rec.Company)
	}
	if err != nil {
		return Record{}, fmt.Errorf("decoding %s record: %w", tag, err)
	}
	return rec, nil
}

// Payload returns the active payload as an interface value, or nil when unset.
func (r Record) Payload() interface{} {
	switch r.Type {
	case DataTypeLinkedInProfile:
		if r.LinkedInProfile != nil {
			return r.LinkedInProfile
		}
	case DataTypeLinkedInPosts:
		if r.LinkedInPosts != nil {
			return r.LinkedInPosts
		}
	case DataTypeLinkedInCompany:
		if r.LinkedInCompany != nil {
			return r.LinkedInCompany
		}
	case DataTypeFacebook:
		if r.Facebook != nil {
			return r.Facebook
		}
	case DataTypeTwitter:
		if r.Twitter != nil {
			return r.Twitter
		}
	case DataTypeSocialMedia:
		if r.SocialMedia != nil {
			return r.SocialMedia
		}
	case DataTypeCompany:
		if r.Company != nil {
			return r.Company
		}
	}
	return nil
}

// LinkedInProfile is a scraped LinkedIn person profile.
type LinkedInProfile struct {
	ProfileURL       string       `json:"profile_url,omitempty"`
	FullName         string       `json:"full_name,omitempty"`
	Headline         string       `json:"headline,omitempty"`
	Location         string       `json:"location,omitempty"`
	Summary          string       `json:"summary,omitempty"`
	Experience       []Experience `json:"experience,omitempty"`
	Education        []Education  `json:"education,omitempty"`
	Skills           []string     `json:"skills,omitempty"`
	ProfileImage     string       `json:"profile_image,omitempty"`
	ConnectionsCount *int         `json:"connections_count,omitempty"`
	ExtractedAt      *time.Time   `json:"extracted_at,omitempty"`
}

// Experience is one work history entry on a profile.
type Experience struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

// Education is one education history entry on a profile.
type Education struct {
	School    string `json:"school,omitempty"`
	Degree    string `json:"degree,omitempty"`
	Field     string `json:"field,omitempty"`
	StartYear string `json:"start_year,omitempty"`
	EndYear   string `json:"end_year,omitempty"`
}

// LinkedInPosts is the post feed scraped from a LinkedIn profile.
type LinkedInPosts struct {
	ProfileURL  string     `json:"profile_url,omitempty"`
	AuthorName  string     `json:"author_name,omitempty"`
	Posts       []Post     `json:"posts,omitempty"`
	ExtractedAt *time.Time `json:"extracted_at,omitempty"`
}

// LinkedInCompany is a scraped LinkedIn company page.
type LinkedInCompany struct {
	Name          string     `json:"name,omitempty"`
	CompanyURL    string     `json:"company_url,omitempty"`
	Description   string     `json:"description,omitempty"`
	Industry      string     `json:"industry,omitempty"`
	CompanySize   string     `json:"company_size,omitempty"`
	Location      string     `json:"location,omitempty"`
	Website       string     `json:"website,omitempty"`
	EmployeeCount *int       `json:"employee_count,omitempty"`
	Specialties   []string   `json:"specialties,omitempty"`
	ExtractedAt   *time.Time `json:"extracted_at,omitempty"`
}

// FacebookData is a scraped Facebook page with recent posts.
type FacebookData struct {
	PageURL     string                 `json:"page_url,omitempty"`
	Name        string                 `json:"name,omitempty"`
	Posts       []Post                 `json:"posts,omitempty"`
	PageInfo    map[string]interface{} `json:"page_info,omitempty"`
	ExtractedAt *time.Time             `json:"extracted_at,omitempty"`
}

// TwitterData is a scraped Twitter/X profile with recent tweets.
type TwitterData struct {
	Handle         string                 `json:"handle,omitempty"`
	ProfileInfo    map[string]interface{} `json:"profile_info,omitempty"`
	Tweets         []Post                 `json:"tweets,omitempty"`
	FollowersCount *int                   `json:"followers_count,omitempty"`
	FollowingCount *int                   `json:"following_count,omitempty"`
	ExtractedAt    *time.Time             `json:"extracted_at,omitempty"`
}

// SocialMediaData combines per-platform social records for one prospect.
type SocialMediaData struct {
	Facebook *FacebookData `json:"facebook,omitempty"`
	Twitter  *TwitterData  `json:"twitter,omitempty"`
}

// CompanyFinancial holds financial figures aggregated from company data providers.
type CompanyFinancial struct {
	Revenue       string                   `json:"revenue,omitempty"`
	Valuation     string                   `json:"valuation,omitempty"`
	Funding       string                   `json:"funding,omitempty"`
	FundingRounds []map[string]interface{} `json:"funding_rounds,omitempty"`
	KeyInvestors  []string                 `json:"key_investors,omitempty"`
	StockSymbol   string                   `json:"stock_symbol,omitempty"`
	IPODate       string                   `json:"ipo_date,omitempty"`
}

// HasData reports whether at least one financial field is populated.
func (f *CompanyFinancial) HasData() bool {
	if f == nil {
		return false
	}
	return f.Revenue != "" || f.Valuation != "" || f.Funding != "" ||
		len(f.FundingRounds) > 0 || len(f.KeyInvestors) > 0
}

// CompanyEmployees holds workforce figures aggregated from company data providers.
type CompanyEmployees struct {
	EmployeeCount *int                     `json:"employee_count,omitempty"`
	GrowthRate    *float64                 `json:"growth_rate,omitempty"`
	Locations     []string                 `json:"locations,omitempty"`
	Executives    []map[string]interface{} `json:"executives,omitempty"`
	Departments   map[string]int           `json:"departments,omitempty"`
}

// HasData reports whether at least one employee field is populated.
func (e *CompanyEmployees) HasData() bool {
	if e == nil {
		return false
	}
	return e.EmployeeCount != nil || len(e.Locations) > 0 || len(e.Executives) > 0
}

// NewsItem is one news article attached to aggregated company data.
type NewsItem struct {
	Title       string `json:"title,omitempty"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Date        string `json:"date,omitempty"`
}

// Timestamp returns the publication time of the article when parseable.
func (n NewsItem) Timestamp() (time.Time, bool) {
	if ts, ok := ParseTimestamp(n.PublishedAt); ok {
		return ts, true
	}
	return ParseTimestamp(n.Date)
}

// CompanyData is company information aggregated across providers.
type CompanyData struct {
	Name         string                 `json:"name,omitempty"`
	Website      string                 `json:"website,omitempty"`
	Financial    *CompanyFinancial      `json:"financial,omitempty"`
	Funding      map[string]interface{} `json:"funding,omitempty"`
	Industry     map[string]interface{} `json:"industry,omitempty"`
	Employees    *CompanyEmployees      `json:"employees,omitempty"`
	Technologies []string               `json:"technologies,omitempty"`
	Competitors  []string               `json:"competitors,omitempty"`
	News         []NewsItem             `json:"news,omitempty"`
	Sources      []string               `json:"sources,omitempty"`
}

// Post is a single social media post or tweet. Scrapers disagree on field
// names, so both text/content and created_at/published_at are accepted.
type Post struct {
	PostURL     string `json:"post_url,omitempty"`
	Text        string `json:"text,omitempty"`
	Content     string `json:"content,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Likes       int    `json:"likes,omitempty"`
	Comments    int    `json:"comments,omitempty"`
	Shares      int    `json:"shares,omitempty"`
}

// Body returns the post text regardless of which field the scraper used.
func (p Post) Body() string {
	if p.Text != "" {
		return p.Text
	}
	return p.Content
}

// Timestamp returns the post creation time when either timestamp field parses.
func (p Post) Timestamp() (time.Time, bool) {
	if ts, ok := ParseTimestamp(p.CreatedAt); ok {
		return ts, true
	}
	return ParseTimestamp(p.PublishedAt)
}

// timestampFormats are the layouts scrapers are known to emit.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp leniently parses a scraped timestamp string. Malformed
// values report ok=false and are skipped by callers, never penalized.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampFormats {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	// Epoch seconds, possibly fractional.
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Unix(int64(secs), 0), true
	}
	return time.Time{}, false
}
