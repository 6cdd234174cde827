package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/prospect-analyzer/data-validation/internal/models"
)

func TestValidatePersonName(t *testing.T) {
	t.Run("accepts a normal full name", func(t *testing.T) {
		verdict := ValidatePersonName("John Smith")
		assert.True(t, verdict.Valid, "two-word name should be valid")
	})

	t.Run("accepts names with hyphens and apostrophes", func(t *testing.T) {
		assert.True(t, ValidatePersonName("Mary-Jane O'Brien").Valid)
	})

	t.Run("rejects single word names", func(t *testing.T) {
		assert.False(t, ValidatePersonName("Prince").Valid, "a single token is not a full name")
	})

	t.Run("rejects empty and numeric names", func(t *testing.T) {
		assert.False(t, ValidatePersonName("").Valid)
		assert.False(t, ValidatePersonName("John 2nd").Valid, "digits are not allowed")
	})
}

func TestValidateLinkedInURL(t *testing.T) {
	cases := []struct {
		name  string
		url   string
		valid bool
	}{
		{"profile url", "https://www.linkedin.com/in/john-smith", true},
		{"bare host", "https://linkedin.com/in/jane", true},
		{"company url is not a profile", "https://www.linkedin.com/company/acme", false},
		{"wrong host", "https://example.com/in/john", false},
		{"empty", "", false},
		{"not a url", "not a url", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidateLinkedInURL(tc.url).Valid)
		})
	}
}

func TestValidateLinkedInCompanyURL(t *testing.T) {
	assert.True(t, ValidateLinkedInCompanyURL("https://www.linkedin.com/company/acme").Valid)
	assert.False(t, ValidateLinkedInCompanyURL("https://www.linkedin.com/in/john").Valid,
		"profile URLs should not pass as company URLs")
}

func TestValidateTwitterHandle(t *testing.T) {
	t.Run("accepts handle with leading at sign", func(t *testing.T) {
		assert.True(t, ValidateTwitterHandle("@john_doe").Valid)
	})

	t.Run("accepts bare handle", func(t *testing.T) {
		assert.True(t, ValidateTwitterHandle("john_doe").Valid)
	})

	t.Run("rejects handles over fifteen characters", func(t *testing.T) {
		assert.False(t, ValidateTwitterHandle("this_handle_is_way_too_long").Valid)
	})

	t.Run("rejects invalid characters", func(t *testing.T) {
		assert.False(t, ValidateTwitterHandle("john-doe").Valid)
		assert.False(t, ValidateTwitterHandle("").Valid)
	})
}

func TestValidateWebsiteURL(t *testing.T) {
	assert.True(t, ValidateWebsiteURL("https://acme.example.com").Valid)
	assert.True(t, ValidateWebsiteURL("http://acme.io").Valid)
	assert.False(t, ValidateWebsiteURL("ftp://acme.io").Valid, "only http and https are accepted")
	assert.False(t, ValidateWebsiteURL("acme.io").Valid, "scheme is required")
}

func TestValidateCompanySize(t *testing.T) {
	cases := []struct {
		size  string
		valid bool
	}{
		{"11-50", true},
		{"500+", true},
		{"<10", true},
		{"250 employees", true},
		{"huge", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.size, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidateCompanySize(tc.size).Valid)
		})
	}
}

func TestValidateTextContent(t *testing.T) {
	assert.False(t, ValidateTextContent("short", DefaultMinTextLength).Valid,
		"text below the minimum length should be invalid")
	assert.True(t, ValidateTextContent("long enough summary text", DefaultMinTextLength).Valid)
}

func TestValidateDataSources(t *testing.T) {
	t.Run("accepts known sources", func(t *testing.T) {
		verdict := ValidateDataSources([]string{"linkedin", "crunchbase"})
		assert.True(t, verdict.Valid)
	})

	t.Run("rejects empty source list", func(t *testing.T) {
		assert.False(t, ValidateDataSources(nil).Valid)
	})
}

func TestValidateRecentPosts(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("recent posts count as activity", func(t *testing.T) {
		posts := []models.Post{
			{CreatedAt: now.AddDate(0, 0, -10).Format(time.RFC3339)},
			{CreatedAt: now.AddDate(0, 0, -400).Format(time.RFC3339)},
		}
		verdict := ValidateRecentPosts(posts, now)
		assert.True(t, verdict.Valid, "one post within the window is enough")
		assert.Equal(t, 1, verdict.RecentCount)
	})

	t.Run("only stale posts is not recent activity", func(t *testing.T) {
		posts := []models.Post{
			{CreatedAt: now.AddDate(-2, 0, 0).Format(time.RFC3339)},
		}
		assert.False(t, ValidateRecentPosts(posts, now).Valid)
	})

	t.Run("unparseable timestamps are skipped", func(t *testing.T) {
		posts := []models.Post{{CreatedAt: "sometime last week"}}
		assert.False(t, ValidateRecentPosts(posts, now).Valid)
	})
}
