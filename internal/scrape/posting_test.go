package scrape

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handshake-autopilot/internal/domain"
)

func TestPostingFromHTML(t *testing.T) {
	html := `<html><body>
<h1>  Software   Engineer Intern </h1>
<a href="/employers/77">Acme Robotics</a>
<div data-testid="location">Austin, TX</div>
<main>Summer internship building backend services in Go.</main>
</body></html>`

	seed := domain.JobPosting{ID: "123", Title: "seed title", URL: "https://example.com/postings/123"}
	got, err := PostingFromHTML(seed, html)
	require.NoError(t, err)

	assert.Equal(t, "123", got.ID)
	assert.Equal(t, "Software Engineer Intern", got.Title)
	assert.Equal(t, "Acme Robotics", got.Company)
	assert.Equal(t, "Austin, TX", got.Location)
	assert.Equal(t, "Summer internship building backend services in Go.", got.Description)
	assert.Equal(t, seed.URL, got.URL)
}

func TestPostingFromHTMLSelectorFallbacks(t *testing.T) {
	html := `<html><body>
<div data-qa="employer-name">Fallback Employer</div>
<main><span>Remote</span>Some description text.</main>
</body></html>`

	seed := domain.JobPosting{ID: "9", Title: "Kept Seed Title"}
	got, err := PostingFromHTML(seed, html)
	require.NoError(t, err)

	assert.Equal(t, "Kept Seed Title", got.Title, "missing h1 keeps the seed title")
	assert.Equal(t, "Fallback Employer", got.Company)
	assert.Equal(t, "Remote", got.Location)
	assert.Contains(t, got.Description, "Some description text.")
}

func TestPostingFromHTMLCapsDescription(t *testing.T) {
	long := strings.Repeat("words and more words ", 1000)
	html := "<html><body><main>" + long + "</main></body></html>"

	got, err := PostingFromHTML(domain.JobPosting{ID: "1"}, html)
	require.NoError(t, err)
	assert.Len(t, got.Description, maxDescriptionChars)
}

func TestPostingFromHTMLCapKeepsRuneBoundary(t *testing.T) {
	// one ASCII byte shifts every two-byte rune off the cap boundary
	long := "x" + strings.Repeat("é", 6500)
	html := "<html><body><main>" + long + "</main></body></html>"

	got, err := PostingFromHTML(domain.JobPosting{ID: "1"}, html)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(got.Description))
	assert.Len(t, got.Description, maxDescriptionChars-1)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a\n\tb  c  "))
	assert.Equal(t, "", CleanText("   \n "))
}

func TestPostingID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://app.joinhandshake.com/postings/456", "456"},
		{"https://app.joinhandshake.com/jobs/789?ref=x", "789"},
		{"https://app.joinhandshake.com/postings/slug-only", "idx-3"},
		{"", "idx-3"},
	}
	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			assert.Equal(t, tc.want, PostingID(tc.url, 3))
		})
	}
}

func TestCanonicalURL(t *testing.T) {
	base := "https://app.joinhandshake.com/stu/postings"

	assert.Equal(t, "https://app.joinhandshake.com/postings/1",
		CanonicalURL(base, "/postings/1?ref=search#details"))
	assert.Equal(t, "https://other.example.com/postings/2",
		CanonicalURL(base, "https://other.example.com/postings/2"))
	assert.Equal(t, "", CanonicalURL(base, "   "))
	assert.Equal(t, "", CanonicalURL("://bad", "/postings/1"))
}
