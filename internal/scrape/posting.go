// Package scrape extracts posting fields from captured page HTML. Selectors
// target the job board's current markup and are ordered best-first; a miss
// is not an error, the next candidate is tried.
package scrape

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"handshake-autopilot/internal/domain"
)

const maxDescriptionChars = 12000

var titleSelectors = []string{"h1"}

var companySelectors = []string{
	"a[href*='/employers/']",
	"[data-testid='employer-name']",
	"[data-qa='employer-name']",
}

var locationSelectors = []string{
	"[data-testid='location']",
	"[data-qa='job-location']",
	"main span",
}

var descriptionSelectors = []string{"main", "article", "body"}

// PostingFromHTML completes a seed posting with fields scraped from its
// detail page. Unresolvable fields keep the seed's values.
func PostingFromHTML(seed domain.JobPosting, html string) (domain.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return seed, err
	}

	title := firstText(doc, titleSelectors)
	if title == "" {
		title = seed.Title
	}

	description := firstText(doc, descriptionSelectors)
	if len(description) > maxDescriptionChars {
		cut := maxDescriptionChars
		for cut > 0 && !utf8.RuneStart(description[cut]) {
			cut--
		}
		description = description[:cut]
	}

	return domain.JobPosting{
		ID:          seed.ID,
		Title:       title,
		Company:     firstText(doc, companySelectors),
		Location:    firstText(doc, locationSelectors),
		Description: description,
		URL:         seed.URL,
	}, nil
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if t := CleanText(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

var postingIDRe = regexp.MustCompile(`/(?:jobs|postings)/(\d+)`)

// PostingID derives a stable id from the URL's numeric segment, falling
// back to the anchor's position in the discovery pass.
func PostingID(rawURL string, indexFallback int) string {
	if m := postingIDRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return "idx-" + strconv.Itoa(indexFallback)
}

// CanonicalURL resolves href against base and drops query and fragment so
// the same posting reached through different tracking params dedupes.
func CanonicalURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	u, err := b.Parse(href)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
