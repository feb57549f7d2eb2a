package bot

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"handshake-autopilot/internal/browser"
	"handshake-autopilot/internal/domain"
	"handshake-autopilot/internal/scrape"
)

var searchBoxSelectors = []string{
	"input[placeholder*='Search']",
	"input[type='search']",
	"input[name='query']",
}

// discoverJobs types the search query, scrolls to force lazy loading, and
// harvests posting links. Seeds carry id/title/url only; enrichment fills
// the rest.
func (b *Bot) discoverJobs(page browser.Page) []domain.JobPosting {
	log.WithField("url", page.URL()).Info("discovering jobs")

	if query := strings.TrimSpace(b.cfg.Filters.SearchQuery); query != "" {
		b.typeSearchQuery(page, query)
	}

	for i := 0; i < 5; i++ {
		page.Scroll(3500)
		b.sleep(600 * time.Millisecond)
	}

	anchors := page.Query("a[href*='/jobs/'], a[href*='/postings/']")
	if limit := b.cfg.Filters.MaxDiscoveredJobs * 4; len(anchors) > limit {
		anchors = anchors[:limit]
	}

	seen := map[string]bool{}
	var jobs []domain.JobPosting
	baseURL := page.URL()

	for idx, node := range anchors {
		href := node.Attr("href")
		if href == "" {
			continue
		}
		if !strings.Contains(href, "/jobs/") && !strings.Contains(href, "/postings/") {
			continue
		}

		url := scrape.CanonicalURL(baseURL, href)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true

		title := firstLine(node.Text())
		if title == "" {
			title = "Unknown Role"
		}
		jobs = append(jobs, domain.JobPosting{
			ID:    scrape.PostingID(url, idx),
			Title: title,
			URL:   url,
		})
		if len(jobs) >= b.cfg.Filters.MaxDiscoveredJobs {
			break
		}
	}
	return jobs
}

func (b *Bot) typeSearchQuery(page browser.Page, query string) {
	for _, sel := range searchBoxSelectors {
		boxes := page.Query(sel)
		if len(boxes) == 0 {
			continue
		}
		box := boxes[0]
		if err := box.Fill(query); err != nil {
			continue
		}
		if err := box.PressEnter(); err != nil {
			continue
		}
		b.sleep(1200 * time.Millisecond)
		return
	}
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
