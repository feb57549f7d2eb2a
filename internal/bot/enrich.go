package bot

import (
	"time"

	log "github.com/sirupsen/logrus"

	"handshake-autopilot/internal/domain"
	"handshake-autopilot/internal/scrape"
)

// enrichJob opens the posting's detail page in a fresh tab and scrapes the
// full fields. Any failure falls back to the seed posting; enrichment is
// never the reason a job gets dropped.
func (b *Bot) enrichJob(seed domain.JobPosting) domain.JobPosting {
	page, err := b.session.NewPage()
	if err != nil {
		log.WithError(err).WithField("url", seed.URL).Warn("could not open detail page")
		return seed
	}
	defer page.Close()

	if err := page.Navigate(seed.URL); err != nil {
		log.WithError(err).WithField("url", seed.URL).Warn("could not enrich job")
		return seed
	}
	b.sleep(900 * time.Millisecond)

	html, err := page.HTML()
	if err != nil {
		log.WithError(err).WithField("url", seed.URL).Warn("could not capture detail page")
		return seed
	}

	job, err := scrape.PostingFromHTML(seed, html)
	if err != nil {
		log.WithError(err).WithField("url", seed.URL).Warn("could not parse detail page")
		return seed
	}
	return job
}
