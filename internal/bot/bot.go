// Package bot drives one browser session through login, job discovery,
// filtering and the multi-step apply flow. Only login timeouts and browser
// failures abort a run; everything that goes wrong on one job becomes that
// job's result and the loop moves on.
package bot

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"handshake-autopilot/internal/browser"
	"handshake-autopilot/internal/config"
	"handshake-autopilot/internal/domain"
	"handshake-autopilot/internal/qa"
	"handshake-autopilot/internal/resume"
)

const (
	ResultsPath = "artifacts/application_results.jsonl"
	FailuresDir = "artifacts/failures"

	// Bounded step count for the apply loop. A legitimately longer form is
	// reported as unable_to_reach_submit; there is no way to tell it apart
	// from a stuck one.
	maxApplySteps = 14
)

// ErrPageClosed means the user closed the browser window mid-run.
var ErrPageClosed = errors.New("browser page was closed; keep the window open while automation runs")

type Bot struct {
	cfg      config.Config
	session  browser.Session
	answerer *qa.Answerer
	builder  *resume.Builder

	baseResumeText string
	resultsPath    string

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

func New(cfg config.Config, session browser.Session, answerer *qa.Answerer, builder *resume.Builder, baseResumeText string) *Bot {
	return &Bot{
		cfg:            cfg,
		session:        session,
		answerer:       answerer,
		builder:        builder,
		baseResumeText: baseResumeText,
		resultsPath:    ResultsPath,
		sleep:          time.Sleep,
	}
}

// Run executes the whole pipeline and returns one result per processed job.
// The results log is written even when the run is cut short by the context.
func (b *Bot) Run(ctx context.Context) ([]domain.ApplicationResult, error) {
	page, err := b.session.NewPage()
	if err != nil {
		return nil, errors.Wrap(err, "open main page")
	}
	defer page.Close()

	if err := b.login(ctx, page); err != nil {
		return nil, err
	}

	jobs := b.discoverJobs(page)
	log.WithField("count", len(jobs)).Info("discovered candidate postings")

	var results []domain.ApplicationResult
	appliedOrReady := 0

	for _, seed := range jobs {
		if ctx.Err() != nil {
			log.Warn("run cancelled; writing partial results")
			break
		}
		if appliedOrReady >= b.cfg.Application.MaxApplications {
			log.WithField("max_applications", appliedOrReady).Info("application budget reached")
			break
		}

		job := b.enrichJob(seed)
		if !MatchesFilters(b.cfg.Filters, job) {
			results = append(results, domain.ApplicationResult{
				JobID:   job.ID,
				Title:   job.Title,
				Company: job.Company,
				URL:     job.URL,
				Status:  domain.StatusSkipped,
				Reason:  "filter_mismatch",
			})
			continue
		}

		result := b.applyToJob(ctx, job)
		results = append(results, result)
		log.WithFields(log.Fields{
			"job_id": result.JobID,
			"status": result.Status,
			"reason": result.Reason,
		}).Info("job processed")

		if result.Counted() {
			appliedOrReady++
			b.sleep(time.Duration(b.cfg.Application.PauseBetweenSec) * time.Second)
		}
	}

	if err := WriteResults(b.resultsPath, results); err != nil {
		return results, errors.Wrap(err, "write results log")
	}
	return results, nil
}

func failedResult(job domain.JobPosting, reason string) domain.ApplicationResult {
	return domain.ApplicationResult{
		JobID:   job.ID,
		Title:   job.Title,
		Company: job.Company,
		URL:     job.URL,
		Status:  domain.StatusFailed,
		Reason:  reason,
	}
}
