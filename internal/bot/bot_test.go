package bot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handshake-autopilot/internal/browser"
	"handshake-autopilot/internal/config"
	"handshake-autopilot/internal/domain"
	"handshake-autopilot/internal/qa"
	"handshake-autopilot/internal/resume"
)

const detailHTML = `<html><body>
<h1>Software Engineer Intern</h1>
<a href="/employers/1">Acme</a>
<main>Build backend services during a summer internship.</main>
</body></html>`

const seniorDetailHTML = `<html><body>
<h1>Senior Software Engineer</h1>
<a href="/employers/2">MegaCorp</a>
<main>Senior role, 10 years required.</main>
</body></html>`

func TestRunDryRunPipeline(t *testing.T) {
	mainPage := &fakePage{
		elements: map[string][]browser.Element{
			"a[href*='/jobs/'], a[href*='/postings/']": {
				anchor("/postings/123", "Software Engineer Intern"),
				anchor("/postings/456", "Senior Software Engineer"),
			},
		},
	}
	enrich1 := &fakePage{html: detailHTML}
	apply1 := applyPage(newButton("Apply Now"), newButton("Submit Application"))
	enrich2 := &fakePage{html: seniorDetailHTML}

	session := &fakeSession{pages: []*fakePage{mainPage, enrich1, apply1, enrich2}}

	dir := t.TempDir()
	basePDF := filepath.Join(dir, "base.pdf")
	require.NoError(t, os.WriteFile(basePDF, []byte("%PDF-1.4 fake"), 0o644))

	cfg := config.Config{}
	// an already-authenticated session keeps the login phase trivial here
	cfg.Handshake.LoginURL = "https://app.joinhandshake.com/stu/postings"
	cfg.Handshake.JobsURL = "https://app.joinhandshake.com/stu/postings"
	cfg.Filters.IncludeKeywords = []string{"intern"}
	cfg.Filters.ExcludeKeywords = []string{"senior"}
	cfg.Filters.MaxDiscoveredJobs = 10
	cfg.Application.MaxApplications = 5
	f := false
	cfg.Application.SaveHTMLOnFailure = &f
	cfg.Resume.Mode = resume.ModeCopyPDF
	cfg.Resume.BaseResumePath = basePDF
	cfg.Resume.OutputDir = filepath.Join(dir, "resumes")
	cfg.QA.DefaultsPath = filepath.Join(dir, "missing.yaml")

	answerer, err := qa.New(cfg.QA, nil)
	require.NoError(t, err)

	b := New(cfg, session, answerer, resume.NewBuilder(cfg.Resume, nil), "")
	b.sleep = func(time.Duration) {}
	b.resultsPath = filepath.Join(dir, "results.jsonl")

	results, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, domain.StatusDryRunReady, results[0].Status)
	assert.Equal(t, "123", results[0].JobID)
	assert.Equal(t, "Acme", results[0].Company)

	assert.Equal(t, domain.StatusSkipped, results[1].Status)
	assert.Equal(t, "filter_mismatch", results[1].Reason)
	assert.Equal(t, "456", results[1].JobID)

	assert.FileExists(t, b.resultsPath)
}

func TestRunStopsAtApplicationBudget(t *testing.T) {
	mainPage := &fakePage{
		elements: map[string][]browser.Element{
			"a[href*='/jobs/'], a[href*='/postings/']": {
				anchor("/postings/1", "Software Engineer Intern"),
				anchor("/postings/2", "Software Engineer Intern"),
				anchor("/postings/3", "Software Engineer Intern"),
			},
		},
	}
	enrich1 := &fakePage{html: detailHTML}
	apply1 := applyPage(newButton("Apply Now"), newButton("Submit Application"))

	session := &fakeSession{pages: []*fakePage{mainPage, enrich1, apply1}}

	dir := t.TempDir()
	basePDF := filepath.Join(dir, "base.pdf")
	require.NoError(t, os.WriteFile(basePDF, []byte("%PDF-1.4 fake"), 0o644))

	cfg := config.Config{}
	cfg.Handshake.LoginURL = "https://app.joinhandshake.com/stu/postings"
	cfg.Handshake.JobsURL = "https://app.joinhandshake.com/stu/postings"
	cfg.Filters.MaxDiscoveredJobs = 10
	cfg.Application.MaxApplications = 1
	f := false
	cfg.Application.SaveHTMLOnFailure = &f
	cfg.Resume.Mode = resume.ModeCopyPDF
	cfg.Resume.BaseResumePath = basePDF
	cfg.Resume.OutputDir = filepath.Join(dir, "resumes")
	cfg.QA.DefaultsPath = filepath.Join(dir, "missing.yaml")

	answerer, err := qa.New(cfg.QA, nil)
	require.NoError(t, err)

	b := New(cfg, session, answerer, resume.NewBuilder(cfg.Resume, nil), "")
	b.sleep = func(time.Duration) {}
	b.resultsPath = filepath.Join(dir, "results.jsonl")

	results, err := b.Run(context.Background())
	require.NoError(t, err)
	// second and third postings never open; the budget was spent
	assert.Len(t, results, 1)
	assert.Equal(t, 3, session.next, "main, detail and apply pages only")
}
