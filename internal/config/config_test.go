package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("nope/application.yaml")
	assert.ErrorContains(t, err, "config not found")
}

func TestLoadMissingHandshakeSection(t *testing.T) {
	path := writeConfig(t, "browser:\n  headless: true\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "missing required section: handshake")
}

func TestLoadMissingEmail(t *testing.T) {
	path := writeConfig(t, "handshake:\n  password: hunter2\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "handshake.email is required")
}

func TestLoadMissingPasswordWithoutKeyring(t *testing.T) {
	path := writeConfig(t, "handshake:\n  email: me@school.edu\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "handshake.password is required")
}

func TestLoadKeyringDefersPassword(t *testing.T) {
	path := writeConfig(t, "handshake:\n  email: me@school.edu\n  use_keyring: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Handshake.Password)
	assert.True(t, cfg.Handshake.UseKeyring)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "handshake:\n  email: me@school.edu\n  password: hunter2\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultLoginURL, cfg.Handshake.LoginURL)
	assert.Equal(t, DefaultJobsURL, cfg.Handshake.JobsURL)
	assert.Equal(t, DefaultSlowMoMs, cfg.Browser.SlowMoMs)
	assert.Equal(t, DefaultTimeoutMs, cfg.Browser.TimeoutMs)
	assert.Equal(t, DefaultSearchQuery, cfg.Filters.SearchQuery)
	assert.Equal(t, []string{"software", "engineer", "intern"}, cfg.Filters.IncludeKeywords)
	assert.Equal(t, DefaultMaxDiscovered, cfg.Filters.MaxDiscoveredJobs)
	assert.Equal(t, DefaultMaxApplications, cfg.Application.MaxApplications)
	assert.Equal(t, DefaultPauseBetweenSec, cfg.Application.PauseBetweenSec)
	assert.Equal(t, DefaultResumeMode, cfg.Resume.Mode)
	assert.Equal(t, DefaultLLMModel, cfg.LLM.Model)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, DefaultQADefaultsPath, cfg.QA.DefaultsPath)
	assert.Equal(t, DefaultMaxAnswerChars, cfg.QA.MaxAnswerChars)

	// unset booleans lean safe
	assert.True(t, cfg.Application.IsDryRun())
	assert.True(t, cfg.Application.SavesFailureHTML())
	assert.True(t, cfg.LLM.IsEnabled())
	assert.False(t, cfg.Application.AutoSubmit)
}

func TestLoadExplicitFalseSurvivesDefaults(t *testing.T) {
	path := writeConfig(t, `
handshake:
  email: me@school.edu
  password: hunter2
application:
  dry_run: false
llm:
  enabled: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Application.IsDryRun())
	assert.False(t, cfg.LLM.IsEnabled())
}

func TestLoadExplicitZerosSurvive(t *testing.T) {
	path := writeConfig(t, `
handshake:
  email: me@school.edu
  password: hunter2
browser:
  slow_mo_ms: 0
application:
  max_applications: 0
  pause_between_apps_sec: 0
llm:
  temperature: 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Browser.SlowMoMs)
	assert.Equal(t, 0, cfg.Application.MaxApplications)
	assert.Equal(t, 0, cfg.Application.PauseBetweenSec)
	assert.Zero(t, cfg.LLM.Temperature)
	// siblings in touched sections still default
	assert.Equal(t, DefaultTimeoutMs, cfg.Browser.TimeoutMs)
	assert.Equal(t, DefaultLLMModel, cfg.LLM.Model)
}

func TestLoadExplicitEmptyIncludeListMeansNoConstraint(t *testing.T) {
	path := writeConfig(t, `
handshake:
  email: me@school.edu
  password: hunter2
filters:
  include_keywords: []
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Filters.IncludeKeywords)
}

func TestLoadTrimsKeywordLists(t *testing.T) {
	path := writeConfig(t, `
handshake:
  email: me@school.edu
  password: hunter2
filters:
  include_keywords: ["  backend ", "", "go"]
  exclude_keywords: [" senior "]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"backend", "go"}, cfg.Filters.IncludeKeywords)
	assert.Equal(t, []string{"senior"}, cfg.Filters.ExcludeKeywords)
}

func TestApplyOverrides(t *testing.T) {
	f := false
	cfg := Config{}
	cfg.Application.DryRun = &f
	cfg.Application.AutoSubmit = true
	cfg.Application.MaxApplications = 25

	five := 5
	cfg.ApplyOverrides(Overrides{DryRun: true, Headless: true, MaxApplications: &five})

	assert.True(t, cfg.Application.IsDryRun())
	assert.False(t, cfg.Application.AutoSubmit)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 5, cfg.Application.MaxApplications)
}

func TestApplyOverridesZeroValueLeavesConfig(t *testing.T) {
	f := false
	cfg := Config{}
	cfg.Application.DryRun = &f
	cfg.Application.MaxApplications = 25

	cfg.ApplyOverrides(Overrides{})

	assert.False(t, cfg.Application.IsDryRun())
	assert.Equal(t, 25, cfg.Application.MaxApplications)
	assert.False(t, cfg.Browser.Headless)
}
