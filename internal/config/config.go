package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLoginURL = "https://app.joinhandshake.com/login"
	DefaultJobsURL  = "https://app.joinhandshake.com/stu/postings"

	DefaultSearchQuery   = "software engineer intern"
	DefaultMaxDiscovered = 150

	DefaultSlowMoMs  = 120
	DefaultTimeoutMs = 25000

	DefaultMaxApplications = 25
	DefaultPauseBetweenSec = 2

	DefaultResumeMode         = "markdown_template"
	DefaultBaseResumePath     = "artifacts/base_resume.txt"
	DefaultResumeTemplatePath = "config/resume_template.md"
	DefaultResumeOutputDir    = "artifacts/resumes"

	DefaultLLMProvider    = "openai"
	DefaultLLMAPIKeyEnv   = "OPENAI_API_KEY"
	DefaultLLMModel       = "gpt-4o-mini"
	DefaultLLMTemperature = 0.2

	DefaultQADefaultsPath = "config/qa_defaults.yaml"
	DefaultMaxAnswerChars = 1000
)

var defaultIncludeKeywords = []string{"software", "engineer", "intern"}

type HandshakeConfig struct {
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	UseKeyring bool   `yaml:"use_keyring"`
	LoginURL   string `yaml:"login_url"`
	JobsURL    string `yaml:"jobs_url"`
}

type BrowserConfig struct {
	Headless  bool `yaml:"headless"`
	SlowMoMs  int  `yaml:"slow_mo_ms"`
	TimeoutMs int  `yaml:"timeout_ms"`
}

type FilterConfig struct {
	SearchQuery        string   `yaml:"search_query"`
	IncludeKeywords    []string `yaml:"include_keywords"`
	ExcludeKeywords    []string `yaml:"exclude_keywords"`
	PreferredLocations []string `yaml:"preferred_locations"`
	RemoteOnly         bool     `yaml:"remote_only"`
	MaxDiscoveredJobs  int      `yaml:"max_discovered_jobs"`
}

type ApplicationConfig struct {
	DryRun            *bool `yaml:"dry_run"`
	AutoSubmit        bool  `yaml:"auto_submit"`
	MaxApplications   int   `yaml:"max_applications"`
	PauseBetweenSec   int   `yaml:"pause_between_apps_sec"`
	SaveHTMLOnFailure *bool `yaml:"save_html_on_failure"`
}

type ResumeConfig struct {
	Mode           string `yaml:"mode"`
	BaseResumePath string `yaml:"base_resume_path"`
	TemplatePath   string `yaml:"template_path"`
	OutputDir      string `yaml:"output_dir"`
}

type LLMConfig struct {
	Enabled     *bool   `yaml:"enabled"`
	Provider    string  `yaml:"provider"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

type QAConfig struct {
	DefaultsPath   string `yaml:"defaults_path"`
	MaxAnswerChars int    `yaml:"max_answer_chars"`
}

type Config struct {
	Handshake   HandshakeConfig   `yaml:"handshake"`
	Browser     BrowserConfig     `yaml:"browser"`
	Filters     FilterConfig      `yaml:"filters"`
	Application ApplicationConfig `yaml:"application"`
	Resume      ResumeConfig      `yaml:"resume"`
	LLM         LLMConfig         `yaml:"llm"`
	QA          QAConfig          `yaml:"qa"`
}

// dry_run, save_html_on_failure and llm.enabled default to true, so their
// zero value cannot stand in for "unset"; pointers keep the distinction.
func (a ApplicationConfig) IsDryRun() bool { return a.DryRun == nil || *a.DryRun }

func (a ApplicationConfig) SavesFailureHTML() bool {
	return a.SaveHTMLOnFailure == nil || *a.SaveHTMLOnFailure
}

func (l LLMConfig) IsEnabled() bool { return l.Enabled == nil || *l.Enabled }

// defaultConfig is the fully-defaulted tree the YAML file is decoded over.
// Keys present in the file overwrite these values, keys absent keep them,
// so an explicit zero (temperature: 0, pause_between_apps_sec: 0) survives.
func defaultConfig() Config {
	var cfg Config

	cfg.Handshake.LoginURL = DefaultLoginURL
	cfg.Handshake.JobsURL = DefaultJobsURL

	cfg.Browser.SlowMoMs = DefaultSlowMoMs
	cfg.Browser.TimeoutMs = DefaultTimeoutMs

	cfg.Filters.SearchQuery = DefaultSearchQuery
	cfg.Filters.IncludeKeywords = append([]string(nil), defaultIncludeKeywords...)
	cfg.Filters.MaxDiscoveredJobs = DefaultMaxDiscovered

	cfg.Application.MaxApplications = DefaultMaxApplications
	cfg.Application.PauseBetweenSec = DefaultPauseBetweenSec

	cfg.Resume.Mode = DefaultResumeMode
	cfg.Resume.BaseResumePath = DefaultBaseResumePath
	cfg.Resume.TemplatePath = DefaultResumeTemplatePath
	cfg.Resume.OutputDir = DefaultResumeOutputDir

	cfg.LLM.Provider = DefaultLLMProvider
	cfg.LLM.APIKeyEnv = DefaultLLMAPIKeyEnv
	cfg.LLM.Model = DefaultLLMModel
	cfg.LLM.Temperature = DefaultLLMTemperature

	cfg.QA.DefaultsPath = DefaultQADefaultsPath
	cfg.QA.MaxAnswerChars = DefaultMaxAnswerChars

	return cfg
}

// Load reads the YAML config at path, decoded over a fully-defaulted tree so
// every unset optional field carries its documented default while explicitly
// configured values, zeros included, stand. Only the handshake credentials
// are required; the password may be deferred to the OS keyring with
// use_keyring.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config not found: %s", path)
	}

	// Distinguish "section absent" from "section empty" before decoding.
	var sections map[string]yaml.Node
	if err := yaml.Unmarshal(b, &sections); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	if _, ok := sections["handshake"]; !ok {
		return cfg, errors.New("missing required section: handshake")
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}

	if strings.TrimSpace(cfg.Handshake.Email) == "" {
		return cfg, errors.New("handshake.email is required")
	}
	if strings.TrimSpace(cfg.Handshake.Password) == "" && !cfg.Handshake.UseKeyring {
		return cfg, errors.New("handshake.password is required (or set handshake.use_keyring)")
	}

	cfg.Filters.IncludeKeywords = trimList(cfg.Filters.IncludeKeywords)
	cfg.Filters.ExcludeKeywords = trimList(cfg.Filters.ExcludeKeywords)
	cfg.Filters.PreferredLocations = trimList(cfg.Filters.PreferredLocations)

	return cfg, nil
}

func trimList(xs []string) []string {
	var ys []string
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		ys = append(ys, x)
	}
	return ys
}
