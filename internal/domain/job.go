package domain

// JobPosting is one internship posting. Discovery fills ID/Title/URL, the
// enrichment pass fills the rest. Postings are passed through the pipeline
// by value; nothing mutates one after it is built.
type JobPosting struct {
	ID          string
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
}

type ApplicationQuestion struct {
	Prompt    string
	InputType string // text/email/tel/select/radio/checkbox
	Required  bool
	Choices   []string
}

// Result statuses. ready_to_submit means auto_submit was off when the submit
// control was reached; dry_run_ready means the whole run was a dry run.
const (
	StatusApplied       = "applied"
	StatusReadyToSubmit = "ready_to_submit"
	StatusDryRunReady   = "dry_run_ready"
	StatusSkipped       = "skipped"
	StatusFailed        = "failed"
)

type ApplicationResult struct {
	JobID   string `json:"job_id"`
	Title   string `json:"title"`
	Company string `json:"company"`
	URL     string `json:"url"`
	Status  string `json:"status"`
	Reason  string `json:"reason"`
}

// Counted reports whether a result consumes the max_applications budget.
func (r ApplicationResult) Counted() bool {
	switch r.Status {
	case StatusApplied, StatusReadyToSubmit, StatusDryRunReady:
		return true
	}
	return false
}

// AliasRule maps prompt substrings to a canonical answer-defaults key.
type AliasRule struct {
	Key      string   `yaml:"key"`
	Patterns []string `yaml:"patterns"`
}
