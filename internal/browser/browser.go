// Package browser isolates the apply-flow logic from the real browser: the
// bot only sees Session/Page/Element capabilities, so it can be exercised
// against fakes. The rod-backed implementation lives in rod.go.
package browser

import "time"

// Element is one DOM node handle. Read-only methods (Visible, Enabled, Checked,
// Text, Attr, Value, LabelText) swallow driver errors and return zero
// values: a node that cannot be inspected is treated as not applicable, not
// as a failure.
type Element interface {
	Visible() bool
	Enabled() bool
	Checked() bool
	Text() string
	Attr(name string) string
	Value() string
	// LabelText is the nearest enclosing label or fieldset legend text.
	LabelText() string
	// Options lists a select element's option labels, placeholder entries
	// dropped. Empty for anything that is not a select.
	Options() []string

	Fill(value string) error
	Click() error
	Check() error
	SelectLabel(label string) error
	Upload(path string) error
	PressEnter() error
}

// Page is one browser tab.
type Page interface {
	Navigate(url string) error
	URL() string
	HTML() (string, error)
	// Query returns all matches for a CSS selector; an empty slice on any
	// driver error.
	Query(selector string) []Element
	Scroll(deltaY float64)
	Closed() bool
	Close()
}

// Session owns the browser process for the run's duration.
type Session interface {
	NewPage() (Page, error)
	Close() error
}

// Options mirror the browser section of the config.
type Options struct {
	Headless bool
	SlowMo   time.Duration
	Timeout  time.Duration
}
