package bot

import (
	"github.com/pkg/errors"

	"handshake-autopilot/internal/browser"
)

// In-memory browser doubles. Pages serve elements keyed by the exact CSS
// selector string the code under test queries with.

type fakeElement struct {
	visible   bool
	enabled   bool
	checked   bool
	text      string
	value     string
	labelText string
	attrs     map[string]string
	options   []string

	filled   []string
	clicks   int
	checks   int
	selected []string
	uploads  []string
	enters   int

	fillErr  error
	clickErr error
}

func newButton(text string) *fakeElement {
	return &fakeElement{visible: true, enabled: true, text: text}
}

func (e *fakeElement) Visible() bool           { return e.visible }
func (e *fakeElement) Enabled() bool           { return e.enabled }
func (e *fakeElement) Checked() bool           { return e.checked }
func (e *fakeElement) Text() string            { return e.text }
func (e *fakeElement) Attr(name string) string { return e.attrs[name] }
func (e *fakeElement) Value() string           { return e.value }
func (e *fakeElement) LabelText() string       { return e.labelText }
func (e *fakeElement) Options() []string       { return e.options }

func (e *fakeElement) Fill(value string) error {
	if e.fillErr != nil {
		return e.fillErr
	}
	e.filled = append(e.filled, value)
	e.value = value
	return nil
}

func (e *fakeElement) Click() error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	return nil
}

func (e *fakeElement) Check() error {
	e.checks++
	e.checked = true
	return nil
}

func (e *fakeElement) SelectLabel(label string) error {
	e.selected = append(e.selected, label)
	return nil
}

func (e *fakeElement) Upload(path string) error {
	e.uploads = append(e.uploads, path)
	return nil
}

func (e *fakeElement) PressEnter() error {
	e.enters++
	return nil
}

type fakePage struct {
	url       string
	html      string
	elements  map[string][]browser.Element
	closed    bool
	navigated []string
	scrolls   int
}

func (p *fakePage) Navigate(url string) error {
	p.navigated = append(p.navigated, url)
	p.url = url
	return nil
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) HTML() (string, error) { return p.html, nil }

func (p *fakePage) Query(selector string) []browser.Element { return p.elements[selector] }

func (p *fakePage) Scroll(deltaY float64) { p.scrolls++ }

func (p *fakePage) Closed() bool { return p.closed }

func (p *fakePage) Close() {}

// fakeSession hands out its pages in order; one per NewPage call.
type fakeSession struct {
	pages []*fakePage
	next  int
}

func (s *fakeSession) NewPage() (browser.Page, error) {
	if s.next >= len(s.pages) {
		return nil, errors.New("no more pages scripted")
	}
	p := s.pages[s.next]
	s.next++
	return p, nil
}

func (s *fakeSession) Close() error { return nil }
