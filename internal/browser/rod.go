package browser

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"
)

// Launch starts a Chromium process and connects to it. The caller owns the
// returned session and must Close it even on error paths.
func Launch(opts Options) (Session, error) {
	l := launcher.New().Headless(opts.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, errors.Wrap(err, "launch browser")
	}

	b := rod.New().ControlURL(controlURL)
	if opts.SlowMo > 0 {
		b = b.SlowMotion(opts.SlowMo)
	}
	if err := b.Connect(); err != nil {
		return nil, errors.Wrap(err, "connect to browser")
	}

	return &rodSession{
		browser:  b,
		launcher: l,
		timeout:  opts.Timeout,
		limiter:  newHostLimiter(1, 2),
	}, nil
}

type rodSession struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	limiter  *hostLimiter
}

func (s *rodSession) NewPage() (Page, error) {
	p, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, errors.Wrap(err, "open page")
	}
	return &rodPage{page: p, timeout: s.timeout, limiter: s.limiter}, nil
}

func (s *rodSession) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()
	return err
}

type rodPage struct {
	page    *rod.Page
	timeout time.Duration
	limiter *hostLimiter
	closed  bool
}

// scoped applies the configured operation timeout. rod timeouts start
// ticking at clone time, so a fresh clone is taken per operation.
func (p *rodPage) scoped() *rod.Page {
	if p.timeout <= 0 {
		return p.page
	}
	return p.page.Timeout(p.timeout)
}

func (p *rodPage) Navigate(url string) error {
	_ = p.limiter.waitURL(context.Background(), url)
	if err := p.scoped().Navigate(url); err != nil {
		return errors.Wrapf(err, "navigate %s", url)
	}
	// Load completion is best effort; lazy boards keep loading forever.
	_ = p.scoped().WaitLoad()
	return nil
}

func (p *rodPage) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *rodPage) HTML() (string, error) {
	return p.scoped().HTML()
}

func (p *rodPage) Query(selector string) []Element {
	els, err := p.scoped().Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out
}

func (p *rodPage) Scroll(deltaY float64) {
	_ = p.page.Mouse.Scroll(0, deltaY, 1)
}

func (p *rodPage) Closed() bool {
	if p.closed {
		return true
	}
	if _, err := p.page.Info(); err != nil {
		return true
	}
	return false
}

func (p *rodPage) Close() {
	p.closed = true
	_ = p.page.Close()
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Visible() bool {
	v, err := e.el.Visible()
	return err == nil && v
}

func (e *rodElement) Enabled() bool {
	disabled, err := e.el.Property("disabled")
	if err != nil {
		return false
	}
	return !disabled.Bool()
}

func (e *rodElement) Checked() bool {
	checked, err := e.el.Property("checked")
	return err == nil && checked.Bool()
}

func (e *rodElement) Text() string {
	t, err := e.el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(t)
}

func (e *rodElement) Attr(name string) string {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func (e *rodElement) Value() string {
	v, err := e.el.Property("value")
	if err != nil {
		return ""
	}
	return v.Str()
}

func (e *rodElement) LabelText() string {
	obj, err := e.el.Eval(`() => (this.closest('label')?.innerText ||
		this.closest('fieldset')?.querySelector('legend')?.innerText || '').trim()`)
	if err != nil {
		return ""
	}
	return obj.Value.Str()
}

func (e *rodElement) Options() []string {
	obj, err := e.el.Eval(`() => Array.from(this.options || [])
		.map(o => (o.textContent || '').trim())
		.filter(x => x && x.toLowerCase() !== 'select')`)
	if err != nil {
		return nil
	}
	var out []string
	for _, item := range obj.Value.Arr() {
		if s := item.Str(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (e *rodElement) Fill(value string) error {
	if err := e.el.SelectAllText(); err != nil {
		return err
	}
	return e.el.Input(value)
}

func (e *rodElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Check() error {
	if e.Checked() {
		return nil
	}
	return e.Click()
}

func (e *rodElement) SelectLabel(label string) error {
	// Text selectors are regex matched; option labels are literal text.
	return e.el.Select([]string{regexp.QuoteMeta(label)}, true, rod.SelectorTypeText)
}

func (e *rodElement) Upload(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return e.el.SetFiles([]string{abs})
}

func (e *rodElement) PressEnter() error {
	return e.el.Type(input.Enter)
}
