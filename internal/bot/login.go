package bot

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"handshake-autopilot/internal/browser"
)

const loginWaitSec = 180

var emailSelectors = []string{
	"input[type='email']",
	"input[name='email']",
	"input[name='username']",
	"input#email",
}

var passwordSelectors = []string{
	"input[type='password']",
	"input[name='password']",
	"input#password",
}

var loginButtonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)sign in`),
	regexp.MustCompile(`(?i)log in`),
	regexp.MustCompile(`(?i)continue`),
	regexp.MustCompile(`(?i)next`),
}

// login opens the login page, tries credential submission, then waits for
// the user to finish any SSO/2FA in the visible window. Timing out here is
// fatal for the run.
func (b *Bot) login(ctx context.Context, page browser.Page) error {
	log.Info("opening login page")
	if err := page.Navigate(b.cfg.Handshake.LoginURL); err != nil {
		return err
	}
	if err := b.attemptLoginSubmission(page, 3); err != nil {
		return err
	}
	if err := b.waitForLoginCompletion(ctx, page); err != nil {
		return err
	}
	if err := page.Navigate(b.cfg.Handshake.JobsURL); err != nil {
		return err
	}
	b.sleep(1500 * time.Millisecond)
	return nil
}

func (b *Bot) attemptLoginSubmission(page browser.Page, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if page.Closed() {
			return ErrPageClosed
		}
		current := page.URL()
		if isAuthenticatedURL(current) {
			return nil
		}
		// Off-site means an external SSO flow; let the user drive it.
		if !strings.Contains(strings.ToLower(current), "app.joinhandshake.com") {
			return nil
		}

		fillFirst(page, emailSelectors, b.cfg.Handshake.Email)
		fillFirst(page, passwordSelectors, b.cfg.Handshake.Password)

		clicked := clickButtonMatching(page, loginButtonPatterns)
		if !clicked {
			clicked = clickSubmitTypeButton(page)
		}
		if !clicked {
			pressEnterFirst(page, append(passwordSelectors, emailSelectors...))
		}

		b.sleep(900 * time.Millisecond)
	}
	return nil
}

func (b *Bot) waitForLoginCompletion(ctx context.Context, page browser.Page) error {
	log.Infof("complete any SSO/2FA/CAPTCHA in the browser window; waiting up to %d seconds", loginWaitSec)

	for second := 0; second < loginWaitSec; second++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if page.Closed() {
			return errors.Wrap(ErrPageClosed, "during login")
		}

		url := page.URL()
		if isAuthenticatedURL(url) {
			log.Info("login completed")
			return nil
		}

		switch second {
		case 10, 30, 60, 120:
			log.WithField("url", url).Info("still waiting on login completion")
		}

		if second%5 == 0 {
			if err := b.attemptLoginSubmission(page, 1); err != nil {
				return err
			}
		}
		b.sleep(time.Second)
	}

	return errors.New("timed out waiting for login completion; finish SSO/2FA in the opened browser and re-run")
}

func isAuthenticatedURL(url string) bool {
	normalized := strings.ToLower(url)
	if normalized == "" {
		return false
	}
	if strings.Contains(normalized, "app.joinhandshake.com/stu/") {
		return true
	}
	return strings.Contains(normalized, "app.joinhandshake.com") &&
		!strings.Contains(normalized, "/login") &&
		!strings.Contains(normalized, "/auth/")
}

func fillFirst(page browser.Page, selectors []string, value string) {
	for _, sel := range selectors {
		for _, el := range page.Query(sel) {
			if err := el.Fill(value); err == nil {
				return
			}
		}
	}
}

func pressEnterFirst(page browser.Page, selectors []string) {
	for _, sel := range selectors {
		for _, el := range page.Query(sel) {
			if !el.Visible() {
				continue
			}
			if err := el.PressEnter(); err == nil {
				return
			}
		}
	}
}
