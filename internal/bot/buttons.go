package bot

import (
	"regexp"

	"handshake-autopilot/internal/browser"
)

const buttonSelector = "button, input[type='submit'], [role='button']"

var submitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)submit`),
	regexp.MustCompile(`(?i)send application`),
	regexp.MustCompile(`(?i)finish`),
}

var nextStepPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)next`),
	regexp.MustCompile(`(?i)continue`),
	regexp.MustCompile(`(?i)review`),
	regexp.MustCompile(`(?i)save and continue`),
}

var applyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)easy apply`),
	regexp.MustCompile(`(?i)quick apply`),
	regexp.MustCompile(`(?i)apply now`),
	regexp.MustCompile(`(?i)^apply$`),
}

func buttonLabel(el browser.Element) string {
	if t := el.Text(); t != "" {
		return t
	}
	// input[type=submit] carries its label in the value property.
	return el.Value()
}

func findButtonMatching(page browser.Page, patterns []*regexp.Regexp) browser.Element {
	elements := page.Query(buttonSelector)
	for _, pattern := range patterns {
		for _, el := range elements {
			if !pattern.MatchString(buttonLabel(el)) {
				continue
			}
			if el.Visible() && el.Enabled() {
				return el
			}
		}
	}
	return nil
}

func clickButtonMatching(page browser.Page, patterns []*regexp.Regexp) bool {
	el := findButtonMatching(page, patterns)
	if el == nil {
		return false
	}
	return el.Click() == nil
}

// clickSubmitTypeButton clicks the first enabled submit-typed control,
// label or not. Login forms frequently have exactly one.
func clickSubmitTypeButton(page browser.Page) bool {
	elements := page.Query("button[type='submit'], input[type='submit']")
	if len(elements) > 5 {
		elements = elements[:5]
	}
	for _, el := range elements {
		if !el.Visible() || !el.Enabled() {
			continue
		}
		if el.Click() == nil {
			return true
		}
	}
	return false
}
