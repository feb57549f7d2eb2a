// Package qa resolves application-form prompts to answers via alias-keyed
// defaults, a small heuristic table, and optionally the LLM client. The
// layered fallback guarantees the caller always gets some answer (possibly
// empty) and never an error: an unanswerable field must not abort a
// multi-step form flow.
package qa

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"handshake-autopilot/internal/config"
	"handshake-autopilot/internal/domain"
	"handshake-autopilot/internal/llm"
)

type Answerer struct {
	cfg      config.QAConfig
	llm      *llm.Client
	defaults map[string]string
	rules    []domain.AliasRule
}

type defaultsFile struct {
	Defaults      map[string]string  `yaml:"defaults"`
	PromptAliases []domain.AliasRule `yaml:"prompt_aliases"`
}

// New loads the defaults file named by cfg. A missing file yields an empty
// rule set, not an error.
func New(cfg config.QAConfig, client *llm.Client) (*Answerer, error) {
	a := &Answerer{cfg: cfg, llm: client, defaults: map[string]string{}}

	b, err := os.ReadFile(cfg.DefaultsPath)
	if os.IsNotExist(err) {
		return a, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read qa defaults")
	}

	var raw defaultsFile
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "parse qa defaults")
	}
	if raw.Defaults != nil {
		a.defaults = raw.Defaults
	}
	for _, rule := range raw.PromptAliases {
		var patterns []string
		for _, p := range rule.Patterns {
			patterns = append(patterns, strings.ToLower(p))
		}
		a.rules = append(a.rules, domain.AliasRule{Key: rule.Key, Patterns: patterns})
	}
	return a, nil
}

// Defaults exposes the answer defaults for template substitution.
func (a *Answerer) Defaults() map[string]string { return a.defaults }

func (a *Answerer) Answer(ctx context.Context, prompt, inputType string, job domain.JobPosting, choices []string) string {
	promptNorm := strings.ToLower(strings.TrimSpace(prompt))
	choices = cleanChoices(choices)

	defaultAnswer := ""
	if key := aliasKey(a.rules, promptNorm); key != "" {
		defaultAnswer = a.defaults[key]
	}
	if defaultAnswer == "" {
		defaultAnswer = heuristicDefault(promptNorm)
	}

	// A known default that already names one of the choices settles the
	// field without an LLM round trip.
	if len(choices) > 0 {
		if matched := MatchChoice(defaultAnswer, choices); matched != "" {
			return matched
		}
	}

	if a.llm.Enabled() {
		answer := a.llm.AnswerQuestion(ctx, prompt, job, defaultAnswer, choices)
		if answer != "" {
			if len(choices) > 0 {
				if matched := MatchChoice(answer, choices); matched != "" {
					return matched
				}
				return choices[0]
			}
			return truncate(answer, a.cfg.MaxAnswerChars)
		}
	}

	if defaultAnswer != "" {
		if len(choices) > 0 {
			if matched := MatchChoice(defaultAnswer, choices); matched != "" {
				return matched
			}
			return choices[0]
		}
		return truncate(defaultAnswer, a.cfg.MaxAnswerChars)
	}

	// Last resort for constrained fields: pick something so the form can
	// still advance.
	if len(choices) > 0 {
		return choices[0]
	}

	switch inputType {
	case "email":
		return a.defaults["email"]
	case "tel":
		return a.defaults["phone"]
	}
	if strings.Contains(promptNorm, "linkedin") {
		return a.defaults["linkedin"]
	}
	if strings.Contains(promptNorm, "github") {
		return a.defaults["github"]
	}
	if strings.Contains(promptNorm, "portfolio") || strings.Contains(promptNorm, "website") {
		return a.defaults["portfolio"]
	}
	return ""
}

// aliasKey returns the key of the first rule with any pattern contained in
// the normalized prompt. First rule in list order wins.
func aliasKey(rules []domain.AliasRule, prompt string) string {
	for _, rule := range rules {
		for _, pattern := range rule.Patterns {
			if pattern != "" && strings.Contains(prompt, pattern) {
				return rule.Key
			}
		}
	}
	return ""
}

func heuristicDefault(prompt string) string {
	switch {
	case strings.Contains(prompt, "authorized to work"),
		strings.Contains(prompt, "work authorization"):
		return "Yes"
	case strings.Contains(prompt, "sponsorship"),
		strings.Contains(prompt, "visa"):
		return "No"
	case strings.Contains(prompt, "relocate"):
		return "Yes"
	}
	return ""
}

// MatchChoice resolves an answer to one member of choices, case-insensitive
// exact first, then substring containment either direction. Empty when
// nothing matches.
func MatchChoice(answer string, choices []string) string {
	if answer == "" {
		return ""
	}
	lowered := strings.ToLower(answer)
	for _, choice := range choices {
		if strings.ToLower(choice) == lowered {
			return choice
		}
	}
	for _, choice := range choices {
		cl := strings.ToLower(choice)
		if strings.Contains(cl, lowered) || strings.Contains(lowered, cl) {
			return choice
		}
	}
	return ""
}

func cleanChoices(choices []string) []string {
	var out []string
	for _, c := range choices {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// truncate cuts s to at most max bytes, backing off to the previous rune
// boundary so a multi-byte character is never split.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
