package llm

import (
	"context"
	"fmt"
	"strings"

	"handshake-autopilot/internal/domain"
)

// AnswerQuestion answers one application question. The defaultAnswer comes
// back verbatim when the client is disabled or the call fails; with a choice
// list the raw model answer is resolved to an exact member of the list.
func (c *Client) AnswerQuestion(ctx context.Context, prompt string, job domain.JobPosting, defaultAnswer string, choices []string) string {
	if !c.Enabled() {
		return defaultAnswer
	}

	system := "You answer internship application questions concisely and truthfully. " +
		"If choices are given, answer with one exact choice. " +
		"Otherwise keep answer to one sentence."
	user := fmt.Sprintf(
		"Question: %s\nJob: %s at %s\nAllowed choices: %s\nDefault answer: %s\n",
		prompt, job.Title, job.Company, strings.Join(choices, " | "), defaultAnswer,
	)

	answer := c.complete(ctx, system, user)
	if answer == "" {
		return defaultAnswer
	}

	if len(choices) > 0 {
		if matched := matchChoice(answer, choices); matched != "" {
			return matched
		}
		for _, choice := range choices {
			if choice == defaultAnswer {
				return defaultAnswer
			}
		}
		return choices[0]
	}
	return answer
}

// matchChoice resolves free text to a member of choices: case-insensitive
// exact match first, then substring containment either direction.
func matchChoice(answer string, choices []string) string {
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
		if strings.Contains(lowered, cl) || strings.Contains(cl, lowered) {
			return choice
		}
	}
	return ""
}
