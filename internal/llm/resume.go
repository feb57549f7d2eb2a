package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"handshake-autopilot/internal/domain"
)

const (
	maxTopSkills            = 8
	maxExperienceHighlights = 6
)

type ResumeSections struct {
	Summary              string   `json:"summary"`
	TopSkills            []string `json:"top_skills"`
	ExperienceHighlights []string `json:"experience_highlights"`
}

// DefaultResumeSections is the offline bundle used whenever the model is
// unavailable or returns garbage.
func DefaultResumeSections() ResumeSections {
	return ResumeSections{
		Summary: "Motivated software engineering student focused on shipping reliable products.",
		TopSkills: []string{
			"Python", "Java", "TypeScript", "SQL", "Testing",
		},
		ExperienceHighlights: []string{
			"Built and shipped production-ready features across backend and frontend stacks.",
			"Improved reliability and observability with metrics, tests, and incident fixes.",
			"Collaborated in agile teams using code reviews and iterative delivery.",
		},
	}
}

// GenerateResumeSections asks the model for tailored resume content as
// strict JSON and sanitizes the result, falling back field by field to the
// defaults. Never fails.
func (c *Client) GenerateResumeSections(ctx context.Context, job domain.JobPosting, baseResumeText string) ResumeSections {
	fallback := DefaultResumeSections()
	if !c.Enabled() {
		return fallback
	}

	system := "You tailor internship resumes. Return only strict JSON with keys " +
		"'summary', 'top_skills', 'experience_highlights'. " +
		"top_skills and experience_highlights must be arrays of short strings."
	user := fmt.Sprintf(
		"%sJob Description:\n%s\n\nCandidate Resume Text:\n%s\n\nCreate a targeted but truthful internship resume angle.",
		jobHeader(job), truncate(job.Description, 5000), truncate(baseResumeText, 5000),
	)

	raw := c.complete(ctx, system, user)
	if raw == "" {
		return fallback
	}

	var parsed ResumeSections
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return fallback
	}
	return sanitizeSections(parsed, fallback)
}

func sanitizeSections(parsed, fallback ResumeSections) ResumeSections {
	out := ResumeSections{
		Summary:              strings.TrimSpace(parsed.Summary),
		TopSkills:            compactList(parsed.TopSkills, maxTopSkills),
		ExperienceHighlights: compactList(parsed.ExperienceHighlights, maxExperienceHighlights),
	}
	if out.Summary == "" {
		out.Summary = fallback.Summary
	}
	if len(out.TopSkills) == 0 {
		out.TopSkills = fallback.TopSkills
	}
	if len(out.ExperienceHighlights) == 0 {
		out.ExperienceHighlights = fallback.ExperienceHighlights
	}
	return out
}

func compactList(items []string, max int) []string {
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == max {
			break
		}
	}
	return out
}
