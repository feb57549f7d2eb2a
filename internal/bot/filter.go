package bot

import (
	"strings"

	"handshake-autopilot/internal/config"
	"handshake-autopilot/internal/domain"
)

// MatchesFilters ANDs every configured dimension against the job's
// concatenated text. An empty list means no constraint for that dimension.
func MatchesFilters(cfg config.FilterConfig, job domain.JobPosting) bool {
	text := strings.ToLower(job.Title + "\n" + job.Company + "\n" + job.Location + "\n" + job.Description)

	if len(cfg.IncludeKeywords) > 0 && !containsAny(text, cfg.IncludeKeywords) {
		return false
	}
	if containsAny(text, cfg.ExcludeKeywords) {
		return false
	}
	if cfg.RemoteOnly && !strings.Contains(text, "remote") {
		return false
	}
	if len(cfg.PreferredLocations) > 0 && !containsAny(text, cfg.PreferredLocations) {
		return false
	}
	return true
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		needle = strings.ToLower(strings.TrimSpace(needle))
		if needle == "" {
			continue
		}
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
