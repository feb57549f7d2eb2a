package bot

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"handshake-autopilot/internal/domain"
)

// WriteResults overwrites path with one JSON object per line, one line per
// processed job.
func WriteResults(path string, results []domain.ApplicationResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create results dir")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create results file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, result := range results {
		if err := enc.Encode(result); err != nil {
			return errors.Wrap(err, "encode result")
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "flush results file")
	}
	return f.Close()
}

// StatusCounts tallies results by status for the end-of-run summary.
func StatusCounts(results []domain.ApplicationResult) map[string]int {
	counts := map[string]int{}
	for _, result := range results {
		counts[result.Status]++
	}
	return counts
}
