package bot

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handshake-autopilot/internal/domain"
)

func TestWriteResultsOneJSONObjectPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.jsonl")
	results := []domain.ApplicationResult{
		{JobID: "1", Title: "SWE Intern", Company: "Acme", Status: domain.StatusApplied},
		{JobID: "2", Title: "Data Intern", Status: domain.StatusSkipped, Reason: "filter_mismatch"},
	}

	require.NoError(t, WriteResults(path, results))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []domain.ApplicationResult
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r domain.ApplicationResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		lines = append(lines, r)
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, results, lines)
}

func TestWriteResultsOverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	require.NoError(t, WriteResults(path, []domain.ApplicationResult{
		{JobID: "old", Status: domain.StatusFailed},
	}))
	require.NoError(t, WriteResults(path, []domain.ApplicationResult{
		{JobID: "new", Status: domain.StatusApplied},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"new"`)
	assert.NotContains(t, string(data), `"old"`)
}

func TestStatusCounts(t *testing.T) {
	counts := StatusCounts([]domain.ApplicationResult{
		{Status: domain.StatusApplied},
		{Status: domain.StatusApplied},
		{Status: domain.StatusSkipped},
	})
	assert.Equal(t, 2, counts[domain.StatusApplied])
	assert.Equal(t, 1, counts[domain.StatusSkipped])
	assert.Equal(t, 0, counts[domain.StatusFailed])
}
