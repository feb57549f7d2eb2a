// Command answer resolves a single application question through the same
// chain the bot uses, which makes the alias rules and defaults easy to tune
// without a browser session.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"handshake-autopilot/internal/config"
	"handshake-autopilot/internal/domain"
	"handshake-autopilot/internal/llm"
	"handshake-autopilot/internal/qa"
)

func main() {
	configPath := flag.String("config", "config/application.yaml", "path to the YAML config file")
	prompt := flag.String("prompt", "", "question text (required)")
	inputType := flag.String("input-type", "text", "text, email, tel, select, radio or checkbox")
	choices := flag.String("choices", "", "pipe-separated list or JSON array of options")
	jobID := flag.String("job-id", "runtime-job", "job id for context")
	title := flag.String("title", "Software Engineer Intern", "job title for context")
	company := flag.String("company", "", "company name for context")
	location := flag.String("location", "", "job location for context")
	description := flag.String("description", "", "job description for context")
	asJSON := flag.Bool("json", false, "print the full payload as JSON")
	flag.Parse()

	log.SetLevel(log.WarnLevel)

	if strings.TrimSpace(*prompt) == "" {
		fmt.Fprintln(os.Stderr, "usage: answer --prompt 'Are you authorized to work in the US?' [--choices 'Yes|No']")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", *configPath, err)
	}

	answerer, err := qa.New(cfg.QA, llm.New(cfg.LLM))
	if err != nil {
		log.Fatalf("answer defaults: %v", err)
	}

	job := domain.JobPosting{
		ID:          *jobID,
		Title:       *title,
		Company:     *company,
		Location:    *location,
		Description: *description,
	}
	parsed := parseChoices(*choices)
	answer := answerer.Answer(context.Background(), *prompt, *inputType, job, parsed)

	if *asJSON {
		payload := map[string]any{
			"prompt":     *prompt,
			"input_type": *inputType,
			"choices":    parsed,
			"answer":     answer,
		}
		out, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Println(string(out))
		return
	}
	fmt.Println(answer)
}

// parseChoices accepts either a JSON array or a pipe-separated list.
func parseChoices(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			return parsed
		}
	}
	var out []string
	for _, part := range strings.Split(raw, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
