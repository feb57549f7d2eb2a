// Command resume builds a tailored resume PDF for one job without driving a
// browser, useful for checking the template and the generated sections.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"handshake-autopilot/internal/config"
	"handshake-autopilot/internal/domain"
	"handshake-autopilot/internal/llm"
	"handshake-autopilot/internal/qa"
	"handshake-autopilot/internal/resume"
)

func main() {
	configPath := flag.String("config", "config/application.yaml", "path to the YAML config file")
	jobID := flag.String("job-id", "manual", "job id, used in the output filename")
	title := flag.String("title", "", "job title (required)")
	company := flag.String("company", "", "company name")
	location := flag.String("location", "", "job location")
	url := flag.String("url", "", "posting url")
	description := flag.String("description", "", "job description text")
	descriptionFile := flag.String("description-file", "", "read the job description from a file")
	asJSON := flag.Bool("json", false, "print the output paths as JSON")
	flag.Parse()

	log.SetLevel(log.WarnLevel)

	if strings.TrimSpace(*title) == "" {
		fmt.Fprintln(os.Stderr, "usage: resume --title 'Software Engineer Intern' --company Acme")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", *configPath, err)
	}

	desc := *description
	if *descriptionFile != "" {
		data, err := os.ReadFile(*descriptionFile)
		if err != nil {
			log.Fatalf("description file: %v", err)
		}
		desc = string(data)
	}

	client := llm.New(cfg.LLM)
	answerer, err := qa.New(cfg.QA, client)
	if err != nil {
		log.Fatalf("answer defaults: %v", err)
	}
	builder := resume.NewBuilder(cfg.Resume, client)

	job := domain.JobPosting{
		ID:          *jobID,
		Title:       *title,
		Company:     *company,
		Location:    *location,
		Description: desc,
		URL:         *url,
	}

	pdfPath, err := builder.Build(context.Background(), job, answerer.Defaults(), baseResumeText(cfg.Resume.BaseResumePath))
	if err != nil {
		log.Fatalf("resume build: %v", err)
	}

	if *asJSON {
		payload := map[string]string{
			"job_id":     job.ID,
			"title":      job.Title,
			"company":    job.Company,
			"resume_pdf": pdfPath,
		}
		if cfg.Resume.Mode == resume.ModeMarkdownTemplate {
			payload["resume_markdown"] = strings.TrimSuffix(pdfPath, ".pdf") + ".md"
		}
		out, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Println(string(out))
		return
	}
	fmt.Println(pdfPath)
}

func baseResumeText(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
	default:
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
