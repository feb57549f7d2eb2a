package resume

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"handshake-autopilot/internal/config"
	"handshake-autopilot/internal/domain"
	"handshake-autopilot/internal/llm"
)

const (
	ModeCopyPDF          = "copy_pdf"
	ModeMarkdownTemplate = "markdown_template"
)

type Builder struct {
	cfg config.ResumeConfig
	llm *llm.Client
}

func NewBuilder(cfg config.ResumeConfig, client *llm.Client) *Builder {
	return &Builder{cfg: cfg, llm: client}
}

// Build renders a per-job resume PDF under the output dir and returns its
// path. In copy_pdf mode the configured base PDF is copied to the job's
// slug; in markdown_template mode the template is filled with QA defaults,
// job fields and LLM-generated sections, then painted to a PDF.
func (b *Builder) Build(ctx context.Context, job domain.JobPosting, defaults map[string]string, baseResumeText string) (string, error) {
	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "create resume output dir")
	}

	slug := Slug(job.Company + "-" + job.Title + "-" + job.ID)

	if b.cfg.Mode == ModeCopyPDF {
		if !strings.EqualFold(filepath.Ext(b.cfg.BaseResumePath), ".pdf") {
			return "", errors.New("resume.mode=copy_pdf requires a .pdf base_resume_path")
		}
		target := filepath.Join(b.cfg.OutputDir, slug+".pdf")
		if err := copyFile(b.cfg.BaseResumePath, target); err != nil {
			return "", errors.Wrap(err, "copy base resume")
		}
		return target, nil
	}

	templateText, err := os.ReadFile(b.cfg.TemplatePath)
	if err != nil {
		return "", errors.Wrapf(err, "resume template not found: %s", b.cfg.TemplatePath)
	}

	sections := b.llm.GenerateResumeSections(ctx, job, baseResumeText)
	rendered := fillTemplate(string(templateText), job, defaults, sections)

	mdPath := filepath.Join(b.cfg.OutputDir, slug+".md")
	pdfPath := filepath.Join(b.cfg.OutputDir, slug+".pdf")
	if err := os.WriteFile(mdPath, []byte(rendered), 0o644); err != nil {
		return "", errors.Wrap(err, "write resume markdown")
	}
	if err := renderPDF(markdownToPlainText(rendered), pdfPath); err != nil {
		return "", errors.Wrap(err, "render resume pdf")
	}
	log.WithFields(log.Fields{"job_id": job.ID, "pdf": pdfPath}).Debug("resume built")
	return pdfPath, nil
}

// fillTemplate substitutes $NAME / ${NAME} placeholders. Unresolved
// placeholders stay literal; substitution never fails.
func fillTemplate(templateText string, job domain.JobPosting, defaults map[string]string, sections llm.ResumeSections) string {
	values := map[string]string{
		"FULL_NAME":             defaults["full_name"],
		"EMAIL":                 defaults["email"],
		"PHONE":                 defaults["phone"],
		"LINKEDIN":              defaults["linkedin"],
		"GITHUB":                defaults["github"],
		"ROLE":                  job.Title,
		"COMPANY":               job.Company,
		"GRADUATION_MONTH_YEAR": defaults["graduation_month_year"],
		"SUMMARY":               sections.Summary,
		"TOP_SKILLS":            bulletList(sections.TopSkills),
		"EXPERIENCE_HIGHLIGHTS": bulletList(sections.ExperienceHighlights),
	}
	return placeholderRe.ReplaceAllStringFunc(templateText, func(match string) string {
		if match == "$$" {
			return "$"
		}
		name := strings.Trim(match[1:], "{}")
		if v, ok := values[name]; ok {
			return v
		}
		// keep $NAME and ${NAME} exactly as written
		return match
	})
}

var placeholderRe = regexp.MustCompile(`\$(?:\$|\{[A-Za-z_][A-Za-z0-9_]*\}|[A-Za-z_][A-Za-z0-9_]*)`)

func bulletList(items []string) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

var (
	headingRe  = regexp.MustCompile(`(?m)^#+\s*`)
	mdPunctRe  = regexp.MustCompile("[*_`>-]")
	slugJunkRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

func markdownToPlainText(markdown string) string {
	text := headingRe.ReplaceAllString(markdown, "")
	text = mdPunctRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Slug derives a filesystem-safe name: non-alphanumeric runs collapse to a
// hyphen, lowercased, capped at 60 chars, never empty.
func Slug(value string) string {
	cleaned := slugJunkRe.ReplaceAllString(value, "-")
	cleaned = strings.ToLower(strings.Trim(cleaned, "-"))
	if len(cleaned) > 60 {
		cleaned = cleaned[:60]
	}
	if cleaned == "" {
		return "job"
	}
	return cleaned
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
