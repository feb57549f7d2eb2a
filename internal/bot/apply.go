package bot

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"handshake-autopilot/internal/browser"
	"handshake-autopilot/internal/domain"
)

var consentTokens = []string{"agree", "consent", "acknowledge", "certify", "privacy", "terms"}

// applyToJob runs the multi-step apply flow for one job. Every outcome is a
// result; nothing thrown here escapes to the run loop.
func (b *Bot) applyToJob(ctx context.Context, job domain.JobPosting) domain.ApplicationResult {
	log.WithFields(log.Fields{"title": job.Title, "url": job.URL}).Info("applying")

	page, err := b.session.NewPage()
	if err != nil {
		return failedResult(job, "open_page: "+err.Error())
	}
	defer page.Close()

	if err := page.Navigate(job.URL); err != nil {
		return failedResult(job, "navigate: "+err.Error())
	}
	b.sleep(time.Second)

	if !b.clickApply(page) {
		return domain.ApplicationResult{
			JobID:   job.ID,
			Title:   job.Title,
			Company: job.Company,
			URL:     job.URL,
			Status:  domain.StatusSkipped,
			Reason:  "apply_button_not_found",
		}
	}

	resumePath, err := b.builder.Build(ctx, job, b.answerer.Defaults(), b.baseResumeText)
	if err != nil {
		b.saveFailureHTML(page, job.ID)
		return failedResult(job, "resume_build: "+err.Error())
	}

	uploaded := false
	for step := 0; step < maxApplySteps; step++ {
		if page.Closed() {
			return failedResult(job, ErrPageClosed.Error())
		}
		if !uploaded {
			uploaded = b.uploadResumeIfVisible(page, resumePath)
		}

		b.fillVisibleFields(ctx, page, job)

		if findButtonMatching(page, submitPatterns) != nil {
			if b.cfg.Application.IsDryRun() {
				return domain.ApplicationResult{
					JobID:   job.ID,
					Title:   job.Title,
					Company: job.Company,
					URL:     job.URL,
					Status:  domain.StatusDryRunReady,
					Reason:  "submit_button_reached",
				}
			}
			if !b.cfg.Application.AutoSubmit {
				return domain.ApplicationResult{
					JobID:   job.ID,
					Title:   job.Title,
					Company: job.Company,
					URL:     job.URL,
					Status:  domain.StatusReadyToSubmit,
					Reason:  "submit_button_reached",
				}
			}
			if !clickButtonMatching(page, submitPatterns) {
				b.saveFailureHTML(page, job.ID)
				return failedResult(job, "submit_not_clickable")
			}
			b.sleep(1500 * time.Millisecond)
			return domain.ApplicationResult{
				JobID:   job.ID,
				Title:   job.Title,
				Company: job.Company,
				URL:     job.URL,
				Status:  domain.StatusApplied,
			}
		}

		if !clickButtonMatching(page, nextStepPatterns) {
			break
		}
		b.sleep(time.Second)
	}

	b.saveFailureHTML(page, job.ID)
	return failedResult(job, "unable_to_reach_submit")
}

func (b *Bot) clickApply(page browser.Page) bool {
	b.sleep(800 * time.Millisecond)
	if clickButtonMatching(page, applyPatterns) {
		b.sleep(900 * time.Millisecond)
		return true
	}

	// Some postings use a plain link instead of a button.
	for _, link := range page.Query("a") {
		if !strings.Contains(link.Text(), "Apply") {
			continue
		}
		if !link.Visible() {
			continue
		}
		if link.Click() == nil {
			b.sleep(900 * time.Millisecond)
			return true
		}
		return false
	}
	return false
}

func (b *Bot) uploadResumeIfVisible(page browser.Page, resumePath string) bool {
	uploaders := page.Query("input[type='file']")
	if len(uploaders) > 20 {
		uploaders = uploaders[:20]
	}
	for _, uploader := range uploaders {
		if !uploader.Visible() {
			continue
		}
		if err := uploader.Upload(resumePath); err != nil {
			continue
		}
		log.WithField("resume", filepath.Base(resumePath)).Info("uploaded resume")
		b.sleep(time.Second)
		return true
	}
	return false
}

func (b *Bot) fillVisibleFields(ctx context.Context, page browser.Page, job domain.JobPosting) {
	b.fillTextInputs(ctx, page, job)
	b.fillSelects(ctx, page, job)
	b.fillRadioGroups(ctx, page, job)
	b.fillCheckboxes(page)
}

const textInputSelector = "input:not([type='hidden']):not([type='file']):not([type='radio']):not([type='checkbox']), textarea"

func (b *Bot) fillTextInputs(ctx context.Context, page browser.Page, job domain.JobPosting) {
	fields := page.Query(textInputSelector)
	if len(fields) > 300 {
		fields = fields[:300]
	}
	for _, field := range fields {
		if !field.Visible() || !field.Enabled() {
			continue
		}
		if strings.TrimSpace(field.Value()) != "" {
			continue
		}

		inputType := strings.ToLower(strings.TrimSpace(field.Attr("type")))
		if inputType == "" {
			inputType = "text"
		}
		prompt := promptForInput(page, field)
		answer := b.answerer.Answer(ctx, prompt, inputType, job, nil)
		if answer == "" {
			continue
		}
		// Individual fill failures are skipped, not fatal.
		_ = field.Fill(answer)
	}
}

func (b *Bot) fillSelects(ctx context.Context, page browser.Page, job domain.JobPosting) {
	selects := page.Query("select")
	if len(selects) > 100 {
		selects = selects[:100]
	}
	for _, field := range selects {
		if !field.Visible() || !field.Enabled() {
			continue
		}
		labels := field.Options()
		if len(labels) == 0 {
			continue
		}

		prompt := promptForInput(page, field)
		answer := b.answerer.Answer(ctx, prompt, "select", job, labels)

		selected := labels[0]
		for _, label := range labels {
			if label == answer {
				selected = label
				break
			}
		}
		_ = field.SelectLabel(selected)
	}
}

func (b *Bot) fillRadioGroups(ctx context.Context, page browser.Page, job domain.JobPosting) {
	radios := page.Query("input[type='radio']")
	if len(radios) > 300 {
		radios = radios[:300]
	}

	groups := map[string][]browser.Element{}
	var order []string
	for _, radio := range radios {
		name := strings.TrimSpace(radio.Attr("name"))
		if name == "" {
			continue
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], radio)
	}

	for _, name := range order {
		group := groups[name]
		// A pre-checked option settles the group.
		if anyChecked(group) {
			continue
		}

		var visible []browser.Element
		var labels []string
		for i, radio := range group {
			if !radio.Visible() {
				continue
			}
			visible = append(visible, radio)
			labels = append(labels, radioLabel(page, radio, i))
		}
		if len(labels) == 0 {
			continue
		}

		prompt := radioGroupPrompt(group[0], name)

		answer := b.answerer.Answer(ctx, prompt, "radio", job, labels)
		index := 0
		for i, label := range labels {
			if label == answer {
				index = i
				break
			}
		}
		_ = visible[index].Check()
	}
}

func (b *Bot) fillCheckboxes(page browser.Page) {
	boxes := page.Query("input[type='checkbox']")
	if len(boxes) > 200 {
		boxes = boxes[:200]
	}
	for _, box := range boxes {
		if !box.Visible() || !box.Enabled() || box.Checked() {
			continue
		}
		prompt := strings.ToLower(promptForInput(page, box))
		if containsAny(prompt, consentTokens) {
			_ = box.Check()
		}
	}
}

const genericPrompt = "Application question"

// promptForInput derives the question text for a form control: its label
// element, then accessibility attributes, then the nearest enclosing
// label/legend, then a generic fallback.
func promptForInput(page browser.Page, el browser.Element) string {
	if id := el.Attr("id"); id != "" {
		for _, label := range page.Query("label[for='" + id + "']") {
			if text := label.Text(); text != "" {
				return text
			}
		}
	}
	for _, attr := range []string{"aria-label", "placeholder", "name"} {
		if value := el.Attr(attr); value != "" {
			return value
		}
	}
	if text := el.LabelText(); text != "" {
		return text
	}
	return genericPrompt
}

// radioLabel names one option of a radio group. The shared name attribute is
// useless here; the option's own label element or value tells them apart.
func radioLabel(page browser.Page, radio browser.Element, index int) string {
	if id := radio.Attr("id"); id != "" {
		for _, label := range page.Query("label[for='" + id + "']") {
			if text := label.Text(); text != "" {
				return text
			}
		}
	}
	if text := radio.LabelText(); text != "" {
		return text
	}
	if value := strings.TrimSpace(radio.Attr("value")); value != "" {
		return value
	}
	return "Option " + strconv.Itoa(index+1)
}

// radioGroupPrompt derives the question for a whole radio group. LabelText
// of a single radio would name that option, not the question, so only
// aria-label and the (often readable) group name qualify.
func radioGroupPrompt(first browser.Element, name string) string {
	if label := first.Attr("aria-label"); label != "" {
		return label
	}
	return strings.ReplaceAll(name, "_", " ")
}

func anyChecked(group []browser.Element) bool {
	for _, el := range group {
		if el.Checked() {
			return true
		}
	}
	return false
}

func (b *Bot) saveFailureHTML(page browser.Page, jobID string) {
	if !b.cfg.Application.SavesFailureHTML() {
		return
	}
	html, err := page.HTML()
	if err != nil {
		return
	}
	if err := os.MkdirAll(FailuresDir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(FailuresDir, jobID+".html"), []byte(html), 0o644)
}
