package resume

import (
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 48.0
	pdfLineHeight = 14.0
	wrapColumns   = 95
)

// renderPDF paints plain text onto Letter pages with simple word wrapping
// and a page break whenever the vertical space runs out.
func renderPDF(text, outputPath string) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 11)

	_, pageHeight := pdf.GetPageSize()
	y := pdfMargin

	newline := func() {
		y += pdfLineHeight
		if y > pageHeight-pdfMargin {
			pdf.AddPage()
			y = pdfMargin
		}
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			newline()
			continue
		}
		for _, segment := range wrapLine(line, wrapColumns) {
			pdf.Text(pdfMargin, y, segment)
			newline()
		}
	}

	return pdf.OutputFileAndClose(outputPath)
}

// wrapLine breaks a line at spaces into segments of at most width chars.
// A single word longer than width gets its own segment.
func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var segments []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= width {
			current += " " + word
			continue
		}
		segments = append(segments, current)
		current = word
	}
	return append(segments, current)
}
