package audit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Artifact is the rendered report delivered as an email attachment.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RenderReport renders the evaluation text into a paginated PDF. On any
// rendering failure it falls back to the raw text bytes so delivery still
// succeeds in degraded form; the returned artifact is never empty for a
// non-empty evaluation.
func RenderReport(company, evaluation string, score int, level string) Artifact {
	data, err := renderPDF(company, evaluation, score, level)
	if err != nil {
		return Artifact{
			Filename:    "audit-report.txt",
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(evaluation),
		}
	}
	return Artifact{
		Filename:    "audit-report.pdf",
		ContentType: "application/pdf",
		Data:        data,
	}
}

func renderPDF(company, evaluation string, score int, level string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Audit digitale Arxéon", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr("Audit digitale Arxéon"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Azienda: %s", company)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Punteggio: %d/10 - Livello: %s", score, level)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, paragraph := range strings.Split(evaluation, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			pdf.Ln(3)
			continue
		}
		pdf.MultiCell(0, 6, tr(paragraph), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
