package audit

import (
	"bytes"
	"testing"
)

func TestRenderReport_PDF(t *testing.T) {
	artifact := RenderReport("Conti SA", "Valutazione della maturità digitale.\n\nPunteggio: 7/10\nLivello: Avanzato", 7, "Avanzato")

	if artifact.Filename != "audit-report.pdf" {
		t.Fatalf("filename = %q", artifact.Filename)
	}
	if artifact.ContentType != "application/pdf" {
		t.Fatalf("content type = %q", artifact.ContentType)
	}
	if !bytes.HasPrefix(artifact.Data, []byte("%PDF")) {
		t.Fatalf("artifact is not a PDF (%d bytes)", len(artifact.Data))
	}
}

func TestRenderReport_LongEvaluationPaginates(t *testing.T) {
	long := bytes.Repeat([]byte("Una riga di valutazione con testo sufficiente a riempire la pagina.\n"), 200)
	artifact := RenderReport("Conti SA", string(long), 5, "Medio")

	if artifact.ContentType != "application/pdf" || len(artifact.Data) == 0 {
		t.Fatalf("long evaluation did not render: %q (%d bytes)", artifact.ContentType, len(artifact.Data))
	}
}
