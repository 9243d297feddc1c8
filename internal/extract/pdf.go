package extract

import (
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts the embedded text layer page by page.
//
// A scanned PDF with no text layer yields an empty string, not an error.
// Rendering such pages to images and OCR-ing them is a known extension
// point that is intentionally not implemented.
type PDF struct{}

func (PDF) Extract(ctx context.Context, path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A broken page contributes nothing; the rest still counts.
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}
