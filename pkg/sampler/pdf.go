package sampler

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// pdfDocument adapts a parsed PDF to the Document interface.
type pdfDocument struct {
	reader *pdf.Reader
}

func (d *pdfDocument) NumPages() int { return d.reader.NumPage() }

func (d *pdfDocument) PageText(page int) (string, error) {
	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d is empty", page+1)
	}
	return p.GetPlainText(nil)
}

// SamplePDF samples in-memory PDF bytes. A parse failure is a soft failure:
// callers fall back to an empty excerpt.
func SamplePDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	return Sample(&pdfDocument{reader: reader}), nil
}
