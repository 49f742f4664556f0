//go:build fitz

package pdf

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// Ensure FitzExtractor implements the interface.
var _ driven.PDFExtractor = (*FitzExtractor)(nil)

// FitzExtractor reads PDFs with MuPDF.
type FitzExtractor struct{}

// NewFitz creates the MuPDF-backed extractor.
func NewFitz() (*FitzExtractor, error) {
	return &FitzExtractor{}, nil
}

// Name returns the engine name.
func (e *FitzExtractor) Name() string {
	return "fitz"
}

// Extract returns the text of every page in order.
func (e *FitzExtractor) Extract(ctx context.Context, path string) ([]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, parseError(e.Name(), err)
	}
	defer doc.Close()

	total := doc.NumPage()
	if total == 0 {
		return nil, parseError(e.Name(), fmt.Errorf("document has no pages"))
	}

	pages := make([]string, 0, total)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := doc.Text(i)
		if err != nil {
			return nil, parseError(e.Name(), fmt.Errorf("page %d: %w", i+1, err))
		}
		pages = append(pages, NormaliseWhitespace(text))
	}

	return pages, nil
}
