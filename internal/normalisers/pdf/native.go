package pdf

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// Ensure NativeExtractor implements the interface.
var _ driven.PDFExtractor = (*NativeExtractor)(nil)

// NativeExtractor reads PDFs with the pure Go ledongthuc/pdf decoder.
type NativeExtractor struct{}

// NewNative creates the pure Go extractor.
func NewNative() *NativeExtractor {
	return &NativeExtractor{}
}

// Name returns the engine name.
func (e *NativeExtractor) Name() string {
	return "native"
}

// Extract returns the plain text of every page in order.
// The decoder panics on some malformed inputs; those are reported as parse errors.
func (e *NativeExtractor) Extract(ctx context.Context, path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = parseError(e.Name(), fmt.Errorf("decoder panic: %v", r))
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, parseError(e.Name(), err)
	}
	defer f.Close()

	total := reader.NumPage()
	if total == 0 {
		return nil, parseError(e.Name(), fmt.Errorf("document has no pages"))
	}

	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, parseError(e.Name(), fmt.Errorf("page %d: %w", i, err))
		}
		pages = append(pages, NormaliseWhitespace(text))
	}

	return pages, nil
}
