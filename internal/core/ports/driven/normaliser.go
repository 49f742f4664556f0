package driven

import "context"

// PDFExtractor decodes a PDF file on disk into per-page text.
type PDFExtractor interface {
	// Name returns the engine name for logging.
	Name() string

	// Extract returns one string per page in document order.
	// A page without extractable text yields an empty string.
	Extract(ctx context.Context, path string) ([]string, error)
}
