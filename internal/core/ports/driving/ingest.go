package driving

import (
	"context"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// IngestService turns uploaded PDF files into page segments and chunks.
type IngestService interface {
	// Ingest extracts one segment per page, numbered from 1.
	// Parse failures wrap domain.ErrDocumentParse in a *domain.DocumentError.
	Ingest(ctx context.Context, doc domain.Document) ([]domain.PageSegment, error)

	// IngestFiles parses and chunks every document independently.
	// A file that fails to parse is reported in the result and does not
	// stop the batch.
	IngestFiles(ctx context.Context, docs []domain.Document) domain.IngestReport
}
