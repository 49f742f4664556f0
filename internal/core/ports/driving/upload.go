package driving

import (
	"context"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// UploadOptions controls how a batch of files is added to the index.
type UploadOptions struct {
	// SkipDuplicates skips files whose content is already indexed.
	SkipDuplicates bool
}

// UploadService runs the full write path: ingest, chunk, embed, store.
type UploadService interface {
	// Upload ingests docs and stores their chunks with a single Upsert.
	// Per-file parse failures are reported in the returned report; the
	// error is non-nil only when the index could not be updated.
	Upload(
		ctx context.Context,
		idx driven.VectorStore,
		docs []domain.Document,
		opts UploadOptions,
	) (driven.VectorStore, domain.IngestReport, error)
}
