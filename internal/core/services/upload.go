package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
	"github.com/custodia-labs/pdfqa/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

// UploadService runs ingestion and indexing for a batch of files.
type UploadService struct {
	ingest driving.IngestService
	index  driving.IndexService
}

// NewUploadService creates a new upload service.
func NewUploadService(ingest driving.IngestService, index driving.IndexService) *UploadService {
	return &UploadService{
		ingest: ingest,
		index:  index,
	}
}

// Upload ingests docs and stores all resulting chunks with one Upsert.
// Stores that implement driven.DocumentRegistry remember each indexed
// file; with SkipDuplicates set, files already recorded are skipped.
func (s *UploadService) Upload(
	ctx context.Context,
	idx driven.VectorStore,
	docs []domain.Document,
	opts driving.UploadOptions,
) (driven.VectorStore, domain.IngestReport, error) {
	docs = withHashes(docs)

	pending, skipped, err := s.filterDuplicates(ctx, idx, docs, opts.SkipDuplicates)
	if err != nil {
		return idx, domain.IngestReport{}, err
	}

	report := s.ingest.IngestFiles(ctx, pending)
	report.Files = append(report.Files, skipped...)

	idx, err = s.index.Upsert(ctx, idx, report.Chunks)
	if err != nil {
		return idx, report, err
	}

	if registry, ok := idx.(driven.DocumentRegistry); ok {
		if err := registry.RecordDocuments(ctx, succeeded(pending, report.Failures)); err != nil {
			return idx, report, fmt.Errorf("record documents: %w", err)
		}
	}

	return idx, report, nil
}

// filterDuplicates drops documents whose content is already indexed or
// appears earlier in the same batch.
func (s *UploadService) filterDuplicates(
	ctx context.Context,
	idx driven.VectorStore,
	docs []domain.Document,
	enabled bool,
) ([]domain.Document, []domain.IngestResult, error) {
	if !enabled {
		return docs, nil, nil
	}

	registry, _ := idx.(driven.DocumentRegistry)
	seen := make(map[string]bool, len(docs))

	var pending []domain.Document
	var skipped []domain.IngestResult
	for _, doc := range docs {
		duplicate := seen[doc.Hash]
		if !duplicate && registry != nil {
			found, err := registry.HasDocument(ctx, doc.Hash)
			if err != nil {
				return nil, nil, fmt.Errorf("check duplicate %s: %w", doc.Name, err)
			}
			duplicate = found
		}
		seen[doc.Hash] = true

		if duplicate {
			logger.Info("%s: already indexed, skipping", doc.Name)
			skipped = append(skipped, domain.IngestResult{Name: doc.Name, Skipped: true})
			continue
		}
		pending = append(pending, doc)
	}
	return pending, skipped, nil
}

// withHashes fills in missing content hashes.
func withHashes(docs []domain.Document) []domain.Document {
	out := make([]domain.Document, len(docs))
	for i, doc := range docs {
		if doc.Hash == "" {
			doc = domain.NewDocument(doc.Name, doc.Content)
		}
		out[i] = doc
	}
	return out
}

// succeeded returns the documents that did not fail. Failures are matched
// by content hash, since names taken from different directories can collide.
func succeeded(docs []domain.Document, failures []*domain.DocumentError) []domain.Document {
	failed := make(map[string]bool, len(failures))
	for _, f := range failures {
		failed[f.Hash] = true
	}

	out := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if !failed[doc.Hash] {
			out = append(out, doc)
		}
	}
	return out
}
