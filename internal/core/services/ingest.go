package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
	"github.com/custodia-labs/pdfqa/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// tempPattern names the scratch files handed to the extractor.
const tempPattern = "pdfqa-*.pdf"

// IngestService extracts page text from uploaded PDFs and chunks it.
type IngestService struct {
	extractor driven.PDFExtractor
	chunker   driven.PostProcessor
	tempDir   string
}

// NewIngestService creates a new ingest service.
// Scratch files are written to tempDir; an empty tempDir uses os.TempDir.
func NewIngestService(extractor driven.PDFExtractor, chunker driven.PostProcessor, tempDir string) *IngestService {
	return &IngestService{
		extractor: extractor,
		chunker:   chunker,
		tempDir:   tempDir,
	}
}

// Ingest extracts one segment per page, numbered from 1.
func (s *IngestService) Ingest(ctx context.Context, doc domain.Document) ([]domain.PageSegment, error) {
	logger.Debug("Ingesting %q (%d bytes) with %s engine", doc.Name, len(doc.Content), s.extractor.Name())

	if len(doc.Content) == 0 {
		return nil, &domain.DocumentError{
			Name: doc.Name,
			Err:  fmt.Errorf("%w: empty file", domain.ErrDocumentParse),
		}
	}

	path, err := s.writeTemp(doc.Content)
	if err != nil {
		return nil, &domain.DocumentError{Name: doc.Name, Err: err}
	}
	defer os.Remove(path)

	pages, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, &domain.DocumentError{Name: doc.Name, Err: err}
	}

	segments := make([]domain.PageSegment, len(pages))
	for i, text := range pages {
		segments[i] = domain.PageSegment{
			DocumentName: doc.Name,
			Page:         i + 1,
			Text:         text,
		}
	}

	logger.Debug("Extracted %d pages from %q", len(segments), doc.Name)
	return segments, nil
}

// IngestFiles parses and chunks every document independently.
// Chunks are returned in file order; parse failures are collected.
func (s *IngestService) IngestFiles(ctx context.Context, docs []domain.Document) domain.IngestReport {
	logger.Section("Ingestion")
	defer logger.Stage("ingestion")()

	var report domain.IngestReport
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			report.Failures = append(report.Failures, &domain.DocumentError{Name: doc.Name, Hash: doc.Hash, Err: err})
			continue
		}

		segments, err := s.Ingest(ctx, doc)
		if err != nil {
			report.Failures = append(report.Failures, asDocumentError(doc, err))
			logger.Warn("Skipping %q: %v", doc.Name, err)
			continue
		}

		chunks, err := s.chunker.Process(ctx, segments)
		if err != nil {
			report.Failures = append(report.Failures, &domain.DocumentError{Name: doc.Name, Hash: doc.Hash, Err: err})
			continue
		}

		report.Chunks = append(report.Chunks, chunks...)
		report.Files = append(report.Files, domain.IngestResult{
			Name:   doc.Name,
			Pages:  len(segments),
			Chunks: len(chunks),
		})
		logger.Info("%s: %d pages, %d chunks", doc.Name, len(segments), len(chunks))
	}

	return report
}

// writeTemp stores content in a scratch file and returns its path.
func (s *IngestService) writeTemp(content []byte) (string, error) {
	f, err := os.CreateTemp(s.tempDir, tempPattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

func asDocumentError(doc domain.Document, err error) *domain.DocumentError {
	var docErr *domain.DocumentError
	if errors.As(err, &docErr) {
		if docErr.Hash == "" {
			docErr.Hash = doc.Hash
		}
		return docErr
	}
	return &domain.DocumentError{Name: doc.Name, Hash: doc.Hash, Err: err}
}
