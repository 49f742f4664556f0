package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
	"github.com/custodia-labs/pdfqa/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService embeds chunks and manages the persistent vector index.
type IndexService struct {
	provider  driven.VectorStoreProvider
	embedder  driven.EmbeddingService
	batchSize int
}

// NewIndexService creates a new index service.
// A non-positive batchSize uses domain.DefaultEmbeddingBatchSize.
func NewIndexService(
	provider driven.VectorStoreProvider,
	embedder driven.EmbeddingService,
	batchSize int,
) *IndexService {
	if batchSize <= 0 {
		batchSize = domain.DefaultEmbeddingBatchSize
	}
	return &IndexService{
		provider:  provider,
		embedder:  embedder,
		batchSize: batchSize,
	}
}

// Load opens the index if it exists. Returns nil, nil when absent.
func (s *IndexService) Load(ctx context.Context) (driven.VectorStore, error) {
	exists, err := s.provider.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check index: %w", err)
	}
	if !exists {
		logger.Debug("No index found")
		return nil, nil
	}

	idx, err := s.provider.Open(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("open index: %w", err)
	}

	info, err := idx.Info(ctx)
	if err != nil {
		idx.Close()
		return nil, fmt.Errorf("read index info: %w", err)
	}
	if info.Model != s.embedder.ModelName() {
		idx.Close()
		return nil, fmt.Errorf("%w: index built with %q, configured %q",
			domain.ErrIndexModelMismatch, info.Model, s.embedder.ModelName())
	}

	logger.Debug("Loaded index: %d entries, model %s, %d dims", info.Count, info.Model, info.Dimensions)
	return idx, nil
}

// Upsert embeds every chunk before touching storage, then appends the
// entries in one transaction. A nil idx creates a new index.
// If the index was created but the append failed, the new handle is
// returned together with the error.
func (s *IndexService) Upsert(
	ctx context.Context,
	idx driven.VectorStore,
	chunks []domain.Chunk,
) (driven.VectorStore, error) {
	if len(chunks) == 0 {
		return idx, nil
	}

	logger.Section("Indexing")
	defer logger.Stage("indexing")()

	vectors, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return idx, err
	}

	if idx == nil {
		info := domain.IndexInfo{
			Model:      s.embedder.ModelName(),
			Dimensions: len(vectors[0]),
		}
		logger.Debug("Creating index for %s (%d dims)", info.Model, info.Dimensions)
		idx, err = s.provider.Create(ctx, info)
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = domain.IndexEntry{Chunk: chunk, Embedding: vectors[i]}
	}
	if err := idx.Append(ctx, entries); err != nil {
		return idx, fmt.Errorf("append to index: %w", err)
	}

	logger.Info("Indexed %d chunks", len(entries))
	return idx, nil
}

// Retrieve returns at most k chunks ordered by descending similarity.
func (s *IndexService) Retrieve(
	ctx context.Context,
	idx driven.VectorStore,
	query string,
	k int,
) ([]domain.RetrievedChunk, error) {
	if idx == nil || k <= 0 {
		return []domain.RetrievedChunk{}, nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrEmbedding, err)
	}

	results, err := idx.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	logger.Debug("Retrieved %d of k=%d chunks", len(results), k)
	return results, nil
}

// Stats describes the index. A nil handle reports the configured model and no entries.
func (s *IndexService) Stats(ctx context.Context, idx driven.VectorStore) (domain.IndexInfo, error) {
	if idx == nil {
		return domain.IndexInfo{
			Model:      s.embedder.ModelName(),
			Dimensions: s.embedder.Dimensions(),
		}, nil
	}
	return idx.Info(ctx)
}

// embedChunks embeds chunk contents in batches, all or nothing.
func (s *IndexService) embedChunks(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))

		texts := make([]string, end-start)
		for i, chunk := range chunks[start:end] {
			texts[i] = chunk.Content
		}

		logger.Debug("Embedding chunks %d-%d of %d", start+1, end, len(chunks))
		batch, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrEmbedding, len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}

	dims := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dims {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d", domain.ErrEmbedding, i, len(v), dims)
		}
	}
	return vectors, nil
}
