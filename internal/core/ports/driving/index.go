package driving

import (
	"context"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// IndexService manages the persistent vector index.
type IndexService interface {
	// Load opens the index if it exists. Returns nil, nil when absent.
	Load(ctx context.Context) (driven.VectorStore, error)

	// Upsert embeds chunks and appends them, creating the index when idx is nil.
	// Returns the (possibly new) handle. Empty chunks leave idx unchanged.
	Upsert(ctx context.Context, idx driven.VectorStore, chunks []domain.Chunk) (driven.VectorStore, error)

	// Retrieve returns at most k chunks most similar to query.
	Retrieve(ctx context.Context, idx driven.VectorStore, query string, k int) ([]domain.RetrievedChunk, error)

	// Stats describes the index. A nil handle yields a zero count.
	Stats(ctx context.Context, idx driven.VectorStore) (domain.IndexInfo, error)
}
