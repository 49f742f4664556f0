package driven

import (
	"context"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// VectorStoreProvider locates the persistent vector index.
// Opening and creating are distinct so an existing index is never
// silently replaced.
type VectorStoreProvider interface {
	// Exists reports whether an index is present at the configured location.
	Exists(ctx context.Context) (bool, error)

	// Open opens the existing index. Returns domain.ErrNotFound if absent.
	Open(ctx context.Context) (VectorStore, error)

	// Create creates a new empty index for the given model and dimensions.
	// Returns domain.ErrAlreadyExists if an index is already present.
	Create(ctx context.Context, info domain.IndexInfo) (VectorStore, error)
}

// VectorStore is an opened vector index.
// Entries are append-only.
type VectorStore interface {
	// Append stores entries atomically: either all entries land or none.
	Append(ctx context.Context, entries []domain.IndexEntry) error

	// Search returns at most k entries ordered by descending cosine similarity.
	Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedChunk, error)

	// Info returns the model, dimensions and entry count.
	Info(ctx context.Context) (domain.IndexInfo, error)

	// Close releases resources.
	Close() error
}

// DocumentRegistry is implemented by vector stores that remember which
// files have been ingested, keyed by content hash.
type DocumentRegistry interface {
	// HasDocument reports whether a document with this content hash was recorded.
	HasDocument(ctx context.Context, hash string) (bool, error)

	// RecordDocuments remembers the given documents as ingested.
	RecordDocuments(ctx context.Context, docs []domain.Document) error
}
