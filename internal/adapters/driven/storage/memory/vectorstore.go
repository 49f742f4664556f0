package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/pdfqa/internal/adapters/driven/storage/vectormath"
	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// Ensure the memory types implement the interfaces.
var (
	_ driven.VectorStoreProvider = (*VectorStoreProvider)(nil)
	_ driven.VectorStore         = (*VectorStore)(nil)
	_ driven.DocumentRegistry    = (*VectorStore)(nil)
)

// VectorStoreProvider holds at most one in-process index.
// Contents are lost when the process exits.
type VectorStoreProvider struct {
	mu    sync.Mutex
	store *VectorStore
}

// NewVectorStoreProvider creates an empty provider.
func NewVectorStoreProvider() *VectorStoreProvider {
	return &VectorStoreProvider{}
}

// Exists reports whether an index has been created.
func (p *VectorStoreProvider) Exists(_ context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store != nil, nil
}

// Open returns the index created earlier.
func (p *VectorStoreProvider) Open(_ context.Context) (driven.VectorStore, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.store == nil {
		return nil, domain.ErrNotFound
	}
	return p.store, nil
}

// Create creates the index. Fails if one already exists.
func (p *VectorStoreProvider) Create(_ context.Context, info domain.IndexInfo) (driven.VectorStore, error) {
	if info.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.store != nil {
		return nil, domain.ErrAlreadyExists
	}
	p.store = NewVectorStore(info.Model, info.Dimensions)
	return p.store, nil
}

// VectorStore is an in-memory implementation of driven.VectorStore
// using brute-force cosine similarity.
type VectorStore struct {
	mu        sync.RWMutex
	model     string
	dims      int
	entries   []domain.IndexEntry
	documents map[string]string
}

// NewVectorStore creates an empty store for the given model and dimensions.
func NewVectorStore(model string, dims int) *VectorStore {
	return &VectorStore{
		model:     model,
		dims:      dims,
		documents: make(map[string]string),
	}
}

// Append adds entries. Nothing is stored if any entry has the wrong dimension.
func (s *VectorStore) Append(ctx context.Context, entries []domain.IndexEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i, e := range entries {
		if len(e.Embedding) != s.dims {
			return fmt.Errorf("%w: entry %d has %d dimensions, index has %d",
				domain.ErrInvalidInput, i, len(e.Embedding), s.dims)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		vec := make([]float32, len(e.Embedding))
		copy(vec, e.Embedding)
		s.entries = append(s.entries, domain.IndexEntry{Chunk: e.Chunk, Embedding: vec})
	}
	return nil
}

// Search returns at most k entries ordered by descending cosine similarity.
func (s *VectorStore) Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", domain.ErrInvalidInput, len(query), s.dims)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return vectormath.TopK(s.entries, query, k), nil
}

// Info returns the model, dimensions and entry count.
func (s *VectorStore) Info(_ context.Context) (domain.IndexInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.IndexInfo{
		Model:      s.model,
		Dimensions: s.dims,
		Count:      len(s.entries),
	}, nil
}

// HasDocument reports whether a document with this content hash was recorded.
func (s *VectorStore) HasDocument(_ context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.documents[hash]
	return ok, nil
}

// RecordDocuments remembers the given documents as ingested.
func (s *VectorStore) RecordDocuments(_ context.Context, docs []domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		s.documents[doc.Hash] = doc.Name
	}
	return nil
}

// Close is a no-op; the entries stay available to the provider.
func (s *VectorStore) Close() error {
	return nil
}
