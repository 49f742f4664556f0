// Package pgvector stores the vector index in PostgreSQL using the
// pgvector extension. Similarity search runs in the database.
package pgvector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// Table names.
const (
	chunksTable    = "pdfqa_chunks"
	metaTable      = "pdfqa_meta"
	documentsTable = "pdfqa_documents"
)

// Pool settings.
const (
	DefaultMaxConns        = 10
	DefaultMaxConnLifetime = time.Hour
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// Ensure the pgvector types implement the interfaces.
var (
	_ driven.VectorStoreProvider = (*VectorStoreProvider)(nil)
	_ driven.VectorStore         = (*Store)(nil)
	_ driven.DocumentRegistry    = (*Store)(nil)
)

// VectorStoreProvider locates the index tables in one database.
type VectorStoreProvider struct {
	pool *pgxpool.Pool
}

// NewVectorStoreProvider creates a connection pool for dsn.
// Connections are established lazily.
func NewVectorStoreProvider(ctx context.Context, dsn string) (*VectorStoreProvider, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty postgres connection string", domain.ErrInvalidInput)
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	config.MaxConns = DefaultMaxConns
	config.MaxConnLifetime = DefaultMaxConnLifetime
	config.MaxConnIdleTime = DefaultMaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	return &VectorStoreProvider{pool: pool}, nil
}

// Close closes the connection pool shared by every store it opened.
func (p *VectorStoreProvider) Close() {
	p.pool.Close()
}

// Exists reports whether the index tables are present.
func (p *VectorStoreProvider) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", chunksTable).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check index tables: %w", err)
	}
	return exists, nil
}

// Open opens the existing index. Returns domain.ErrNotFound if absent.
func (p *VectorStoreProvider) Open(ctx context.Context) (driven.VectorStore, error) {
	exists, err := p.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	rows, err := p.pool.Query(ctx, "SELECT key, value FROM "+metaTable)
	if err != nil {
		return nil, fmt.Errorf("read index metadata: %w", err)
	}
	meta, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) ([2]string, error) {
		var kv [2]string
		err := row.Scan(&kv[0], &kv[1])
		return kv, err
	})
	if err != nil {
		return nil, fmt.Errorf("read index metadata: %w", err)
	}

	s := &Store{pool: p.pool}
	for _, kv := range meta {
		switch kv[0] {
		case "model":
			s.model = kv[1]
		case "dimensions":
			s.dims, _ = strconv.Atoi(kv[1])
		}
	}
	if s.dims <= 0 {
		return nil, fmt.Errorf("%w: index metadata has no dimensions", domain.ErrInvalidInput)
	}
	return s, nil
}

// Create creates the index tables for the given model and dimensions.
func (p *VectorStoreProvider) Create(ctx context.Context, info domain.IndexInfo) (driven.VectorStore, error) {
	if info.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}

	exists, err := p.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: table %s", domain.ErrAlreadyExists, chunksTable)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, stmt := range schema(info.Dimensions) {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO "+metaTable+" (key, value) VALUES ('model', $1), ('dimensions', $2)",
		info.Model, strconv.Itoa(info.Dimensions),
	); err != nil {
		return nil, fmt.Errorf("write index metadata: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &Store{pool: p.pool, model: info.Model, dims: info.Dimensions}, nil
}

// schema returns the DDL for an index of the given dimensions.
func schema(dims int) []string {
	return []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		"CREATE TABLE IF NOT EXISTS " + metaTable + ` (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE %s (
			id            BIGSERIAL PRIMARY KEY,
			chunk_id      TEXT NOT NULL,
			document_name TEXT NOT NULL,
			page          INTEGER NOT NULL,
			position      INTEGER NOT NULL,
			content       TEXT NOT NULL,
			embedding     vector(%d) NOT NULL
		)`, chunksTable, dims),
		"CREATE TABLE IF NOT EXISTS " + documentsTable + ` (
			hash       TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			indexed_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	}
}

// Store is an opened pgvector index. Handles share the provider's pool.
type Store struct {
	pool  *pgxpool.Pool
	model string
	dims  int
}

// Append inserts entries with one batch inside a transaction.
func (s *Store) Append(ctx context.Context, entries []domain.IndexEntry) error {
	for i, e := range entries {
		if len(e.Embedding) != s.dims {
			return fmt.Errorf("%w: entry %d has %d dimensions, index has %d",
				domain.ErrInvalidInput, i, len(e.Embedding), s.dims)
		}
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, e := range entries {
		c := e.Chunk
		batch.Queue(
			"INSERT INTO "+chunksTable+` (chunk_id, document_name, page, position, content, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, c.DocumentName, c.Page, c.Position, c.Content, pgvector.NewVector(e.Embedding),
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range entries {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Search returns at most k entries ordered by cosine distance.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedChunk, error) {
	if len(query) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", domain.ErrInvalidInput, len(query), s.dims)
	}
	if k <= 0 {
		return []domain.RetrievedChunk{}, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT chunk_id, document_name, page, position, content, 1 - (embedding <=> $1::vector)
		 FROM `+chunksTable+`
		 ORDER BY embedding <=> $1::vector, id
		 LIMIT $2`,
		pgvector.NewVector(query), k,
	)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RetrievedChunk, error) {
		var rc domain.RetrievedChunk
		err := row.Scan(&rc.Chunk.ID, &rc.Chunk.DocumentName, &rc.Chunk.Page,
			&rc.Chunk.Position, &rc.Chunk.Content, &rc.Score)
		return rc, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	return results, nil
}

// Info returns the model, dimensions and entry count.
func (s *Store) Info(ctx context.Context) (domain.IndexInfo, error) {
	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+chunksTable).Scan(&count); err != nil {
		return domain.IndexInfo{}, fmt.Errorf("count chunks: %w", err)
	}
	return domain.IndexInfo{Model: s.model, Dimensions: s.dims, Count: count}, nil
}

// HasDocument reports whether a document with this content hash was recorded.
func (s *Store) HasDocument(ctx context.Context, hash string) (bool, error) {
	var name string
	err := s.pool.QueryRow(ctx, "SELECT name FROM "+documentsTable+" WHERE hash = $1", hash).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query documents: %w", err)
	}
	return true, nil
}

// RecordDocuments remembers the given documents as ingested.
func (s *Store) RecordDocuments(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, doc := range docs {
		batch.Queue(
			"INSERT INTO "+documentsTable+` (hash, name) VALUES ($1, $2)
			 ON CONFLICT (hash) DO UPDATE SET name = EXCLUDED.name`,
			doc.Hash, doc.Name,
		)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save documents: %w", err)
	}
	return nil
}

// Close is a no-op; the pool belongs to the provider.
func (s *Store) Close() error {
	return nil
}
