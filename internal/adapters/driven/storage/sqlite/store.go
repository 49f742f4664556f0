package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pdfqa/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pdfqa/internal/adapters/driven/storage/vectormath"
	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// DatabaseFile is the name of the index database inside the index directory.
const DatabaseFile = "index.db"

// Meta table keys.
const (
	metaModel      = "model"
	metaDimensions = "dimensions"
)

// Ensure the sqlite types implement the interfaces.
var (
	_ driven.VectorStoreProvider = (*VectorStoreProvider)(nil)
	_ driven.VectorStore         = (*Store)(nil)
	_ driven.DocumentRegistry    = (*Store)(nil)
)

// VectorStoreProvider locates the index database in a directory.
type VectorStoreProvider struct {
	dir string
}

// NewVectorStoreProvider creates a provider for the index in dir.
// If dir is empty, defaults to ~/.pdfqa/db.
func NewVectorStoreProvider(dir string) (*VectorStoreProvider, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".pdfqa", "db")
	}
	return &VectorStoreProvider{dir: dir}, nil
}

// Path returns the database file path.
func (p *VectorStoreProvider) Path() string {
	return filepath.Join(p.dir, DatabaseFile)
}

// Exists reports whether the index database file is present.
func (p *VectorStoreProvider) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(p.Path())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking index file: %w", err)
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

	s, err := openStore(p.Path())
	if err != nil {
		return nil, err
	}
	if err := s.loadMeta(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Create creates a new index database for the given model and dimensions.
func (p *VectorStoreProvider) Create(ctx context.Context, info domain.IndexInfo) (driven.VectorStore, error) {
	if info.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}

	exists, err := p.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, p.Path())
	}

	if err := os.MkdirAll(p.dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	s, err := openStore(p.Path())
	if err != nil {
		return nil, err
	}
	if err := s.writeMeta(ctx, info); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Store is one opened index database.
type Store struct {
	db    *sql.DB
	path  string
	model string
	dims  int
}

// openStore opens the database at path and applies pending migrations.
func openStore(path string) (*Store, error) {
	// Open database with WAL mode for concurrent readers
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_vector_index.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// writeMeta records the model and dimensions of a new index.
func (s *Store) writeMeta(ctx context.Context, info domain.IndexInfo) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?), (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaModel, info.Model, metaDimensions, strconv.Itoa(info.Dimensions))
	if err != nil {
		return fmt.Errorf("writing index metadata: %w", err)
	}
	s.model = info.Model
	s.dims = info.Dimensions
	return nil
}

// loadMeta reads the model and dimensions of an existing index.
func (s *Store) loadMeta(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM meta")
	if err != nil {
		return fmt.Errorf("reading index metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scanning index metadata: %w", err)
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading index metadata: %w", err)
	}

	dims, err := strconv.Atoi(meta[metaDimensions])
	if err != nil || dims <= 0 {
		return fmt.Errorf("%w: index metadata has no dimensions", domain.ErrInvalidInput)
	}
	s.model = meta[metaModel]
	s.dims = dims
	return nil
}

// Append stores entries in one transaction.
func (s *Store) Append(ctx context.Context, entries []domain.IndexEntry) error {
	for i, e := range entries {
		if len(e.Embedding) != s.dims {
			return fmt.Errorf("%w: entry %d has %d dimensions, index has %d",
				domain.ErrInvalidInput, i, len(e.Embedding), s.dims)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, document_name, page, position, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		c := e.Chunk
		if _, err := stmt.ExecContext(ctx, c.ID, c.DocumentName, c.Page, c.Position,
			c.Content, float32SliceToBytes(e.Embedding)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search scores every stored entry and returns the k most similar.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedChunk, error) {
	if len(query) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", domain.ErrInvalidInput, len(query), s.dims)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, document_name, page, position, content, embedding
		FROM chunks ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var entries []domain.IndexEntry
	for rows.Next() {
		var e domain.IndexEntry
		var blob []byte
		if err := rows.Scan(&e.Chunk.ID, &e.Chunk.DocumentName, &e.Chunk.Page,
			&e.Chunk.Position, &e.Chunk.Content, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		e.Embedding = bytesToFloat32Slice(blob)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return vectormath.TopK(entries, query, k), nil
}

// Info returns the model, dimensions and entry count.
func (s *Store) Info(ctx context.Context) (domain.IndexInfo, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return domain.IndexInfo{}, fmt.Errorf("counting chunks: %w", err)
	}
	return domain.IndexInfo{
		Model:      s.model,
		Dimensions: s.dims,
		Count:      count,
	}, nil
}

// HasDocument reports whether a document with this content hash was recorded.
func (s *Store) HasDocument(ctx context.Context, hash string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE hash = ?", hash).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying documents: %w", err)
	}
	return n > 0, nil
}

// RecordDocuments remembers the given documents as ingested.
func (s *Store) RecordDocuments(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, doc := range docs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (hash, name) VALUES (?, ?)
			ON CONFLICT(hash) DO UPDATE SET name = excluded.name
		`, doc.Hash, doc.Name); err != nil {
			return fmt.Errorf("saving document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
