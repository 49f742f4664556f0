package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Document is a user-supplied PDF file.
// It is transient: only the chunks derived from it are persisted.
type Document struct {
	// Name is the original file name.
	Name string

	// Content is the raw PDF bytes.
	Content []byte

	// Hash is the hex SHA-256 of Content.
	Hash string
}

// NewDocument builds a Document and computes its content hash.
func NewDocument(name string, content []byte) Document {
	sum := sha256.Sum256(content)
	return Document{
		Name:    name,
		Content: content,
		Hash:    hex.EncodeToString(sum[:]),
	}
}

// PageSegment is the text extracted from one page of a document.
type PageSegment struct {
	// DocumentName is the name of the source document.
	DocumentName string

	// Page is the 1-based page number.
	Page int

	// Text is the extracted page text. May be empty.
	Text string
}

// Chunk is a bounded window of page text and the unit of retrieval.
// Every chunk traces back to exactly one page of one document.
type Chunk struct {
	// ID is a stable identifier derived from the chunk's origin and content.
	ID string

	// DocumentName is the name of the source document.
	DocumentName string

	// Page is the 1-based page the chunk was cut from.
	Page int

	// Position is the 0-based ordinal of the chunk within its page.
	Position int

	// Content is the chunk text.
	Content string
}

// IndexEntry is a chunk paired with its embedding vector.
type IndexEntry struct {
	Chunk     Chunk
	Embedding []float32
}

// IndexInfo describes an opened vector index.
type IndexInfo struct {
	// Model is the embedding model the index was built with.
	Model string `json:"model" yaml:"model"`

	// Dimensions is the fixed vector size of every entry.
	Dimensions int `json:"dimensions" yaml:"dimensions"`

	// Count is the number of stored entries.
	Count int `json:"count" yaml:"count"`
}

// RetrievedChunk is a chunk returned by similarity search.
type RetrievedChunk struct {
	Chunk Chunk

	// Score is the cosine similarity between the query and the chunk.
	Score float64
}

// IngestResult summarises the ingestion of a single file.
type IngestResult struct {
	Name    string
	Pages   int
	Chunks  int
	Skipped bool
}

// IngestReport is the outcome of a batch ingestion.
type IngestReport struct {
	// Chunks holds the chunks of every successfully parsed file, in file order.
	Chunks []Chunk

	// Files holds one result per successfully processed file.
	Files []IngestResult

	// Failures holds one error per file that could not be parsed.
	Failures []*DocumentError
}
