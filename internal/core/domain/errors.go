package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown provider, backend or engine.
	ErrUnsupportedType = errors.New("unsupported type")

	// Pipeline Errors.

	// ErrDocumentParse indicates a file could not be decoded as a PDF.
	// Raised per file; other files in the same batch are unaffected.
	ErrDocumentParse = errors.New("document could not be parsed")

	// ErrEmbedding indicates the embedding provider failed.
	// The index is left unchanged.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration indicates the language model call failed.
	ErrGeneration = errors.New("generation failed")

	// ErrMissingCredential indicates no API key was supplied for a provider that needs one.
	ErrMissingCredential = errors.New("missing credential")

	// ErrIndexModelMismatch indicates the stored index was built with a different embedding model.
	ErrIndexModelMismatch = errors.New("index was built with a different embedding model")
)

// DocumentError reports a failure tied to a single uploaded file.
type DocumentError struct {
	// Name is the file name as supplied by the user.
	Name string

	// Hash is the content hash of the failed document, when known.
	Hash string

	// Err is the underlying error, usually wrapping ErrDocumentParse.
	Err error
}

// Error implements error.
func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// Unwrap allows errors.Is to match the wrapped sentinel.
func (e *DocumentError) Unwrap() error {
	return e.Err
}
