// Package domain defines the core business entities for pdfqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded PDF file (name and raw bytes)
//   - PageSegment: The extracted text of one page
//   - Chunk: A retrievable window of page text
//   - RetrievedChunk: A chunk returned by similarity search
//   - Conversation: The ordered question/answer history of a session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
