// Package driving defines interfaces that external actors (CLI, TUI, MCP)
// use to interact with core services. These are the "driving" ports in
// hexagonal architecture terminology - they drive the application.
//
// Implementations of these interfaces live in internal/core/services.
//
// The vector index handle (driven.VectorStore) crosses this boundary as an
// opaque value: actors obtain it from IndexService.Load or Upsert and pass
// it back on later calls. A nil handle means no index exists yet.
package driving
