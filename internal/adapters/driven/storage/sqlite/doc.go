// Package sqlite stores the vector index in a single SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The database file index.db lives in a fixed directory;
// its presence is what makes the index "exist".
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Search
//
// Embeddings are stored as little-endian float32 BLOBs. Search is exact:
// every row is scored by cosine similarity against the query.
//
// # Thread Safety
//
// The store is single-writer. WAL mode and a busy timeout let concurrent
// readers proceed while an append is in progress.
package sqlite
