// Package memory provides in-process implementations of driven ports.
//
//   - ConfigStore: configuration that is never written to disk
//   - VectorStoreProvider / VectorStore: an index that lives for one process
//
// They back tests and the --ephemeral mode of the CLI.
package memory
