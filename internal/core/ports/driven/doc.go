// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PDFExtractor: Decodes a PDF file into per-page text
//   - PostProcessor: Splits page text into chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorStoreProvider: Opens or creates the persistent vector index
//   - VectorStore: An opened vector index
//   - LLMFactory: Builds a language model client per request
//   - ConfigStore: Application configuration
//   - PromptStore: Customisable prompt templates
//
// # Optional Interfaces
//
//   - DocumentRegistry: Implemented by stores that can remember ingested files
//   - AIConfigValidator: Connectivity checks for configured providers
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
