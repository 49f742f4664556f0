package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// SupportsEmbeddings returns true if the provider offers an embeddings API.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// IndexBackend identifies where the vector index is persisted.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendSQLite stores the index in a local SQLite file.
	IndexBackendSQLite IndexBackend = "sqlite"

	// IndexBackendPgvector stores the index in PostgreSQL with pgvector.
	IndexBackendPgvector IndexBackend = "pgvector"

	// IndexBackendMemory keeps the index in process memory only.
	IndexBackendMemory IndexBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendSQLite, IndexBackendPgvector, IndexBackendMemory:
		return true
	default:
		return false
	}
}

// PDFEngine identifies the PDF text extraction engine.
type PDFEngine string

// Available PDF engines.
const (
	// PDFEngineNative is the pure Go extractor.
	PDFEngineNative PDFEngine = "native"

	// PDFEngineFitz is the MuPDF-backed extractor (requires the fitz build tag).
	PDFEngineFitz PDFEngine = "fitz"
)

// IsValid returns true if the engine is recognised.
func (e PDFEngine) IsValid() bool {
	return e == PDFEngineNative || e == PDFEngineFitz
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// BatchSize is the number of texts sent per embedding request.
	BatchSize int

	// RequestsPerSecond paces embedding requests. Zero means unlimited.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbeddings() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Temperature is the sampling temperature for answers.
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings holds the sliding window parameters, in characters.
type ChunkingSettings struct {
	Size    int
	Overlap int
}

// RetrievalSettings holds retrieval parameters.
type RetrievalSettings struct {
	// TopK is the number of chunks passed to the model as context.
	TopK int
}

// IndexSettings holds vector index persistence configuration.
type IndexSettings struct {
	// Backend selects the storage adapter.
	Backend IndexBackend

	// Dir is the directory holding the SQLite index.
	Dir string

	// DSN is the PostgreSQL connection string for the pgvector backend.
	DSN string

	// Deduplicate skips files whose content hash is already indexed.
	Deduplicate bool
}

// PDFSettings holds extraction configuration.
type PDFSettings struct {
	Engine PDFEngine
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Index     IndexSettings
	PDF       PDFSettings
}

// Validate checks that the settings can drive the pipeline.
func (s AppSettings) Validate() error {
	if !s.Embedding.Provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: embedding provider %q", ErrInvalidInput, s.Embedding.Provider)
	}
	if !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: llm provider %q", ErrInvalidInput, s.LLM.Provider)
	}
	if s.Embedding.BatchSize <= 0 {
		return fmt.Errorf("%w: embedding batch size must be positive", ErrInvalidInput)
	}
	if s.Embedding.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", ErrInvalidInput)
	}
	if s.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidInput)
	}
	if s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap must be in [0, %d)", ErrInvalidInput, s.Chunking.Size)
	}
	if s.Retrieval.TopK < 1 {
		return fmt.Errorf("%w: top_k must be at least 1", ErrInvalidInput)
	}
	if !s.Index.Backend.IsValid() {
		return fmt.Errorf("%w: index backend %q", ErrInvalidInput, s.Index.Backend)
	}
	if s.Index.Backend == IndexBackendPgvector && s.Index.DSN == "" {
		return fmt.Errorf("%w: index.dsn is required for the pgvector backend", ErrInvalidInput)
	}
	if !s.PDF.Engine.IsValid() {
		return fmt.Errorf("%w: pdf engine %q", ErrInvalidInput, s.PDF.Engine)
	}
	return nil
}

// Default pipeline parameters.
const (
	DefaultChunkSize          = 1000
	DefaultChunkOverlap       = 400
	DefaultTopK               = 4
	DefaultEmbeddingBatchSize = 32
	DefaultTemperature        = 0.5
)

// DefaultAppSettings returns settings with sensible defaults.
// Index.Dir is left empty and resolved against the data directory by the settings service.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:  AIProviderOpenAI,
			Model:     DefaultEmbeddingModels()[AIProviderOpenAI],
			BatchSize: DefaultEmbeddingBatchSize,
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       DefaultLLMModels()[AIProviderOpenAI],
			Temperature: DefaultTemperature,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Index: IndexSettings{
			Backend: IndexBackendSQLite,
		},
		PDF: PDFSettings{
			Engine: PDFEngineNative,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
