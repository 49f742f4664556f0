package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "ollama is valid", provider: AIProviderOllama, expected: true},
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "anthropic is valid", provider: AIProviderAnthropic, expected: true},
		{name: "empty is invalid", provider: AIProvider(""), expected: false},
		{name: "unknown is invalid", provider: AIProvider("cohere"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Capabilities(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())

	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())

	assert.True(t, AIProviderOpenAI.SupportsEmbeddings())
	assert.True(t, AIProviderOllama.SupportsEmbeddings())
	assert.False(t, AIProviderAnthropic.SupportsEmbeddings())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "OpenAI (cloud)", AIProviderOpenAI.Description())
	assert.Equal(t, "Anthropic (cloud)", AIProviderAnthropic.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk"}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderAnthropic, APIKey: "k"}.IsConfigured())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{Provider: AIProviderAnthropic}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "k"}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderOpenAI, s.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", s.Embedding.Model)
	assert.Equal(t, 32, s.Embedding.BatchSize)
	assert.Equal(t, AIProviderOpenAI, s.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", s.LLM.Model)
	assert.InDelta(t, 0.5, s.LLM.Temperature, 1e-9)
	assert.Equal(t, 1000, s.Chunking.Size)
	assert.Equal(t, 400, s.Chunking.Overlap)
	assert.Equal(t, 4, s.Retrieval.TopK)
	assert.Equal(t, IndexBackendSQLite, s.Index.Backend)
	assert.False(t, s.Index.Deduplicate)
	assert.Equal(t, PDFEngineNative, s.PDF.Engine)

	require.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"anthropic embeddings", func(s *AppSettings) { s.Embedding.Provider = AIProviderAnthropic }},
		{"unknown llm", func(s *AppSettings) { s.LLM.Provider = "nope" }},
		{"zero batch", func(s *AppSettings) { s.Embedding.BatchSize = 0 }},
		{"negative rps", func(s *AppSettings) { s.Embedding.RequestsPerSecond = -1 }},
		{"zero chunk size", func(s *AppSettings) { s.Chunking.Size = 0 }},
		{"overlap equals size", func(s *AppSettings) { s.Chunking.Overlap = s.Chunking.Size }},
		{"negative overlap", func(s *AppSettings) { s.Chunking.Overlap = -1 }},
		{"zero top k", func(s *AppSettings) { s.Retrieval.TopK = 0 }},
		{"unknown backend", func(s *AppSettings) { s.Index.Backend = "chroma" }},
		{"pgvector without dsn", func(s *AppSettings) { s.Index.Backend = IndexBackendPgvector }},
		{"unknown engine", func(s *AppSettings) { s.PDF.Engine = "poppler" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestEmbeddingDimensions_KnownModels(t *testing.T) {
	dims := EmbeddingDimensions()
	for provider, model := range DefaultEmbeddingModels() {
		_, ok := dims[model]
		assert.True(t, ok, "default model for %s has no known dimensions", provider)
	}
}
