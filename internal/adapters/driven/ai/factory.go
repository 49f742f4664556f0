// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"

	ollamaembed "github.com/custodia-labs/pdfqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/pdfqa/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/pdfqa/internal/adapters/driven/embedding/ratelimit"
	anthropicllm "github.com/custodia-labs/pdfqa/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/pdfqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/pdfqa/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// Ensure LLMFactory implements the interface.
var _ driven.LLMFactory = (*LLMFactory)(nil)

// LLMFactory builds generation clients on demand from request-scoped settings.
type LLMFactory struct{}

// NewLLMFactory creates a new LLM factory.
func NewLLMFactory() *LLMFactory {
	return &LLMFactory{}
}

// NewLLM creates the client for settings.Provider.
func (f *LLMFactory) NewLLM(settings domain.LLMSettings) (driven.LLMService, error) {
	return CreateLLMService(settings)
}

// CreateEmbeddingService creates the embedding service selected by settings.
// When RequestsPerSecond is positive the service is wrapped in a rate limiter.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	var svc driven.EmbeddingService

	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		openai, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		svc = openai

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not offer embeddings, use ollama or openai", domain.ErrUnsupportedType)

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}

	return ratelimit.New(svc, settings.RequestsPerSecond), nil
}

// CreateLLMService creates the LLM service selected by settings.
func CreateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: llm provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}
