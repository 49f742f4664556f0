package driven

import (
	"context"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// AIConfigValidator checks that configured AI providers are reachable.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider described by settings.
	ValidateEmbedding(ctx context.Context, settings domain.EmbeddingSettings) error

	// ValidateLLM pings the generation provider described by settings.
	ValidateLLM(ctx context.Context, settings domain.LLMSettings) error
}
