package driving

import (
	"context"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the current settings with defaults and environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Save validates and persists settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single dotted key (e.g. "retrieval.top_k") from its string form.
	Set(key, value string) error

	// Keys lists every supported settings key in display order.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig(ctx context.Context) error

	// ValidateLLMConfig pings the configured generation provider.
	ValidateLLMConfig(ctx context.Context) error
}
