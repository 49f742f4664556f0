package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedBatchSize   = "embedding.batch_size"
	keyEmbedRPS         = "embedding.requests_per_second"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMTemperature   = "llm.temperature"
	keyChunkSize        = "chunking.size"
	keyChunkOverlap     = "chunking.overlap"
	keyTopK             = "retrieval.top_k"
	keyIndexBackend     = "index.backend"
	keyIndexDir         = "index.dir"
	keyIndexDSN         = "index.dsn"
	keyIndexDeduplicate = "index.deduplicate"
	keyPDFEngine        = "pdf.engine"
)

// settingKeys lists every key in display order.
var settingKeys = []string{
	keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey, keyEmbedBatchSize, keyEmbedRPS,
	keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey, keyLLMTemperature,
	keyChunkSize, keyChunkOverlap,
	keyTopK,
	keyIndexBackend, keyIndexDir, keyIndexDSN, keyIndexDeduplicate,
	keyPDFEngine,
}

// Environment variables that supply API keys when the config has none.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
)

// settingValue is one key written by Save.
type settingValue struct {
	key   string
	value any
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	dataDir     string
}

// NewSettingsService creates a new settings service.
// dataDir is the base for the default index directory (dataDir/db); if
// empty, defaults to ~/.pdfqa. The aiValidator parameter is optional.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator, dataDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		dataDir:     dataDir,
	}
}

// Get retrieves current application settings with defaults and
// environment overrides applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := s.GetDefaults()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL),
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			BatchSize:         s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, defaults.Embedding.RequestsPerSecond),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyTopK, defaults.Retrieval.TopK),
		},
		Index: domain.IndexSettings{
			Backend:     domain.IndexBackend(s.getString(keyIndexBackend, string(defaults.Index.Backend))),
			Dir:         expandHome(s.getString(keyIndexDir, defaults.Index.Dir)),
			DSN:         s.configStore.GetString(keyIndexDSN),
			Deduplicate: s.getBool(keyIndexDeduplicate, defaults.Index.Deduplicate),
		},
		PDF: domain.PDFSettings{
			Engine: domain.PDFEngine(s.getString(keyPDFEngine, string(defaults.PDF.Engine))),
		},
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save validates and persists application settings.
// API keys that only came from the environment are not written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []settingValue{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyTopK, settings.Retrieval.TopK},
		{keyIndexBackend, string(settings.Index.Backend)},
		{keyIndexDir, settings.Index.Dir},
		{keyIndexDSN, settings.Index.DSN},
		{keyIndexDeduplicate, settings.Index.Deduplicate},
		{keyPDFEngine, string(settings.PDF.Engine)},
	}
	if key := settings.Embedding.APIKey; key != "" && key != envAPIKey(settings.Embedding.Provider) {
		values = append(values, settingValue{keyEmbedAPIKey, key})
	}
	if key := settings.LLM.APIKey; key != "" && key != envAPIKey(settings.LLM.Provider) {
		values = append(values, settingValue{keyLLMAPIKey, key})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates a single key from its string form. The resulting settings
// must validate; only the named key is written.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	typed, err := applySetting(settings, key, strings.TrimSpace(value))
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists every supported settings key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// GetDefaults returns default settings with the index directory resolved.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	defaults := domain.DefaultAppSettings()
	defaults.Index.Dir = filepath.Join(s.baseDir(), "db")
	return defaults
}

// ValidateEmbeddingConfig validates the embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(ctx, settings.Embedding)
}

// ValidateLLMConfig validates the generation configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, settings.LLM)
}

func (s *SettingsService) baseDir() string {
	if s.dataDir != "" {
		return s.dataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pdfqa"
	}
	return filepath.Join(home, ".pdfqa")
}

// applySetting parses value for key, stores it in settings and returns
// the typed value to persist.
func applySetting(settings *domain.AppSettings, key, value string) (any, error) {
	switch key {
	case keyEmbedProvider:
		settings.Embedding.Provider = domain.AIProvider(value)
		return value, nil
	case keyEmbedModel:
		settings.Embedding.Model = value
		return value, nil
	case keyEmbedBaseURL:
		settings.Embedding.BaseURL = value
		return value, nil
	case keyEmbedAPIKey:
		settings.Embedding.APIKey = value
		return value, nil
	case keyEmbedBatchSize:
		n, err := parseInt(key, value)
		settings.Embedding.BatchSize = n
		return n, err
	case keyEmbedRPS:
		f, err := parseFloat(key, value)
		settings.Embedding.RequestsPerSecond = f
		return f, err
	case keyLLMProvider:
		settings.LLM.Provider = domain.AIProvider(value)
		return value, nil
	case keyLLMModel:
		settings.LLM.Model = value
		return value, nil
	case keyLLMBaseURL:
		settings.LLM.BaseURL = value
		return value, nil
	case keyLLMAPIKey:
		settings.LLM.APIKey = value
		return value, nil
	case keyLLMTemperature:
		f, err := parseFloat(key, value)
		settings.LLM.Temperature = f
		return f, err
	case keyChunkSize:
		n, err := parseInt(key, value)
		settings.Chunking.Size = n
		return n, err
	case keyChunkOverlap:
		n, err := parseInt(key, value)
		settings.Chunking.Overlap = n
		return n, err
	case keyTopK:
		n, err := parseInt(key, value)
		settings.Retrieval.TopK = n
		return n, err
	case keyIndexBackend:
		settings.Index.Backend = domain.IndexBackend(value)
		return value, nil
	case keyIndexDir:
		settings.Index.Dir = value
		return value, nil
	case keyIndexDSN:
		settings.Index.DSN = value
		return value, nil
	case keyIndexDeduplicate:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		settings.Index.Deduplicate = b
		return b, nil
	case keyPDFEngine:
		settings.PDF.Engine = domain.PDFEngine(value)
		return value, nil
	default:
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
	}
	return f, nil
}

// envAPIKey returns the API key the environment provides for provider.
func envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv(EnvOpenAIKey)
	case domain.AIProviderAnthropic:
		return os.Getenv(EnvAnthropicKey)
	default:
		return ""
	}
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Helper methods for reading config with defaults.
// A key that is present always wins, so explicit zero values survive.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
