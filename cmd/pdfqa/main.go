// Command pdfqa answers questions about PDF documents.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/pdfqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/pdfqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfqa/internal/adapters/driven/storage/pgvector"
	"github.com/custodia-labs/pdfqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
	"github.com/custodia-labs/pdfqa/internal/core/services"
	"github.com/custodia-labs/pdfqa/internal/logger"
	"github.com/custodia-labs/pdfqa/internal/normalisers/pdf"
	"github.com/custodia-labs/pdfqa/internal/postprocessors/chunker"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version, setup); err != nil {
		os.Exit(1)
	}
}

// setup wires the configuration and the pipeline factory.
func setup(configDir, dataDir string) (*cli.Dependencies, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}

	promptDir := ""
	if configDir != "" {
		promptDir = filepath.Join(configDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return nil, err
	}

	return &cli.Dependencies{
		Settings: services.NewSettingsService(configStore, ai.NewConfigValidator(), dataDir),
		Prompts:  prompts,
		Pipeline: pipelineFactory(prompts),
	}, nil
}

// pipelineFactory returns the cli.PipelineFactory over the given prompts.
func pipelineFactory(prompts driven.PromptStore) cli.PipelineFactory {
	return func(ctx context.Context, settings domain.AppSettings, opts cli.PipelineOptions) (*cli.Pipeline, error) {
		return newPipeline(ctx, settings, opts, prompts)
	}
}

func newPipeline(
	ctx context.Context,
	settings domain.AppSettings,
	opts cli.PipelineOptions,
	prompts driven.PromptStore,
) (*cli.Pipeline, error) {
	embedSettings := settings.Embedding
	if embedSettings.APIKey == "" && embedSettings.Provider == settings.LLM.Provider {
		embedSettings.APIKey = opts.APIKey
	}
	embedder, err := ai.CreateEmbeddingService(embedSettings)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	extractor, err := pdf.New(settings.PDF.Engine)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	provider, closeProvider, err := openProvider(ctx, settings.Index, opts.Ephemeral)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	chunks := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)

	ingest := services.NewIngestService(extractor, chunks, "")
	index := services.NewIndexService(provider, embedder, settings.Embedding.BatchSize)
	answer := services.NewAnswerService(index, ai.NewLLMFactory(), prompts, settings.LLM, settings.Retrieval.TopK)

	return &cli.Pipeline{
		Index:  index,
		Upload: services.NewUploadService(ingest, index),
		Answer: answer,
		NewChat: func(idx driven.VectorStore) driving.ChatService {
			return services.NewChatService(answer, idx)
		},
		Close: func() error {
			closeProvider()
			return embedder.Close()
		},
	}, nil
}

// openProvider selects the index backend. The returned func releases it.
func openProvider(
	ctx context.Context,
	settings domain.IndexSettings,
	ephemeral bool,
) (driven.VectorStoreProvider, func(), error) {
	backend := settings.Backend
	if ephemeral {
		backend = domain.IndexBackendMemory
	}
	logger.Debug("Index backend: %s", backend)

	switch backend {
	case domain.IndexBackendMemory:
		return memory.NewVectorStoreProvider(), func() {}, nil

	case domain.IndexBackendPgvector:
		provider, err := pgvector.NewVectorStoreProvider(ctx, settings.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open pgvector index: %w", err)
		}
		return provider, provider.Close, nil

	case domain.IndexBackendSQLite, "":
		provider, err := sqlite.NewVectorStoreProvider(settings.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite index: %w", err)
		}
		return provider, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("%w: index backend %q", domain.ErrUnsupportedType, backend)
	}
}
