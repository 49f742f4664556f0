// Package cli provides the pdfqa command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
	"github.com/custodia-labs/pdfqa/internal/logger"
)

// envFile is loaded from the working directory before any command runs.
const envFile = ".env"

// Pipeline is the set of services behind the ingest and answer commands.
type Pipeline struct {
	Index  driving.IndexService
	Upload driving.UploadService
	Answer driving.AnswerService

	// NewChat starts a conversation over the given index handle.
	NewChat func(idx driven.VectorStore) driving.ChatService

	// Close releases the embedder and storage connections.
	Close func() error
}

// PipelineOptions carries per-invocation overrides into the pipeline factory.
type PipelineOptions struct {
	// APIKey is the credential given on the command line or at the prompt.
	// It also authenticates embedding requests when the embedding provider
	// matches the generation provider and has no key of its own.
	APIKey string

	// Ephemeral keeps the index in memory for the lifetime of the command.
	Ephemeral bool
}

// PipelineFactory builds the pipeline for the given settings.
type PipelineFactory func(ctx context.Context, settings domain.AppSettings, opts PipelineOptions) (*Pipeline, error)

// Dependencies are the services the composition root supplies to the CLI.
type Dependencies struct {
	Settings driving.SettingsService
	Prompts  driven.PromptStore
	Pipeline PipelineFactory
}

// Setup builds Dependencies once the global flags are known.
type Setup func(configDir, dataDir string) (*Dependencies, error)

var (
	version = "dev"

	verbose   bool
	configDir string
	dataDir   string

	setup           Setup
	settingsService driving.SettingsService
	promptStore     driven.PromptStore
	newPipeline     PipelineFactory
)

var rootCmd = &cobra.Command{
	Use:   "pdfqa",
	Short: "Ask questions about your PDF documents",
	Long: `pdfqa indexes PDF files and answers questions about them.

Text is extracted page by page, split into overlapping chunks and embedded
into a local vector index. Questions retrieve the most similar chunks and a
language model answers from them, citing page numbers.

Get started:
  pdfqa ingest report.pdf
  pdfqa ask "What was the revenue growth in Q3?"
  pdfqa chat`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.pdfqa)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory holding the index (default ~/.pdfqa)")
}

// Execute runs the root command with the given version and composition root.
func Execute(v string, s Setup) error {
	version = v
	setup = s
	return rootCmd.Execute()
}

// ensureServices runs the composition root on first use.
func ensureServices() error {
	if settingsService != nil && newPipeline != nil {
		return nil
	}
	if setup == nil {
		return errors.New("services not configured")
	}
	deps, err := setup(configDir, dataDir)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	settingsService = deps.Settings
	promptStore = deps.Prompts
	newPipeline = deps.Pipeline
	return nil
}

// loadSettings returns the effective settings.
func loadSettings() (*domain.AppSettings, error) {
	if err := ensureServices(); err != nil {
		return nil, err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// openPipeline builds the pipeline and loads the existing index, if any.
// The caller closes the returned pipeline; idx may be nil.
func openPipeline(
	ctx context.Context,
	settings *domain.AppSettings,
	opts PipelineOptions,
) (*Pipeline, driven.VectorStore, error) {
	if err := ensureServices(); err != nil {
		return nil, nil, err
	}
	p, err := newPipeline(ctx, *settings, opts)
	if err != nil {
		return nil, nil, err
	}
	idx, err := p.Index.Load(ctx)
	if err != nil {
		closePipeline(p, nil)
		return nil, nil, fmt.Errorf("failed to load index: %w", err)
	}
	return p, idx, nil
}

// closePipeline closes the index handle and the pipeline.
func closePipeline(p *Pipeline, idx driven.VectorStore) {
	if idx != nil {
		if err := idx.Close(); err != nil {
			logger.Warn("close index: %v", err)
		}
	}
	if p != nil && p.Close != nil {
		if err := p.Close(); err != nil {
			logger.Warn("close pipeline: %v", err)
		}
	}
}
