package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfqa/internal/connectors/filesystem"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
	"github.com/custodia-labs/pdfqa/internal/logger"
)

var watchExisting bool

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Index PDFs as they appear in a directory",
	Long: `Watches DIR and ingests every PDF file that is created or rewritten there,
one file at a time, until interrupted with Ctrl+C.

With --existing the PDFs already in DIR are ingested first. Set
index.deduplicate to avoid indexing a rewritten file twice.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "ingest PDFs already in the directory first")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, idx, err := openPipeline(ctx, settings, PipelineOptions{})
	if err != nil {
		return err
	}
	defer func() { closePipeline(p, idx) }()

	watcher := filesystem.New(args[0])
	defer watcher.Close()

	opts := driving.UploadOptions{SkipDuplicates: settings.Index.Deduplicate}
	ingest := func(paths []string) {
		idx = watchIngest(ctx, cmd, p.Upload, idx, paths, opts)
	}

	if watchExisting {
		existing, err := watcher.Scan()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			ingest(existing)
		}
	}

	paths, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s for PDF files. Press Ctrl+C to stop.\n", watcher.Root())

	for path := range paths {
		ingest([]string{path})
	}
	return nil
}

// watchIngest uploads paths and reports failures without stopping the watch.
func watchIngest(
	ctx context.Context,
	cmd *cobra.Command,
	upload driving.UploadService,
	idx driven.VectorStore,
	paths []string,
	opts driving.UploadOptions,
) driven.VectorStore {
	docs, failures := readDocuments(paths)
	for _, f := range failures {
		cmd.PrintErrf("  ✗ %v\n", f)
	}
	if len(docs) == 0 {
		return idx
	}

	logger.Info("Ingesting %d file(s)", len(docs))
	idx, err := uploadDocuments(ctx, cmd.OutOrStdout(), upload, idx, docs, opts)
	if err != nil {
		cmd.PrintErrf("  ✗ %v\n", err)
	}
	return idx
}
