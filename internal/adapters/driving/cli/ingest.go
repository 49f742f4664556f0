package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
)

var ingestSkipDuplicates bool

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE...",
	Short: "Add PDF files to the index",
	Long: `Extracts the text of each PDF page, splits it into overlapping chunks,
embeds the chunks and appends them to the vector index.

Files that cannot be parsed are reported and skipped; the remaining files
are still indexed. Ingesting the same file twice stores its chunks twice
unless --skip-duplicates is given or index.deduplicate is enabled.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestSkipDuplicates, "skip-duplicates", false,
		"skip files whose content is already indexed")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	p, idx, err := openPipeline(ctx, settings, PipelineOptions{})
	if err != nil {
		return err
	}
	defer func() { closePipeline(p, idx) }()

	docs, readFailures := readDocuments(args)
	for _, f := range readFailures {
		cmd.PrintErrf("  ✗ %v\n", f)
	}
	if len(docs) == 0 {
		return fmt.Errorf("%w: no readable files", domain.ErrInvalidInput)
	}

	opts := driving.UploadOptions{
		SkipDuplicates: ingestSkipDuplicates || settings.Index.Deduplicate,
	}
	idx, err = uploadDocuments(ctx, cmd.OutOrStdout(), p.Upload, idx, docs, opts)
	return err
}

// uploadDocuments runs one upload batch and prints its report.
// It returns the index handle to use afterwards.
func uploadDocuments(
	ctx context.Context,
	out io.Writer,
	upload driving.UploadService,
	idx driven.VectorStore,
	docs []domain.Document,
	opts driving.UploadOptions,
) (driven.VectorStore, error) {
	idx, report, err := upload.Upload(ctx, idx, docs, opts)
	printIngestReport(out, report)
	if err != nil {
		return idx, fmt.Errorf("failed to update index: %w", err)
	}
	return idx, nil
}

func printIngestReport(out io.Writer, report domain.IngestReport) {
	for _, f := range report.Files {
		if f.Skipped {
			fmt.Fprintf(out, "  - %s (already indexed)\n", f.Name)
			continue
		}
		fmt.Fprintf(out, "  ✓ %s: %d pages, %d chunks\n", f.Name, f.Pages, f.Chunks)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(out, "  ✗ %v\n", f)
	}
	fmt.Fprintf(out, "Indexed %d chunks from %d files.\n", len(report.Chunks), indexedFiles(report))
}

func indexedFiles(report domain.IngestReport) int {
	n := 0
	for _, f := range report.Files {
		if !f.Skipped {
			n++
		}
	}
	return n
}

// readDocuments loads each path from disk. Unreadable paths are returned
// as errors and do not stop the others.
func readDocuments(paths []string) ([]domain.Document, []error) {
	docs := make([]domain.Document, 0, len(paths))
	var failures []error
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", path, err))
			continue
		}
		docs = append(docs, domain.NewDocument(filepath.Base(path), data))
	}
	return docs, failures
}

// commandContext returns the command's context or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
