package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// Output formats for index stats.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var indexOutput string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect the vector index",
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index size and embedding model",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

// indexStats is the printable form of the index description.
type indexStats struct {
	Exists  bool             `json:"exists" yaml:"exists"`
	Backend string           `json:"backend" yaml:"backend"`
	Index   domain.IndexInfo `json:"index" yaml:"index"`
}

func init() {
	indexStatsCmd.Flags().StringVarP(&indexOutput, "output", "o", outputText, "output format: text, json or yaml")
	indexCmd.AddCommand(indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	switch indexOutput {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidInput, indexOutput)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	p, idx, err := openPipeline(ctx, settings, PipelineOptions{})
	if err != nil {
		return err
	}
	defer closePipeline(p, idx)

	info, err := p.Index.Stats(ctx, idx)
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	stats := indexStats{
		Exists:  idx != nil,
		Backend: string(settings.Index.Backend),
		Index:   info,
	}

	switch indexOutput {
	case outputJSON:
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
	case outputYAML:
		data, err := yaml.Marshal(stats)
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Print(string(data))
	default:
		if !stats.Exists {
			cmd.Println("No index yet. Run 'pdfqa ingest FILE...' to create one.")
		}
		cmd.Printf("Backend:    %s\n", stats.Backend)
		cmd.Printf("Model:      %s\n", info.Model)
		cmd.Printf("Dimensions: %d\n", info.Dimensions)
		cmd.Printf("Chunks:     %d\n", info.Count)
	}
	return nil
}
