package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfqa/internal/adapters/driving/mcp"
)

var (
	mcpPort   int
	mcpAPIKey string
	mcpModel  string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can query your PDFs.

Tools:
  retrieve {query, k}  passages most similar to the query, with page numbers
  ask {query}          grounded answer from the configured language model

By default the server speaks JSON-RPC over stdio. Use --port to serve HTTP
instead, for example to test with the MCP Inspector.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "pdfqa": {
        "command": "/path/to/pdfqa",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.Flags().StringVar(&mcpAPIKey, "api-key", "", "API key for the generation provider")
	mcpCmd.Flags().StringVarP(&mcpModel, "model", "m", "", "model to answer with (default from settings)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	// stdin carries the protocol, so the credential is never prompted for.
	credential := mcpAPIKey
	if credential == "" {
		credential = settings.LLM.APIKey
	}

	ctx := commandContext(cmd)
	p, idx, err := openPipeline(ctx, settings, PipelineOptions{APIKey: credential})
	if err != nil {
		return err
	}
	defer closePipeline(p, idx)

	server, err := mcp.NewServer(&mcp.Ports{
		Index:      p.Index,
		Answer:     p.Answer,
		Handle:     idx,
		Credential: credential,
		Model:      mcpModel,
		TopK:       settings.Retrieval.TopK,
		Version:    version,
	})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
