package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// answerFlags are shared by ask, chat and tui.
type answerFlags struct {
	apiKey  string
	model   string
	topK    int
	sources bool
}

var askFlags answerFlags

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Answer a question from the indexed PDFs",
	Long: `Retrieves the chunks most similar to the question and asks the language
model to answer using only that context. Answers cite page numbers.

The API key is taken from --api-key, then the configuration or environment
(OPENAI_API_KEY, ANTHROPIC_API_KEY), and is prompted for when stdin is a
terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	addAnswerFlags(askCmd, &askFlags)
	rootCmd.AddCommand(askCmd)
}

func addAnswerFlags(cmd *cobra.Command, f *answerFlags) {
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key for the generation provider")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model to answer with (default from settings)")
	cmd.Flags().IntVarP(&f.topK, "top-k", "k", 0, "number of chunks to retrieve (default from settings)")
	cmd.Flags().BoolVar(&f.sources, "sources", false, "print the retrieved chunks")
}

// apply folds the flags into a copy of the settings and resolves the credential.
func (f answerFlags) apply(out io.Writer, settings *domain.AppSettings) (domain.AppSettings, string, error) {
	effective := *settings
	if f.topK < 0 {
		return effective, "", fmt.Errorf("%w: --top-k must be positive", domain.ErrInvalidInput)
	}
	if f.topK > 0 {
		effective.Retrieval.TopK = f.topK
	}
	if f.model != "" {
		effective.LLM.Model = f.model
	}
	return effective, resolveCredential(out, f.apiKey, settings.LLM), nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	effective, credential, err := askFlags.apply(cmd.ErrOrStderr(), settings)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	p, idx, err := openPipeline(ctx, &effective, PipelineOptions{APIKey: credential})
	if err != nil {
		return err
	}
	defer closePipeline(p, idx)

	answer, sources, err := p.Answer.AnswerWithSources(ctx, credential, askFlags.model, query, idx, nil)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	cmd.Println(answer)
	if askFlags.sources {
		cmd.Println()
		printSources(cmd.OutOrStdout(), sources)
	}
	return nil
}

// printSources lists retrieved chunks with their origin and score.
func printSources(out io.Writer, sources []domain.RetrievedChunk) {
	if len(sources) == 0 {
		fmt.Fprintln(out, "Sources: none")
		return
	}
	fmt.Fprintln(out, "Sources:")
	for i, s := range sources {
		fmt.Fprintf(out, "  [%d] %s, page %d (%.2f)\n", i+1, s.Chunk.DocumentName, s.Chunk.Page, s.Score)
		fmt.Fprintf(out, "      %s\n", snippet(s.Chunk.Content, 160))
	}
}

// snippet flattens whitespace and truncates to at most n runes.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
