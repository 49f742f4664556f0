package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfqa/internal/adapters/driving/tui"
)

var (
	tuiFlags     answerFlags
	tuiFiles     []string
	tuiEphemeral bool
)

// runApp starts the program. Tests replace it to avoid taking the terminal.
var runApp = func(app *tui.App) error {
	return app.Run()
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Chat with your PDFs in a terminal UI",
	Long: `Launch the interactive terminal chat.

The answer to each question is shown with the passages it was built from.

Controls:
  Enter    - Ask
  Ctrl+S   - Toggle sources
  Ctrl+R   - Reset the conversation
  PgUp/Dn  - Scroll
  Esc      - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	addAnswerFlags(tuiCmd, &tuiFlags)
	tuiCmd.Flags().StringSliceVarP(&tuiFiles, "file", "f", nil, "PDF file to ingest before starting (repeatable)")
	tuiCmd.Flags().BoolVar(&tuiEphemeral, "ephemeral", false, "keep the index in memory only")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	effective, credential, err := tuiFlags.apply(cmd.ErrOrStderr(), settings)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	p, idx, err := openPipeline(ctx, &effective, PipelineOptions{APIKey: credential, Ephemeral: tuiEphemeral})
	if err != nil {
		return err
	}
	chat := p.NewChat(idx)
	defer func() { closePipeline(p, chat.Index()) }()

	if len(tuiFiles) > 0 {
		if err := ingestIntoChat(cmd, p, chat, tuiFiles, settings.Index.Deduplicate); err != nil {
			return err
		}
	}

	app, err := tui.NewApp(&tui.Ports{
		Chat:       chat,
		Index:      p.Index,
		Credential: credential,
		Model:      tuiFlags.model,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
