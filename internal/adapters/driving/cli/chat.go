package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
)

// Chat loop commands.
const (
	chatCmdExit  = "/exit"
	chatCmdQuit  = "/quit"
	chatCmdReset = "/reset"
	chatCmdHelp  = "/help"
)

var (
	chatFlags     answerFlags
	chatFiles     []string
	chatEphemeral bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your PDFs",
	Long: `Starts an interactive question and answer session. Earlier questions and
answers are sent with each new question so follow-ups work.

Commands:
  /reset  clear the conversation
  /help   show commands
  /exit   leave the chat

Use --file to add PDFs before the first question. With --ephemeral the
index lives in memory and is discarded when the chat ends.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	addAnswerFlags(chatCmd, &chatFlags)
	chatCmd.Flags().StringSliceVarP(&chatFiles, "file", "f", nil, "PDF file to ingest before chatting (repeatable)")
	chatCmd.Flags().BoolVar(&chatEphemeral, "ephemeral", false, "keep the index in memory only")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	effective, credential, err := chatFlags.apply(cmd.ErrOrStderr(), settings)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	opts := PipelineOptions{APIKey: credential, Ephemeral: chatEphemeral}
	p, idx, err := openPipeline(ctx, &effective, opts)
	if err != nil {
		return err
	}
	chat := p.NewChat(idx)
	defer func() { closePipeline(p, chat.Index()) }()

	if len(chatFiles) > 0 {
		if err := ingestIntoChat(cmd, p, chat, chatFiles, settings.Index.Deduplicate); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Ask a question about your documents. Type /help for commands.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case chatCmdExit, chatCmdQuit:
			return nil
		case chatCmdReset:
			chat.Reset()
			if promptStore != nil {
				promptStore.Reload()
			}
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		case chatCmdHelp:
			fmt.Fprintln(out, "Commands: /reset clears the conversation, /exit leaves the chat.")
			continue
		}

		answer, err := chat.Ask(ctx, credential, chatFlags.model, line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			if errors.Is(err, domain.ErrMissingCredential) {
				return err
			}
			continue
		}
		fmt.Fprintf(out, "\n%s\n\n", answer)
	}
}

// ingestIntoChat uploads files and hands the resulting index to the chat.
func ingestIntoChat(cmd *cobra.Command, p *Pipeline, chat driving.ChatService, paths []string, dedup bool) error {
	docs, failures := readDocuments(paths)
	for _, f := range failures {
		cmd.PrintErrf("  ✗ %v\n", f)
	}
	if len(docs) == 0 {
		return nil
	}

	idx, err := uploadDocuments(commandContext(cmd), cmd.OutOrStdout(), p.Upload, chat.Index(), docs,
		driving.UploadOptions{SkipDuplicates: dedup})
	chat.SetIndex(idx)
	return err
}
