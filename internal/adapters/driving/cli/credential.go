package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// promptSecret asks for a value without echo. It reports false when stdin
// is not a terminal. Replaced in tests.
var promptSecret = func(out io.Writer, label string) (string, bool) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", false
	}
	fmt.Fprintf(out, "%s: ", label)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", false
	}
	return string(password), true
}

// resolveCredential picks the generation credential: the flag, then the
// configured key, then a hidden prompt when stdin is a terminal.
// An empty result is passed through so the answer service can reject it.
func resolveCredential(out io.Writer, flagValue string, llm domain.LLMSettings) string {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key
	}
	if key := strings.TrimSpace(llm.APIKey); key != "" {
		return key
	}
	if !llm.Provider.RequiresAPIKey() {
		return ""
	}

	key, ok := promptSecret(out, llm.Provider.String()+" API key")
	if !ok {
		return ""
	}
	return strings.TrimSpace(key)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
