package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfqa/internal/adapters/driving/tui"
)

func stubRunApp(t *testing.T, err error) **tui.App {
	t.Helper()
	var started *tui.App
	original := runApp
	runApp = func(app *tui.App) error {
		started = app
		return err
	}
	t.Cleanup(func() { runApp = original })
	return &started
}

func TestTUICmd_Metadata(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
	assert.Equal(t, "Chat with your PDFs in a terminal UI", tuiCmd.Short)
	assert.Contains(t, tuiCmd.Long, "Ctrl+S")
	for _, name := range []string{"api-key", "model", "file", "ephemeral"} {
		assert.NotNil(t, tuiCmd.Flags().Lookup(name), name)
	}
}

func TestTUICmd_StartsApp(t *testing.T) {
	env := setupTestServices(t)
	started := stubRunApp(t, nil)

	_, _, err := execute(t, "", "tui", "--api-key", "sk")

	require.NoError(t, err)
	require.NotNil(t, *started)
	assert.NotNil(t, (*started).ChatView())
	assert.Equal(t, "sk", env.opts.APIKey)
	assert.Equal(t, 1, env.closed)
}

func TestTUICmd_IngestsFiles(t *testing.T) {
	env := setupTestServices(t)
	stubRunApp(t, nil)
	store := memory.NewVectorStore("m", 2)
	env.upload.result = store

	_, _, err := execute(t, "", "tui", "--api-key", "sk", "--ephemeral", "--file", writePDF(t, "a.pdf"))

	require.NoError(t, err)
	assert.True(t, env.opts.Ephemeral)
	assert.Same(t, store, env.chat.idx)
}

func TestTUICmd_RunError(t *testing.T) {
	setupTestServices(t)
	stubRunApp(t, errors.New("no tty"))

	_, _, err := execute(t, "", "tui", "--api-key", "sk")

	assert.EqualError(t, err, "TUI error: no tty")
}
