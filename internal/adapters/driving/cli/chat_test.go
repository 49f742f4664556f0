package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

func TestChatCmd_Metadata(t *testing.T) {
	assert.Equal(t, "chat", chatCmd.Use)
	for _, name := range []string{"api-key", "model", "top-k", "file", "ephemeral"} {
		assert.NotNil(t, chatCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "f", chatCmd.Flags().Lookup("file").Shorthand)
}

func TestChatCmd_Conversation(t *testing.T) {
	env := setupTestServices(t)

	out, _, err := execute(t, "What grew?\n\n/help\n/reset\n/exit\nnever asked\n", "chat", "--api-key", "sk")

	require.NoError(t, err)
	assert.Contains(t, out, "Type /help for commands.")
	assert.Contains(t, out, "It grew.")
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "Conversation cleared.")
	assert.Equal(t, []string{"What grew?"}, env.chat.queries)
	assert.Equal(t, "sk", env.chat.credential)
	assert.Equal(t, 1, env.chat.resets)
	assert.Equal(t, 1, env.prompts.reloads)
	assert.Equal(t, 1, env.closed)
}

func TestChatCmd_EndOfInput(t *testing.T) {
	env := setupTestServices(t)

	_, _, err := execute(t, "q1\n", "chat", "--api-key", "sk")

	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, env.chat.queries)
}

func TestChatCmd_ContinuesAfterGenerationError(t *testing.T) {
	env := setupTestServices(t)
	env.chat.err = domain.ErrGeneration

	out, _, err := execute(t, "q1\nq2\n", "chat", "--api-key", "sk")

	require.NoError(t, err)
	assert.Contains(t, out, "Error: generation failed")
	assert.Len(t, env.chat.queries, 2)
}

func TestChatCmd_StopsOnMissingCredential(t *testing.T) {
	env := setupTestServices(t)

	out, _, err := execute(t, "q1\nq2\n", "chat")

	require.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.Contains(t, out, "Error: missing credential")
	assert.Len(t, env.chat.queries, 1)
}

func TestChatCmd_IngestsFilesFirst(t *testing.T) {
	env := setupTestServices(t)
	store := memory.NewVectorStore("m", 2)
	env.upload.result = store

	out, _, err := execute(t, "/exit\n", "chat", "--api-key", "sk", "--ephemeral", "-f", writePDF(t, "a.pdf"))

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 chunks from 1 files.")
	assert.True(t, env.opts.Ephemeral)
	assert.Same(t, store, env.chat.idx)
}

func TestChatCmd_UsesLoadedIndex(t *testing.T) {
	env := setupTestServices(t)
	store := memory.NewVectorStore("m", 2)
	env.index.loaded = store

	_, _, err := execute(t, "/quit\n", "chat", "--api-key", "sk")

	require.NoError(t, err)
	assert.Same(t, store, env.chat.idx)
	assert.Zero(t, env.upload.calls)
}
