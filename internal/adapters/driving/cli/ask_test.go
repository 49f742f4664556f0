package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

func TestAskCmd_Metadata(t *testing.T) {
	assert.Equal(t, "ask QUESTION", askCmd.Use)
	for _, name := range []string{"api-key", "model", "top-k", "sources"} {
		assert.NotNil(t, askCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "k", askCmd.Flags().Lookup("top-k").Shorthand)
	assert.Equal(t, "m", askCmd.Flags().Lookup("model").Shorthand)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, _, err := execute(t, "", "ask")

	assert.ErrorContains(t, err, "accepts 1 arg(s)")
}

func TestAskCmd_Answers(t *testing.T) {
	env := setupTestServices(t)

	out, _, err := execute(t, "", "ask", "--api-key", "sk-test", "What grew?")

	require.NoError(t, err)
	assert.Contains(t, out, "Revenue grew 12% [report.pdf p.3].")
	assert.NotContains(t, out, "Sources:")
	assert.Equal(t, "sk-test", env.answer.credential)
	assert.Equal(t, "What grew?", env.answer.query)
	assert.Equal(t, "sk-test", env.opts.APIKey)
	assert.Equal(t, 1, env.closed)
}

func TestAskCmd_UsesConfiguredKey(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, settingsService.Set("llm.api_key", "sk-configured"))

	_, _, err := execute(t, "", "ask", "What grew?")

	require.NoError(t, err)
	assert.Equal(t, "sk-configured", env.answer.credential)
}

func TestAskCmd_MissingCredential(t *testing.T) {
	setupTestServices(t)

	_, _, err := execute(t, "", "ask", "What grew?")

	require.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.ErrorContains(t, err, "failed to answer")
}

func TestAskCmd_Overrides(t *testing.T) {
	env := setupTestServices(t)

	_, _, err := execute(t, "", "ask", "--api-key", "sk", "-k", "2", "-m", "gpt-test", "q")

	require.NoError(t, err)
	assert.Equal(t, 2, env.settings.Retrieval.TopK)
	assert.Equal(t, "gpt-test", env.settings.LLM.Model)
	assert.Equal(t, "gpt-test", env.answer.model)
}

func TestAskCmd_NegativeTopK(t *testing.T) {
	env := setupTestServices(t)

	_, _, err := execute(t, "", "ask", "--api-key", "sk", "--top-k", "-1", "q")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, env.opened)
}

func TestAskCmd_EmptyQuestion(t *testing.T) {
	env := setupTestServices(t)

	_, _, err := execute(t, "", "ask", "--api-key", "sk", "   ")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, env.opened)
}

func TestAskCmd_PrintsSources(t *testing.T) {
	env := setupTestServices(t)
	env.answer.sources = []domain.RetrievedChunk{
		{Chunk: domain.Chunk{DocumentName: "report.pdf", Page: 3, Content: "Revenue grew\n12% in Q3."}, Score: 0.91},
	}

	out, _, err := execute(t, "", "ask", "--api-key", "sk", "--sources", "What grew?")

	require.NoError(t, err)
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] report.pdf, page 3 (0.91)")
	assert.Contains(t, out, "Revenue grew 12% in Q3.")
}

func TestPrintSources_None(t *testing.T) {
	var buf bytes.Buffer

	printSources(&buf, nil)

	assert.Equal(t, "Sources: none\n", buf.String())
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"short", "hello  world", 20, "hello world"},
		{"truncated", "abcdefghij", 4, "abcd..."},
		{"runes", "ééééé", 3, "ééé..."},
		{"empty", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snippet(tt.text, tt.n))
		})
	}
}

func TestAnswerFlags_Apply(t *testing.T) {
	setupTestServices(t)
	settings := domain.DefaultAppSettings()
	settings.LLM.APIKey = "sk-settings"

	effective, credential, err := answerFlags{topK: 7, model: "m2"}.apply(&bytes.Buffer{}, &settings)

	require.NoError(t, err)
	assert.Equal(t, 7, effective.Retrieval.TopK)
	assert.Equal(t, "m2", effective.LLM.Model)
	assert.Equal(t, "sk-settings", credential)
	assert.Equal(t, domain.DefaultTopK, settings.Retrieval.TopK)
}
