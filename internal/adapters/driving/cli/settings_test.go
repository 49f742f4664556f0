package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range settingsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"show", "set", "keys", "check"} {
		assert.True(t, names[want], want)
	}
}

func TestSettingsShow(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	for _, section := range []string{"[Embedding]", "[LLM]", "[Retrieval]", "[Index]"} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "Chunk size: 1000")
	assert.Contains(t, out, "Top K: 4")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsSet(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "", "settings", "set", "chunking.size", "800")
	require.NoError(t, err)
	assert.Contains(t, out, "Set chunking.size = 800")

	out, _, err = execute(t, "", "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Chunk size: 800")
}

func TestSettingsSet_MasksAPIKey(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "", "settings", "set", "llm.api_key", "sk-1234567890abcdef")

	require.NoError(t, err)
	assert.Contains(t, out, "Set llm.api_key = sk-1...cdef")
	assert.NotContains(t, out, "1234567890")
}

func TestSettingsSet_Invalid(t *testing.T) {
	setupTestServices(t)

	_, _, err := execute(t, "", "settings", "set", "chunking.overlap", "5000")

	assert.ErrorContains(t, err, "failed to set chunking.overlap")
}

func TestSettingsSet_RequiresTwoArgs(t *testing.T) {
	setupTestServices(t)

	_, _, err := execute(t, "", "settings", "set", "llm.model")

	assert.ErrorContains(t, err, "accepts 2 arg(s)")
}

func TestSettingsKeys(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "", "settings", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "llm.provider\n")
	assert.Contains(t, out, "index.deduplicate\n")
}

func TestSettingsCheck(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "", "settings", "check")

	require.NoError(t, err)
	assert.Contains(t, out, "✓ Embedding provider reachable")
	assert.Contains(t, out, "✓ LLM provider reachable")
}

func TestSettingsShow_Pgvector(t *testing.T) {
	setupTestServices(t)
	require.NoError(t, settingsService.Set("index.dsn", "postgres://app:secret@db:5432/pdfqa"))
	require.NoError(t, settingsService.Set("index.backend", "pgvector"))

	out, _, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "DSN: postgres://app:****@db:5432/pdfqa")
	assert.NotContains(t, out, "secret")
}

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"password", "postgres://u:p@h/db", "postgres://u:****@h/db"},
		{"no password", "postgres://u@h/db", "postgres://u@h/db"},
		{"no credentials", "postgres://h/db", "postgres://h/db"},
		{"keyword form", "host=h user=u", "host=h user=u"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redactDSN(tt.dsn))
		})
	}
}

func TestConfiguredStatus(t *testing.T) {
	assert.Equal(t, "configured", configuredStatus(true))
	assert.Equal(t, "not configured", configuredStatus(false))
}
