package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pdfqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

func TestIndexStatsCmd_Metadata(t *testing.T) {
	assert.Equal(t, "stats", indexStatsCmd.Use)
	flag := indexStatsCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "o", flag.Shorthand)
	assert.Equal(t, outputText, flag.DefValue)
}

func TestIndexStatsCmd_NoIndex(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "", "index", "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "No index yet.")
	assert.Contains(t, out, "Backend:    sqlite")
	assert.Contains(t, out, "Chunks:     0")
}

func TestIndexStatsCmd_Text(t *testing.T) {
	env := setupTestServices(t)
	env.index.loaded = memory.NewVectorStore("text-embedding-3-small", 1536)
	env.index.info = domain.IndexInfo{Model: "text-embedding-3-small", Dimensions: 1536, Count: 12}

	out, _, err := execute(t, "", "index", "stats")

	require.NoError(t, err)
	assert.NotContains(t, out, "No index yet.")
	assert.Contains(t, out, "Model:      text-embedding-3-small")
	assert.Contains(t, out, "Dimensions: 1536")
	assert.Contains(t, out, "Chunks:     12")
}

func TestIndexStatsCmd_JSON(t *testing.T) {
	env := setupTestServices(t)
	env.index.loaded = memory.NewVectorStore("m", 2)
	env.index.info = domain.IndexInfo{Model: "m", Dimensions: 2, Count: 3}

	out, _, err := execute(t, "", "index", "stats", "-o", "json")

	require.NoError(t, err)
	var got indexStats
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, indexStats{Exists: true, Backend: "sqlite", Index: env.index.info}, got)
}

func TestIndexStatsCmd_YAML(t *testing.T) {
	env := setupTestServices(t)
	env.index.info = domain.IndexInfo{Model: "m", Dimensions: 2}

	out, _, err := execute(t, "", "index", "stats", "--output", "yaml")

	require.NoError(t, err)
	var got indexStats
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.False(t, got.Exists)
	assert.Equal(t, "m", got.Index.Model)
}

func TestIndexStatsCmd_InvalidOutput(t *testing.T) {
	env := setupTestServices(t)

	_, _, err := execute(t, "", "index", "stats", "-o", "xml")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, env.opened)
}

func TestIndexStatsCmd_StatsError(t *testing.T) {
	env := setupTestServices(t)
	env.index.err = domain.ErrIndexModelMismatch

	_, _, err := execute(t, "", "index", "stats")

	require.ErrorIs(t, err, domain.ErrIndexModelMismatch)
	assert.ErrorContains(t, err, "failed to read index")
}
