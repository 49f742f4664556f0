package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Metadata(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.Contains(t, mcpCmd.Long, "retrieve")
	assert.Contains(t, mcpCmd.Long, "ask")

	port := mcpCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)
	assert.NotNil(t, mcpCmd.Flags().Lookup("api-key"))
	assert.NotNil(t, mcpCmd.Flags().Lookup("model"))
}

func TestMCPCmd_RejectsArgs(t *testing.T) {
	setupTestServices(t)

	_, _, err := execute(t, "", "mcp", "extra")

	assert.ErrorContains(t, err, "unknown command")
}
