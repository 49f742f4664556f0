package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleIndexResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns index info as json", func(t *testing.T) {
		index := &mockIndexService{
			info: domain.IndexInfo{Model: "text-embedding-3-small", Dimensions: 1536, Count: 42},
		}
		server, err := NewServer(&Ports{Index: index, Answer: &mockAnswerService{}})
		require.NoError(t, err)

		result, err := server.handleIndexResource(ctx, makeReadResourceRequest(indexURI))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Equal(t, indexURI, result.Contents[0].URI)
		assert.JSONEq(t, `{"model":"text-embedding-3-small","dimensions":1536,"count":42}`, result.Contents[0].Text)
	})

	t.Run("returns error on stats failure", func(t *testing.T) {
		index := &mockIndexService{err: errors.New("storage error")}
		server, err := NewServer(&Ports{Index: index, Answer: &mockAnswerService{}})
		require.NoError(t, err)

		_, err = server.handleIndexResource(ctx, makeReadResourceRequest(indexURI))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading index")
	})
}
