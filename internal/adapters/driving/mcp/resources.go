package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for pdfqa resources.
	uriScheme = "pdfqa://"

	indexURI = uriScheme + "index"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         indexURI,
		Name:        "index",
		Description: "Embedding model, dimensions and chunk count of the vector index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)
}

// handleIndexResource describes the vector index.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info, err := s.ports.Index.Stats(ctx, s.ports.Handle)
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling index info: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
