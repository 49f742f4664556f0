package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the question or phrase to find passages for"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of passages to return (default from settings)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Passages []Passage `json:"passages"`
	Count    int       `json:"count"`
}

// Passage is one retrieved chunk.
type Passage struct {
	Document string  `json:"document"`
	Page     int     `json:"page"`
	Score    float64 `json:"score"`
	Content  string  `json:"content"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"the question to answer from the indexed PDFs"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string    `json:"answer"`
	Sources []Passage `json:"sources,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Find the passages of the indexed PDFs most similar to a query",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the indexed PDFs, citing page numbers",
	}, s.handleAsk)
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	k := input.K
	if k <= 0 {
		k = s.ports.TopK
	}

	chunks, err := s.ports.Index.Retrieve(ctx, s.ports.Handle, input.Query, k)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	passages := toPassages(chunks)
	return nil, RetrieveOutput{Passages: passages, Count: len(passages)}, nil
}

// handleAsk handles the ask tool invocation. Each call starts with an
// empty history.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, sources, err := s.ports.Answer.AnswerWithSources(
		ctx, s.ports.Credential, s.ports.Model, input.Query, s.ports.Handle, nil,
	)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{Answer: answer, Sources: toPassages(sources)}, nil
}

func toPassages(chunks []domain.RetrievedChunk) []Passage {
	passages := make([]Passage, len(chunks))
	for i, c := range chunks {
		passages[i] = Passage{
			Document: c.Chunk.DocumentName,
			Page:     c.Chunk.Page,
			Score:    c.Score,
			Content:  c.Chunk.Content,
		}
	}
	return passages
}
