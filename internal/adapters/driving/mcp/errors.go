// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfqa.
// It lets AI assistants retrieve passages from the indexed PDFs and ask
// grounded questions about them.
package mcp

import "errors"

// Errors returned when the server is wired without a required port.
var (
	ErrMissingIndexService  = errors.New("mcp: index service is required")
	ErrMissingAnswerService = errors.New("mcp: answer service is required")
)
