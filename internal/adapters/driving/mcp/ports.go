package mcp

import (
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
)

// Ports aggregates everything the MCP server needs from the core.
type Ports struct {
	// Index retrieves passages and describes the index.
	Index driving.IndexService

	// Answer generates grounded answers.
	Answer driving.AnswerService

	// Handle is the opened index. Nil when nothing has been ingested yet.
	Handle driven.VectorStore

	// Credential authenticates the ask tool's generation requests.
	Credential string

	// Model overrides the configured generation model. Optional.
	Model string

	// TopK is the retrieve tool's default result count.
	TopK int

	// Version is reported to clients during initialisation.
	Version string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
