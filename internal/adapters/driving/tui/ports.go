// Package tui provides an interactive terminal chat over the indexed PDFs.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
)

// Ports aggregates the driving ports and per-session values the TUI needs.
type Ports struct {
	// Chat holds the conversation and the index it is asked against.
	Chat driving.ChatService

	// Index describes the index in the status bar.
	Index driving.IndexService

	// Credential authenticates generation requests.
	Credential string

	// Model overrides the configured generation model when set.
	Model string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Index == nil {
		return ErrMissingIndexService
	}
	return nil
}
