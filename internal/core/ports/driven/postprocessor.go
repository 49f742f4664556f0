package driven

import (
	"context"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// PostProcessor turns extracted page segments into chunks.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process splits each segment into chunks, preserving page order.
	Process(ctx context.Context, segments []domain.PageSegment) ([]domain.Chunk, error)
}
