//go:build !fitz

package pdf

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// Ensure FitzExtractor implements the interface.
var _ driven.PDFExtractor = (*FitzExtractor)(nil)

// FitzExtractor is a stub for builds without the fitz tag.
type FitzExtractor struct{}

// NewFitz reports that MuPDF support was not compiled in.
func NewFitz() (*FitzExtractor, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags fitz to enable the MuPDF engine", domain.ErrNotImplemented)
}

// Name returns the engine name.
func (e *FitzExtractor) Name() string {
	return "fitz"
}

// Extract always fails in stub builds.
func (e *FitzExtractor) Extract(_ context.Context, _ string) ([]string, error) {
	return nil, domain.ErrNotImplemented
}
