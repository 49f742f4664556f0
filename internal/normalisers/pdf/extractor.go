package pdf

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// New returns the extractor for the given engine.
func New(engine domain.PDFEngine) (driven.PDFExtractor, error) {
	switch engine {
	case domain.PDFEngineNative, "":
		return NewNative(), nil
	case domain.PDFEngineFitz:
		extractor, err := NewFitz()
		if err != nil {
			return nil, err
		}
		return extractor, nil
	default:
		return nil, fmt.Errorf("%w: pdf engine %q", domain.ErrUnsupportedType, engine)
	}
}

// NormaliseWhitespace collapses runs of spaces and tabs to a single space,
// drops blank lines and unifies line endings to a single "\n".
func NormaliseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if fields := strings.Fields(line); len(fields) > 0 {
			out = append(out, strings.Join(fields, " "))
		}
	}
	return strings.Join(out, "\n")
}

// parseError wraps err so it matches domain.ErrDocumentParse.
func parseError(engine string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrDocumentParse, engine, err)
}
