package pdf

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/normalisers/pdf/pdftest"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.PDFExtractor = (*NativeExtractor)(nil)
	assert.Equal(t, "native", NewNative().Name())
}

func TestNativeExtractor_PagesInOrder(t *testing.T) {
	path := pdftest.WriteFile(t, "report.pdf",
		"Introduction to the annual report",
		"Revenue grew 20% in Q3",
		"Outlook (next year)",
	)

	pages, err := NewNative().Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Contains(t, pages[0], "Introduction")
	assert.Contains(t, pages[1], "Revenue grew 20% in Q3")
	assert.Contains(t, pages[2], "Outlook (next year)")
}

func TestNativeExtractor_EmptyPage(t *testing.T) {
	path := pdftest.WriteFile(t, "blank.pdf", "first", "", "third")

	pages, err := NewNative().Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Empty(t, strings.TrimSpace(pages[1]))
	assert.Contains(t, pages[2], "third")
}

func TestNativeExtractor_ParseErrors(t *testing.T) {
	valid := pdftest.Build("hello", "world")

	tests := []struct {
		name    string
		content []byte
	}{
		{"not a pdf", []byte("this is plain text, not a PDF")},
		{"empty file", []byte{}},
		{"truncated", valid[:len(valid)/3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.pdf")
			require.NoError(t, os.WriteFile(path, tt.content, 0o600))

			pages, err := NewNative().Extract(context.Background(), path)
			assert.ErrorIs(t, err, domain.ErrDocumentParse)
			assert.Nil(t, pages)
		})
	}
}

func TestNativeExtractor_MissingFile(t *testing.T) {
	_, err := NewNative().Extract(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	assert.ErrorIs(t, err, domain.ErrDocumentParse)
}

func TestNativeExtractor_Cancelled(t *testing.T) {
	path := pdftest.WriteFile(t, "a.pdf", "one")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewNative().Extract(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
