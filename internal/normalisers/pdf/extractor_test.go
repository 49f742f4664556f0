package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

func TestNew_Engines(t *testing.T) {
	native, err := New(domain.PDFEngineNative)
	require.NoError(t, err)
	assert.Equal(t, "native", native.Name())

	defaulted, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "native", defaulted.Name())

	_, err = New("poppler")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestNormaliseWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", " \t\r\n \n", ""},
		{"tabs and spaces", "a\t\tb   c", "a b c"},
		{"crlf runs", "line one\r\n\r\n\r\nline two", "line one\nline two"},
		{"bare cr", "a\rb", "a\nb"},
		{"trims line edges", "  padded  \n  text ", "padded\ntext"},
		{"unicode kept", "ação\t€", "ação €"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormaliseWhitespace(tt.input))
		})
	}
}
