// Package chunker provides a sliding-window text chunking processor.
package chunker

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// chunkNamespace scopes chunk IDs so they never collide with other name-based UUIDs.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/custodia-labs/pdfqa/chunk"))

// Processor splits page text into overlapping fixed-size windows.
// Sizes are counted in runes so multi-byte characters are never split.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must leave a positive stride.
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits every segment independently, so no chunk spans two pages.
// Output is in page order, then left to right within a page.
func (p *Processor) Process(ctx context.Context, segments []domain.PageSegment) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, p.split(seg)...)
	}
	return chunks, nil
}

// split cuts one page. Windows start at 0, stride, 2*stride and so on; the
// window that reaches the end of the text is the last one.
func (p *Processor) split(seg domain.PageSegment) []domain.Chunk {
	text := []rune(strings.TrimSpace(seg.Text))
	if len(text) == 0 {
		return nil
	}

	stride := p.chunkSize - p.overlap
	chunks := make([]domain.Chunk, 0, len(text)/stride+1)

	for start, position := 0, 0; ; start, position = start+stride, position+1 {
		end := min(start+p.chunkSize, len(text))
		content := string(text[start:end])

		chunks = append(chunks, domain.Chunk{
			ID:           chunkID(seg.DocumentName, seg.Page, position, content),
			DocumentName: seg.DocumentName,
			Page:         seg.Page,
			Position:     position,
			Content:      content,
		})

		if end == len(text) {
			break
		}
	}

	return chunks
}

// chunkID derives a stable identifier from the chunk's origin and content.
func chunkID(document string, page, position int, content string) string {
	var b strings.Builder
	b.WriteString(document)
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(page))
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(position))
	b.WriteByte(0)
	b.WriteString(content)
	return uuid.NewSHA1(chunkNamespace, []byte(b.String())).String()
}
