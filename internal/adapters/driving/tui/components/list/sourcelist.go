// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// minPreviewLen keeps previews readable in narrow panels.
const minPreviewLen = 20

// SourceList displays the chunks an answer was built from.
type SourceList struct {
	sources  []domain.RetrievedChunk
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSourceList creates an empty source list.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the source list.
func (r *SourceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the visible window of sources around the selection.
func (r *SourceList) View() string {
	if len(r.sources) == 0 {
		return r.styles.Muted.Render("No sources")
	}

	// Each entry takes two lines.
	visible := r.height / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.sources) {
		end = len(r.sources)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteString("\n")
		}
		b.WriteString(r.renderSource(i))
	}
	return b.String()
}

func (r *SourceList) renderSource(index int) string {
	src := r.sources[index]

	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	header := fmt.Sprintf("%s[%d] %s, page %d", indicator, index+1, src.Chunk.DocumentName, src.Chunk.Page)
	score := fmt.Sprintf("%.2f", src.Score)

	var headerLine string
	if index == r.selected {
		headerLine = r.styles.Title.Render(header) + "  " + r.styles.Muted.Render(score)
	} else {
		headerLine = r.styles.Source.Render(header) + "  " + r.styles.Muted.Render(score)
	}

	maxPreviewLen := r.width - 6
	if maxPreviewLen < minPreviewLen {
		maxPreviewLen = minPreviewLen
	}
	preview := strings.Join(strings.Fields(src.Chunk.Content), " ")
	if runes := []rune(preview); len(runes) > maxPreviewLen {
		preview = string(runes[:maxPreviewLen-3]) + "..."
	}

	return headerLine + "\n" + r.styles.Muted.Render("    "+preview)
}

// SetSources replaces the list contents and resets the selection.
func (r *SourceList) SetSources(sources []domain.RetrievedChunk) {
	r.sources = sources
	r.selected = 0
}

// Sources returns the current sources.
func (r *SourceList) Sources() []domain.RetrievedChunk {
	return r.sources
}

// Selected returns the index of the selected source.
func (r *SourceList) Selected() int {
	return r.selected
}

// SelectedSource returns the selected source, or nil if the list is empty.
func (r *SourceList) SelectedSource() *domain.RetrievedChunk {
	if r.selected < 0 || r.selected >= len(r.sources) {
		return nil
	}
	return &r.sources[r.selected]
}

// MoveUp moves selection up.
func (r *SourceList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *SourceList) MoveDown() {
	if r.selected < len(r.sources)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *SourceList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of sources.
func (r *SourceList) Count() int {
	return len(r.sources)
}

// IsEmpty returns whether the list is empty.
func (r *SourceList) IsEmpty() bool {
	return len(r.sources) == 0
}
