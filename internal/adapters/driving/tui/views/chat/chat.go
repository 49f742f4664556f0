// Package chat provides the conversational view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfqa/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/pdfqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
)

// ErrNoChatService is returned when asking without a chat service.
var ErrNoChatService = errors.New("chat: no chat service configured")

// Layout rows outside the transcript: input, status bar and spacing.
const chromeHeight = 5

// entry is one rendered exchange in the transcript.
type entry struct {
	query  string
	answer string
	err    error
}

// View is the chat view: a scrolling transcript, a question input and an
// optional panel listing the sources of the last answer.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	sources   *list.SourceList
	statusbar *status.Bar
	viewport  viewport.Model

	chat       driving.ChatService
	index      driving.IndexService
	credential string
	model      string
	ctx        context.Context

	transcript  []entry
	pending     string
	showSources bool
	thinking    bool
	width       int
	height      int
	err         error
}

// NewView creates a new chat view. index may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chat driving.ChatService,
	index driving.IndexService,
	credential, model string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		sources:    list.NewSourceList(s),
		statusbar:  status.NewBar(s, km),
		viewport:   viewport.New(80, 24-chromeHeight),
		chat:       chat,
		index:      index,
		credential: credential,
		model:      model,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
	v.refresh()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the input cursor and loads the index description.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadIndex())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QuestionSubmitted:
		return v, v.ask(msg.Query)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.IndexLoaded:
		if msg.Err != nil {
			v.setError(msg.Err)
		} else {
			v.statusbar.SetChunks(msg.Info.Count)
		}
		return v, nil

	case messages.ConversationReset:
		v.transcript = nil
		v.sources.SetSources(nil)
		v.statusbar.Clear()
		v.statusbar.SetTurns(0)
		v.statusbar.SetMessage("Conversation cleared")
		v.refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Send):
		query := strings.TrimSpace(v.input.Value())
		if query == "" || v.thinking {
			return v, nil
		}
		v.input.Reset()
		return v, func() tea.Msg { return messages.QuestionSubmitted{Query: query} }

	case keymap.Matches(key, v.keymap.Reset):
		if v.thinking {
			return v, nil
		}
		return v, v.reset()

	case keymap.Matches(key, v.keymap.Sources):
		v.showSources = !v.showSources
		v.layout()
		return v, nil

	case keymap.Matches(key, v.keymap.ScrollUp):
		v.scroll(-v.viewport.Height / 2)
		return v, nil

	case keymap.Matches(key, v.keymap.ScrollDown):
		v.scroll(v.viewport.Height / 2)
		return v, nil
	}

	if v.showSources {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp, tea.KeyDown:
			v.sources, _ = v.sources.Update(msg)
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask runs the question against the chat service off the update loop.
func (v *View) ask(query string) tea.Cmd {
	v.thinking = true
	v.pending = query
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateThinking)
	v.refresh()

	chat, ctx, credential, model := v.chat, v.ctx, v.credential, v.model
	return func() tea.Msg {
		if chat == nil {
			return messages.AnswerReceived{Query: query, Err: ErrNoChatService}
		}
		answer, sources, err := chat.AskWithSources(ctx, credential, model, query)
		return messages.AnswerReceived{Query: query, Answer: answer, Sources: sources, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.thinking = false
	v.pending = ""
	v.transcript = append(v.transcript, entry{query: msg.Query, answer: msg.Answer, err: msg.Err})

	if msg.Err != nil {
		v.setError(msg.Err)
	} else {
		v.err = nil
		v.statusbar.Clear()
		v.sources.SetSources(msg.Sources)
	}
	if v.chat != nil {
		v.statusbar.SetTurns(len(v.chat.History()) / 2)
	}
	v.refresh()
	v.viewport.GotoBottom()
}

func (v *View) reset() tea.Cmd {
	if v.chat != nil {
		v.chat.Reset()
	}
	return func() tea.Msg { return messages.ConversationReset{} }
}

func (v *View) loadIndex() tea.Cmd {
	if v.index == nil || v.chat == nil {
		return nil
	}
	index, ctx, idx := v.index, v.ctx, v.chat.Index()
	return func() tea.Msg {
		info, err := index.Stats(ctx, idx)
		return messages.IndexLoaded{Info: info, Err: err}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// scroll moves the transcript by delta lines, clamped to the content.
func (v *View) scroll(delta int) {
	v.viewport.SetYOffset(v.viewport.YOffset + delta)
}

// refresh re-renders the transcript into the viewport.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
}

func (v *View) renderTranscript() string {
	if len(v.transcript) == 0 && v.pending == "" {
		return v.styles.Muted.Render("Ask a question about your indexed PDFs.")
	}

	wrap := lipgloss.NewStyle().Width(v.viewport.Width)
	var b strings.Builder
	for _, e := range v.transcript {
		b.WriteString(v.styles.Question.Render("You: " + e.query))
		b.WriteString("\n")
		if e.err != nil {
			b.WriteString(v.styles.Error.Render("Error: " + e.err.Error()))
		} else {
			b.WriteString(wrap.Render(v.styles.Answer.Render(e.answer)))
		}
		b.WriteString("\n\n")
	}
	if v.pending != "" {
		b.WriteString(v.styles.Question.Render("You: " + v.pending))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Thinking..."))
	}
	return strings.TrimRight(b.String(), "\n")
}

// View renders the chat view.
func (v *View) View() string {
	body := v.viewport.View()
	if v.showSources {
		panel := v.styles.Border.Render(
			v.styles.Subtitle.Render("Sources") + "\n" + v.sources.View(),
		)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		body,
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions and lays out the children.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.layout()
}

func (v *View) layout() {
	body := v.height - chromeHeight
	if body < 3 {
		body = 3
	}

	transcriptWidth := v.width
	if v.showSources {
		transcriptWidth = v.width * 3 / 5
		v.sources.SetDimensions(v.width-transcriptWidth-4, body-3)
	}
	if transcriptWidth < 20 {
		transcriptWidth = 20
	}

	v.viewport.Width = transcriptWidth
	v.viewport.Height = body
	v.input.SetWidth(v.width)
	v.statusbar.SetWidth(v.width)
	v.refresh()
}

// Thinking reports whether a question is in flight.
func (v *View) Thinking() bool {
	return v.thinking
}

// ShowingSources reports whether the sources panel is visible.
func (v *View) ShowingSources() bool {
	return v.showSources
}

// Sources returns the sources of the last successful answer.
func (v *View) Sources() []domain.RetrievedChunk {
	return v.sources.Sources()
}

// Transcript returns the number of exchanges shown.
func (v *View) Transcript() int {
	return len(v.transcript)
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}
