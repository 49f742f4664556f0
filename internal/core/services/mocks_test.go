package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// --- Mock implementations ---

var errEmbedderDown = errors.New("embedder down")

// keywordEmbedder maps text to keyword counts plus a constant bias
// dimension, so texts sharing keywords with a query score highest.
type keywordEmbedder struct {
	mu       sync.Mutex
	keywords []string
	model    string
	calls    int
	embedded int
	failOn   int // fail when the n-th text is embedded; 0 never fails
	queryErr error
}

func newKeywordEmbedder(keywords ...string) *keywordEmbedder {
	return &keywordEmbedder{keywords: keywords, model: "keyword-test"}
}

func (e *keywordEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(e.keywords)+1)
	for i, kw := range e.keywords {
		v[i] = float32(strings.Count(lower, kw))
	}
	v[len(e.keywords)] = 0.1
	return v
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.queryErr != nil {
		return nil, e.queryErr
	}
	return e.vector(text), nil
}

func (e *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		e.embedded++
		if e.failOn > 0 && e.embedded == e.failOn {
			return nil, errEmbedderDown
		}
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *keywordEmbedder) Dimensions() int              { return len(e.keywords) + 1 }
func (e *keywordEmbedder) ModelName() string            { return e.model }
func (e *keywordEmbedder) Ping(_ context.Context) error { return nil }
func (e *keywordEmbedder) Close() error                 { return nil }

func (e *keywordEmbedder) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// mockLLM implements driven.LLMService and records the last request.
type mockLLM struct {
	model    string
	reply    string
	chatErr  error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	closed   bool
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.messages = messages
	m.opts = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string            { return m.model }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error {
	m.closed = true
	return nil
}

// lastUserMessage returns the content of the final message sent.
func (m *mockLLM) lastUserMessage() string {
	if len(m.messages) == 0 {
		return ""
	}
	return m.messages[len(m.messages)-1].Content
}

// mockLLMFactory implements driven.LLMFactory and counts constructions.
type mockLLMFactory struct {
	llm      *mockLLM
	newErr   error
	calls    int
	settings domain.LLMSettings
}

func newMockLLMFactory(reply string) *mockLLMFactory {
	return &mockLLMFactory{llm: &mockLLM{reply: reply}}
}

func (f *mockLLMFactory) NewLLM(settings domain.LLMSettings) (driven.LLMService, error) {
	f.calls++
	f.settings = settings
	if f.newErr != nil {
		return nil, f.newErr
	}
	f.llm.model = settings.Model
	return f.llm, nil
}

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockPostProcessor implements driven.PostProcessor with a fixed error.
type mockPostProcessor struct {
	err error
}

func (m *mockPostProcessor) Name() string { return "mock" }

func (m *mockPostProcessor) Process(_ context.Context, _ []domain.PageSegment) ([]domain.Chunk, error) {
	return nil, m.err
}

// mockAIValidator implements driven.AIConfigValidator.
type mockAIValidator struct {
	embedding domain.EmbeddingSettings
	llm       domain.LLMSettings
	err       error
}

func (m *mockAIValidator) ValidateEmbedding(_ context.Context, settings domain.EmbeddingSettings) error {
	m.embedding = settings
	return m.err
}

func (m *mockAIValidator) ValidateLLM(_ context.Context, settings domain.LLMSettings) error {
	m.llm = settings
	return m.err
}

// mockAnswerService implements driving.AnswerService.
type mockAnswerService struct {
	reply   string
	sources []domain.RetrievedChunk
	err     error
	history []domain.ConversationTurn
	idx     driven.VectorStore
}

func (m *mockAnswerService) Answer(
	_ context.Context,
	_, _, _ string,
	idx driven.VectorStore,
	history []domain.ConversationTurn,
) (string, error) {
	m.history = history
	m.idx = idx
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockAnswerService) AnswerWithSources(
	ctx context.Context,
	credential, modelID, query string,
	idx driven.VectorStore,
	history []domain.ConversationTurn,
) (string, []domain.RetrievedChunk, error) {
	answer, err := m.Answer(ctx, credential, modelID, query, idx, history)
	if err != nil {
		return "", nil, err
	}
	return answer, m.sources, nil
}
