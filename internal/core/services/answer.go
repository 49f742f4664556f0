package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
	"github.com/custodia-labs/pdfqa/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// noContext replaces the context block when retrieval found nothing.
const noContext = "(no context available)"

// AnswerService answers questions from retrieved index passages.
// It holds no state between calls.
type AnswerService struct {
	index    driving.IndexService
	llms     driven.LLMFactory
	prompts  driven.PromptStore
	settings domain.LLMSettings
	topK     int
}

// NewAnswerService creates a new answer service.
// settings selects the generation provider, default model and temperature;
// its APIKey is ignored in favour of the per-call credential.
// The prompts parameter is optional (can be nil).
func NewAnswerService(
	index driving.IndexService,
	llms driven.LLMFactory,
	prompts driven.PromptStore,
	settings domain.LLMSettings,
	topK int,
) *AnswerService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &AnswerService{
		index:    index,
		llms:     llms,
		prompts:  prompts,
		settings: settings,
		topK:     topK,
	}
}

// Answer retrieves context for query and asks the language model.
func (s *AnswerService) Answer(
	ctx context.Context,
	credential, modelID, query string,
	idx driven.VectorStore,
	history []domain.ConversationTurn,
) (string, error) {
	answer, _, err := s.AnswerWithSources(ctx, credential, modelID, query, idx, history)
	return answer, err
}

// AnswerWithSources is Answer that also returns the retrieved chunks.
func (s *AnswerService) AnswerWithSources(
	ctx context.Context,
	credential, modelID, query string,
	idx driven.VectorStore,
	history []domain.ConversationTurn,
) (string, []domain.RetrievedChunk, error) {
	logger.Section("Answer")

	credential = strings.TrimSpace(credential)
	if s.settings.Provider.RequiresAPIKey() && credential == "" {
		return "", nil, fmt.Errorf("%w: %s API key", domain.ErrMissingCredential, s.settings.Provider)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	chunks, err := s.index.Retrieve(ctx, idx, query, s.topK)
	if err != nil {
		return "", nil, err
	}
	logger.Debug("Context: %d chunks", len(chunks))

	settings := s.settings
	settings.APIKey = credential
	if modelID = strings.TrimSpace(modelID); modelID != "" {
		settings.Model = modelID
	}

	llm, err := s.llms.NewLLM(settings)
	if err != nil {
		return "", chunks, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	defer llm.Close()

	logger.Debug("Generating with %s/%s", settings.Provider, llm.ModelName())
	messages := s.buildMessages(query, chunks, history)
	answer, err := llm.Chat(ctx, messages, driven.ChatOptions{Temperature: &settings.Temperature})
	if err != nil {
		return "", chunks, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	return strings.TrimSpace(answer), chunks, nil
}

// buildMessages orders the prompt as system instruction, history, then
// one user message with the context block and the question.
func (s *AnswerService) buildMessages(
	query string,
	chunks []domain.RetrievedChunk,
	history []domain.ConversationTurn,
) []driven.ChatMessage {
	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: driven.RoleSystem, Content: s.systemPrompt()})

	for _, turn := range history {
		messages = append(messages, driven.ChatMessage{Role: string(turn.Role), Content: turn.Content})
	}

	var b strings.Builder
	b.WriteString("Context:\n")
	b.WriteString(FormatContext(chunks))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(query)

	return append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: b.String()})
}

func (s *AnswerService) systemPrompt() string {
	if s.prompts == nil {
		return domain.DefaultAnswerSystemPrompt
	}
	prompt, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil || strings.TrimSpace(prompt) == "" {
		logger.Warn("Using built-in answer prompt: %v", err)
		return domain.DefaultAnswerSystemPrompt
	}
	return prompt
}

// FormatContext renders retrieved chunks as numbered sections headed
// "[n] <document>, page <p>".
func FormatContext(chunks []domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return noContext
	}

	sections := make([]string, len(chunks))
	for i, rc := range chunks {
		sections[i] = fmt.Sprintf("[%d] %s, page %d\n%s", i+1, rc.Chunk.DocumentName, rc.Chunk.Page, rc.Chunk.Content)
	}
	return strings.Join(sections, "\n\n")
}
