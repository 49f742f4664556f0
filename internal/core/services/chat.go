package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService keeps one conversation and the index it is asked against.
type ChatService struct {
	mu           sync.Mutex
	answers      driving.AnswerService
	idx          driven.VectorStore
	conversation domain.Conversation
}

// NewChatService creates a chat session over idx, which may be nil.
func NewChatService(answers driving.AnswerService, idx driven.VectorStore) *ChatService {
	return &ChatService{
		answers: answers,
		idx:     idx,
	}
}

// Ask answers query with the current history. The exchange is recorded
// only when the answer succeeds.
func (s *ChatService) Ask(ctx context.Context, credential, modelID, query string) (string, error) {
	answer, _, err := s.AskWithSources(ctx, credential, modelID, query)
	return answer, err
}

// AskWithSources behaves like Ask and also returns the retrieved chunks.
func (s *ChatService) AskWithSources(
	ctx context.Context,
	credential, modelID, query string,
) (string, []domain.RetrievedChunk, error) {
	s.mu.Lock()
	idx := s.idx
	history := s.conversation.Turns()
	s.mu.Unlock()

	answer, sources, err := s.answers.AnswerWithSources(ctx, credential, modelID, query, idx, history)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	s.conversation.Append(
		domain.ConversationTurn{Role: domain.RoleUser, Content: query},
		domain.ConversationTurn{Role: domain.RoleAssistant, Content: answer},
	)
	s.mu.Unlock()

	return answer, sources, nil
}

// History returns a copy of the conversation so far.
func (s *ChatService) History() []domain.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.Turns()
}

// Reset clears the conversation.
func (s *ChatService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversation.Reset()
}

// SetIndex replaces the index handle used for retrieval.
func (s *ChatService) SetIndex(idx driven.VectorStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx = idx
}

// Index returns the current index handle.
func (s *ChatService) Index() driven.VectorStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}
