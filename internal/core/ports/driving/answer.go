package driving

import (
	"context"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// AnswerService produces grounded answers from the vector index.
type AnswerService interface {
	// Answer retrieves context for query and asks the language model.
	// An empty modelID selects the configured default model.
	Answer(
		ctx context.Context,
		credential, modelID, query string,
		idx driven.VectorStore,
		history []domain.ConversationTurn,
	) (string, error)

	// AnswerWithSources is Answer that also returns the retrieved chunks.
	AnswerWithSources(
		ctx context.Context,
		credential, modelID, query string,
		idx driven.VectorStore,
		history []domain.ConversationTurn,
	) (string, []domain.RetrievedChunk, error)
}

// ChatService keeps the conversation history of one session.
type ChatService interface {
	// Ask answers query with the current history and records the exchange on success.
	Ask(ctx context.Context, credential, modelID, query string) (string, error)

	// AskWithSources is Ask that also returns the chunks the answer was built from.
	AskWithSources(ctx context.Context, credential, modelID, query string) (string, []domain.RetrievedChunk, error)

	// History returns a copy of the conversation so far.
	History() []domain.ConversationTurn

	// Reset clears the conversation.
	Reset()

	// SetIndex replaces the index handle used for retrieval.
	SetIndex(idx driven.VectorStore)

	// Index returns the current index handle, which may be nil.
	Index() driven.VectorStore
}
