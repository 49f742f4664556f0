package mcp

import (
	"context"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	chunks []domain.RetrievedChunk
	info   domain.IndexInfo
	err    error

	lastQuery  string
	lastK      int
	lastHandle driven.VectorStore
}

func (m *mockIndexService) Load(_ context.Context) (driven.VectorStore, error) {
	return nil, m.err
}

func (m *mockIndexService) Upsert(
	_ context.Context, idx driven.VectorStore, _ []domain.Chunk,
) (driven.VectorStore, error) {
	return idx, m.err
}

func (m *mockIndexService) Retrieve(
	_ context.Context, idx driven.VectorStore, query string, k int,
) ([]domain.RetrievedChunk, error) {
	m.lastQuery, m.lastK, m.lastHandle = query, k, idx
	return m.chunks, m.err
}

func (m *mockIndexService) Stats(_ context.Context, _ driven.VectorStore) (domain.IndexInfo, error) {
	return m.info, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer  string
	sources []domain.RetrievedChunk
	err     error

	credential string
	model      string
	query      string
	history    []domain.ConversationTurn
}

func (m *mockAnswerService) Answer(
	ctx context.Context, credential, modelID, query string,
	idx driven.VectorStore, history []domain.ConversationTurn,
) (string, error) {
	answer, _, err := m.AnswerWithSources(ctx, credential, modelID, query, idx, history)
	return answer, err
}

func (m *mockAnswerService) AnswerWithSources(
	_ context.Context, credential, modelID, query string,
	_ driven.VectorStore, history []domain.ConversationTurn,
) (string, []domain.RetrievedChunk, error) {
	m.credential, m.model, m.query, m.history = credential, modelID, query, history
	return m.answer, m.sources, m.err
}

func retrieved(doc string, page int, score float64, content string) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		Chunk: domain.Chunk{DocumentName: doc, Page: page, Content: content},
		Score: score,
	}
}
