// Package messages defines Bubbletea message types for the chat view.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// QuestionSubmitted is sent when the user asks a question.
type QuestionSubmitted struct {
	Query string
}

// AnswerReceived carries the outcome of a question back to the model.
type AnswerReceived struct {
	Query   string
	Answer  string
	Sources []domain.RetrievedChunk
	Err     error
}

// IndexLoaded carries the index description shown in the status bar.
type IndexLoaded struct {
	Info domain.IndexInfo
	Err  error
}

// ConversationReset signals the history was cleared.
type ConversationReset struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
