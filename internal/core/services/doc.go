// Package services implements the driving port interfaces.
// Services contain the question-answering pipeline and orchestrate
// calls to driven ports (adapters):
//
//   - IngestService: PDF bytes to page segments and chunks
//   - IndexService: embedding and the persistent vector index
//   - AnswerService: retrieval-augmented generation
//   - ChatService: conversation history around AnswerService
//   - UploadService: the full write path for a batch of files
//   - SettingsService: configuration with defaults and env overrides
//
// Services are pure Go with no CGO or external dependencies.
package services
