package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfqa/internal/core/domain"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
	"github.com/custodia-labs/pdfqa/internal/core/ports/driving"
	"github.com/custodia-labs/pdfqa/internal/core/services"
)

// mockIndexService implements driving.IndexService.
type mockIndexService struct {
	loaded  driven.VectorStore
	loadErr error
	info    domain.IndexInfo
	err     error
}

func (m *mockIndexService) Load(context.Context) (driven.VectorStore, error) {
	return m.loaded, m.loadErr
}

func (m *mockIndexService) Upsert(
	_ context.Context, idx driven.VectorStore, _ []domain.Chunk,
) (driven.VectorStore, error) {
	return idx, m.err
}

func (m *mockIndexService) Retrieve(
	context.Context, driven.VectorStore, string, int,
) ([]domain.RetrievedChunk, error) {
	return nil, m.err
}

func (m *mockIndexService) Stats(context.Context, driven.VectorStore) (domain.IndexInfo, error) {
	return m.info, m.err
}

// mockUploadService implements driving.UploadService. Without a preset
// report every document counts as one page with two chunks.
type mockUploadService struct {
	report *domain.IngestReport
	result driven.VectorStore
	err    error

	calls int
	docs  []domain.Document
	opts  driving.UploadOptions
	idx   driven.VectorStore
}

func (m *mockUploadService) Upload(
	_ context.Context,
	idx driven.VectorStore,
	docs []domain.Document,
	opts driving.UploadOptions,
) (driven.VectorStore, domain.IngestReport, error) {
	m.calls++
	m.docs = append(m.docs, docs...)
	m.opts = opts
	m.idx = idx

	var report domain.IngestReport
	if m.report != nil {
		report = *m.report
	} else {
		for _, d := range docs {
			report.Files = append(report.Files, domain.IngestResult{Name: d.Name, Pages: 1, Chunks: 2})
			report.Chunks = append(report.Chunks,
				domain.Chunk{DocumentName: d.Name, Page: 1},
				domain.Chunk{DocumentName: d.Name, Page: 1, Position: 1},
			)
		}
	}
	if m.result != nil {
		idx = m.result
	}
	return idx, report, m.err
}

// mockAnswerService implements driving.AnswerService. An empty credential
// fails the way the real service does.
type mockAnswerService struct {
	answer  string
	sources []domain.RetrievedChunk
	err     error

	credential string
	model      string
	query      string
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
	_ driven.VectorStore, _ []domain.ConversationTurn,
) (string, []domain.RetrievedChunk, error) {
	m.credential, m.model, m.query = credential, modelID, query
	if credential == "" {
		return "", nil, domain.ErrMissingCredential
	}
	return m.answer, m.sources, m.err
}

// mockChatService implements driving.ChatService.
type mockChatService struct {
	answer string
	err    error
	idx    driven.VectorStore

	queries    []string
	credential string
	resets     int
}

func (m *mockChatService) Ask(ctx context.Context, credential, modelID, query string) (string, error) {
	answer, _, err := m.AskWithSources(ctx, credential, modelID, query)
	return answer, err
}

func (m *mockChatService) AskWithSources(
	_ context.Context, credential, _, query string,
) (string, []domain.RetrievedChunk, error) {
	m.queries = append(m.queries, query)
	m.credential = credential
	if credential == "" {
		return "", nil, domain.ErrMissingCredential
	}
	return m.answer, nil, m.err
}

func (m *mockChatService) History() []domain.ConversationTurn { return nil }
func (m *mockChatService) Reset()                             { m.resets++ }
func (m *mockChatService) SetIndex(idx driven.VectorStore)    { m.idx = idx }
func (m *mockChatService) Index() driven.VectorStore          { return m.idx }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	reloads int
}

func (m *mockPromptStore) Load(string) (string, error) { return "", nil }
func (m *mockPromptStore) Reload()                     { m.reloads++ }

// testEnv is the fake pipeline behind the commands under test.
type testEnv struct {
	index   *mockIndexService
	upload  *mockUploadService
	answer  *mockAnswerService
	chat    *mockChatService
	prompts *mockPromptStore

	settings   domain.AppSettings
	opts       PipelineOptions
	factoryErr error
	opened     int
	closed     int
}

// setupTestServices installs settings backed by memory and a fake
// pipeline, and restores the package state when the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv(services.EnvOpenAIKey, "")
	t.Setenv(services.EnvAnthropicKey, "")

	env := &testEnv{
		index:   &mockIndexService{},
		upload:  &mockUploadService{},
		answer:  &mockAnswerService{answer: "Revenue grew 12% [report.pdf p.3]."},
		chat:    &mockChatService{answer: "It grew."},
		prompts: &mockPromptStore{},
	}

	settingsService = services.NewSettingsService(memory.NewConfigStore(), nil, t.TempDir())
	promptStore = env.prompts
	newPipeline = func(_ context.Context, settings domain.AppSettings, opts PipelineOptions) (*Pipeline, error) {
		if env.factoryErr != nil {
			return nil, env.factoryErr
		}
		env.opened++
		env.settings = settings
		env.opts = opts
		return &Pipeline{
			Index:  env.index,
			Upload: env.upload,
			Answer: env.answer,
			NewChat: func(idx driven.VectorStore) driving.ChatService {
				env.chat.idx = idx
				return env.chat
			},
			Close: func() error {
				env.closed++
				return nil
			},
		}, nil
	}

	originalPrompt := promptSecret
	promptSecret = func(io.Writer, string) (string, bool) { return "", false }

	t.Cleanup(func() {
		settingsService = nil
		promptStore = nil
		newPipeline = nil
		promptSecret = originalPrompt
		resetFlags()
	})
	return env
}

// resetFlags clears flag variables that persist between Execute calls.
func resetFlags() {
	askFlags = answerFlags{}
	chatFlags = answerFlags{}
	tuiFlags = answerFlags{}
	chatFiles = nil
	tuiFiles = nil
	chatEphemeral = false
	tuiEphemeral = false
	ingestSkipDuplicates = false
	indexOutput = outputText
	watchExisting = false
	mcpPort = 0
	mcpAPIKey = ""
	mcpModel = ""
	verbose = false
}

// execute runs the root command and returns stdout, stderr and the error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// writePDF writes placeholder bytes under a temp dir and returns the path.
func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 "+name), 0o600))
	return path
}
