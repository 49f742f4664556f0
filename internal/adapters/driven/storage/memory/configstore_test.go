package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = (*ConfigStore)(nil)
	assert.Equal(t, ":memory:", NewConfigStore().Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "gpt-4o-mini"))
	require.NoError(t, store.Set("llm.model", "gpt-4o"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "gpt-4o", val)

	_, ok = store.Get("llm.provider")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("index.dir", "/tmp/db"))
	require.NoError(t, store.Set("retrieval.top_k", 4))
	require.NoError(t, store.Set("chunking.size", int64(1000)))
	require.NoError(t, store.Set("embedding.batch_size", 32.0))
	require.NoError(t, store.Set("llm.temperature", 0.5))
	require.NoError(t, store.Set("embedding.requests_per_second", 3))
	require.NoError(t, store.Set("index.deduplicate", true))

	assert.Equal(t, "/tmp/db", store.GetString("index.dir"))
	assert.Equal(t, 4, store.GetInt("retrieval.top_k"))
	assert.Equal(t, 1000, store.GetInt("chunking.size"))
	assert.Equal(t, 32, store.GetInt("embedding.batch_size"))
	assert.InDelta(t, 0.5, store.GetFloat("llm.temperature"), 1e-9)
	assert.InDelta(t, 3.0, store.GetFloat("embedding.requests_per_second"), 1e-9)
	assert.True(t, store.GetBool("index.deduplicate"))
}

func TestConfigStore_TypedGetters_MissingOrWrongType(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("index.dir", 42))
	require.NoError(t, store.Set("retrieval.top_k", "four"))
	require.NoError(t, store.Set("llm.temperature", "warm"))
	require.NoError(t, store.Set("index.deduplicate", "yes"))

	assert.Empty(t, store.GetString("index.dir"))
	assert.Zero(t, store.GetInt("retrieval.top_k"))
	assert.Zero(t, store.GetFloat("llm.temperature"))
	assert.False(t, store.GetBool("index.deduplicate"))

	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_SaveAndLoadAreNoOps(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("pdf.engine", "native"))

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	assert.Equal(t, "native", store.GetString("pdf.engine"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.top_k", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("retrieval.top_k")
		}()
	}
	wg.Wait()

	_, ok := store.Get("retrieval.top_k")
	assert.True(t, ok)
}
