package shastra

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/shastra/ai"
	"github.com/poiesic/shastra/ai/mock"
	"github.com/poiesic/shastra/config"
	"github.com/poiesic/shastra/convert"
	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/indexing"
	"github.com/poiesic/shastra/rag"
)

const upanishadsJSON = `[
  {"text_name": "", "chapter": "1", "verse": "1", "translation": "All this is pervaded by the Lord.", "translation_source": "Swami Nikhilananda"},
  {"text_name": "", "chapter": "1", "verse": "2", "translation": "Performing works here, one should wish to live a hundred years."},
  {"text_name": "", "chapter": "2", "verse": "1", "translation": "The Self is one, unmoving, swifter than the mind."}
]`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	source := filepath.Join(t.TempDir(), "upanishads.json")
	require.NoError(t, os.WriteFile(source, []byte(upanishadsJSON), 0o644))

	cfg := config.Default()
	cfg.StorePath = filepath.Join(t.TempDir(), "store")
	cfg.Index.PoolSize = 2
	cfg.Index.RetryDelay = 0
	cfg.Texts = []config.TextConfig{
		{Name: "Upanishads", Tradition: "Vedic", Source: source, Converter: "json"},
	}
	return cfg
}

func TestOpen(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		s, err := Open(context.Background(), testConfig(t), WithAIProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		defer s.Close()

		assert.NotNil(t, s.Store())
		assert.Empty(t, s.Store().Names())
		assert.NotNil(t, s.CorpusRepository())
		assert.NotNil(t, s.Config())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.StorePath = filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(cfg.StorePath, []byte("test"), 0o644))

		s, err := Open(context.Background(), cfg, WithAIProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, s)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Texts = append(cfg.Texts, cfg.Texts[0])

		_, err := Open(context.Background(), cfg, WithInMemoryStore(), WithAIProvider(mock.NewMockProvider()))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestBuildReloadAndAnswer(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	s, err := Open(ctx, cfg, WithInMemoryStore(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer s.Close()

	builder, err := s.NewBuilder()
	require.NoError(t, err)
	defer builder.Release()

	scripture, err := s.BuildText(ctx, builder, convert.NewRegistry(), cfg.Texts[0])
	require.NoError(t, err)
	assert.Equal(t, core.Scripture{Name: "Upanishads", Tradition: "Vedic", Count: 3}, scripture)

	assert.Empty(t, s.Store().Names())
	stale, err := s.NewPipeline()
	require.NoError(t, err)

	require.NoError(t, s.Reload(ctx))
	assert.Equal(t, []string{"Upanishads"}, s.Store().Names())
	assert.Equal(t, 3, s.Store().TotalPassages())
	assert.Empty(t, stale.Store().Names())

	pipeline, err := s.NewPipeline(rag.WithThreshold(-1))
	require.NoError(t, err)

	result, err := pipeline.Answer(ctx, &core.QueryRequest{
		Question:   "What is the Self?",
		TextFilter: "Upanishads",
	})
	require.NoError(t, err)
	assert.Equal(t, rag.OutcomeAnswered, result.Outcome)
	require.Len(t, result.Response.Verses, 3)
	for _, v := range result.Response.Verses {
		assert.Equal(t, "Upanishads", v.Passage.TextName)
		assert.Equal(t, "Vedic", v.Passage.Tradition)
	}
}

func TestReload_ConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, testConfig(t), WithInMemoryStore(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer s.Close()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_, err := s.NewPipeline()
				assert.NoError(t, err)
				assert.NotNil(t, s.Store())
			}
		}()
	}
	for range 10 {
		require.NoError(t, s.Reload(ctx))
	}
	wg.Wait()
}

func TestBuildText_UnknownConverter(t *testing.T) {
	cfg := testConfig(t)
	s, err := Open(context.Background(), cfg, WithInMemoryStore(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer s.Close()

	builder, err := s.NewBuilder(indexing.WithBatchSize(1))
	require.NoError(t, err)
	defer builder.Release()

	text := cfg.Texts[0]
	text.Converter = "sanskrit"
	_, err = s.BuildText(context.Background(), builder, convert.NewRegistry(), text)
	assert.ErrorIs(t, err, convert.ErrUnknownConverter)
}

func TestNewProvider(t *testing.T) {
	t.Run("openai", func(t *testing.T) {
		p, err := NewProvider(context.Background(), ai.DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, p.Embedder())
		assert.NoError(t, p.Close())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewProvider(context.Background(), ai.NewConfig(ai.WithProvider("claude")))
		assert.Error(t, err)
	})
}
