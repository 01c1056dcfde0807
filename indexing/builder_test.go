package indexing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/poiesic/shastra/ai"
	"github.com/poiesic/shastra/ai/mock"
	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/storage"
	"github.com/poiesic/shastra/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitaPassages(n int) []core.PassageRecord {
	passages := make([]core.PassageRecord, n)
	for i := range passages {
		passages[i] = core.PassageRecord{
			TextName:          "Bhagavad Gita",
			Chapter:           "2",
			Verse:             fmt.Sprint(i + 1),
			Translation:       fmt.Sprintf("Translation of verse %d", i+1),
			TranslationSource: "A.C. Bhaktivedanta Swami Prabhupada",
			Tradition:         "Vedic",
		}
	}
	return passages
}

func newTestBuilder(t *testing.T, provider ai.AIProvider, opts ...Option) (*Builder, storage.CorpusRepository) {
	t.Helper()
	repo, err := badger.NewMemoryCorpusRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	builder, err := NewBuilder(repo, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(builder.Release)
	return builder, repo
}

func TestNewBuilder_RequiresDependencies(t *testing.T) {
	repo, err := badger.NewMemoryCorpusRepository()
	require.NoError(t, err)
	defer repo.Close()

	_, err = NewBuilder(nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrCorpusRepositoryRequired)

	_, err = NewBuilder(repo, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewBuilder(repo, mock.NewMockProvider(), WithBatchSize(0))
	assert.Error(t, err)

	_, err = NewBuilder(repo, mock.NewMockProvider(), WithRetry(0, 0))
	assert.ErrorIs(t, err, ai.ErrInvalidMaxAttempts)
}

func TestBuild_EmbedsInBatchesAndSaves(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder, repo := newTestBuilder(t, provider, WithBatchSize(3), WithPoolSize(2))
	ctx := context.Background()

	passages := gitaPassages(7)
	scripture, err := builder.Build(ctx, core.Scripture{Name: "Bhagavad Gita"}, passages)
	require.NoError(t, err)
	assert.Equal(t, core.Scripture{Name: "Bhagavad Gita", Tradition: "Vedic", Count: 7}, scripture)

	embedder := provider.GetMockEmbedder()
	assert.Equal(t, 3, embedder.CallCount())
	assert.ElementsMatch(t, func() []string {
		texts := make([]string, len(passages))
		for i, p := range passages {
			texts[i] = p.EmbeddingText()
		}
		return texts
	}(), embedder.Texts())

	entries, err := repo.LoadCorpus(ctx, "Bhagavad Gita")
	require.NoError(t, err)
	require.Len(t, entries, 7)
	for i, entry := range entries {
		assert.Equal(t, passages[i], entry.Passage, "order preserved")
		assert.Len(t, entry.Vector, mock.DefaultDimension)
		assert.InDelta(t, 1.0, magnitude(entry.Vector), 1e-5)
	}
}

func TestBuild_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if calls.Add(1) <= 2 {
			return nil, errors.New("rate limited")
		}
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = mock.DeterministicVector(text, 8)
		}
		return out, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())
	builder, repo := newTestBuilder(t, provider, WithBatchSize(10), WithRetry(3, 0))

	_, err := builder.Build(context.Background(), core.Scripture{Name: "Bhagavad Gita"}, gitaPassages(4))
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	entries, err := repo.LoadCorpus(context.Background(), "Bhagavad Gita")
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestBuild_PermanentFailureSavesNothing(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("quota exceeded")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())
	builder, repo := newTestBuilder(t, provider, WithBatchSize(2), WithRetry(2, 0))

	_, err := builder.Build(context.Background(), core.Scripture{Name: "Bhagavad Gita"}, gitaPassages(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	_, err = repo.LoadCorpus(context.Background(), "Bhagavad Gita")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBuild_EmbeddingCountMismatch(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())
	builder, _ := newTestBuilder(t, provider, WithRetry(1, 0))

	_, err := builder.Build(context.Background(), core.Scripture{Name: "Bhagavad Gita"}, gitaPassages(3))
	assert.ErrorIs(t, err, ErrEmbeddingMismatch)
}

func TestBuild_RejectsBadInput(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder, _ := newTestBuilder(t, provider)
	ctx := context.Background()

	_, err := builder.Build(ctx, core.Scripture{Name: "Bhagavad Gita"}, nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	invalid := gitaPassages(2)
	invalid[1].Translation = ""
	_, err = builder.Build(ctx, core.Scripture{Name: "Bhagavad Gita"}, invalid)
	assert.ErrorIs(t, err, core.ErrInvalidPassage)

	duplicate := gitaPassages(3)
	duplicate[2].Verse = duplicate[0].Verse
	_, err = builder.Build(ctx, core.Scripture{Name: "Bhagavad Gita"}, duplicate)
	assert.ErrorIs(t, err, core.ErrDuplicatePassage)

	assert.Equal(t, 0, provider.GetMockEmbedder().CallCount(), "validation happens before embedding")
}

func TestBuild_CancelledContext(t *testing.T) {
	provider := mock.NewMockProvider()
	builder, _ := newTestBuilder(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := builder.Build(ctx, core.Scripture{Name: "Bhagavad Gita"}, gitaPassages(3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_ReportsProgress(t *testing.T) {
	var buf bytes.Buffer
	builder, _ := newTestBuilder(t, mock.NewMockProvider(), WithBatchSize(2), WithProgressWriter(&buf))

	_, err := builder.Build(context.Background(), core.Scripture{Name: "Bhagavad Gita"}, gitaPassages(5))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Bhagavad Gita: 5/5 (100.0%)")
}

func TestNormalizeVector(t *testing.T) {
	assert.Equal(t, []float32{0.6, 0.8}, NormalizeVector([]float32{3, 4}))
	assert.Equal(t, []float32{0, 0}, NormalizeVector([]float32{0, 0}))
	assert.Empty(t, NormalizeVector(nil))
}

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
