package reembed

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/shastra/ai/mock"
	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/indexing"
	"github.com/poiesic/shastra/storage"
	"github.com/poiesic/shastra/storage/badger"
)

func setupTestRepo(t *testing.T) storage.CorpusRepository {
	t.Helper()
	repo, err := badger.NewMemoryCorpusRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seed(t *testing.T, repo storage.CorpusRepository, name string, verses ...string) {
	t.Helper()
	entries := make([]core.IndexedPassage, len(verses))
	for i, v := range verses {
		entries[i] = core.IndexedPassage{
			Passage: core.PassageRecord{
				TextName:    name,
				Chapter:     "1",
				Verse:       v,
				Translation: name + " verse " + v,
				Tradition:   "Vedic",
			},
			Vector: []float32{1, 0, 0},
		}
	}
	require.NoError(t, repo.SaveCorpus(context.Background(), core.Scripture{Name: name, Tradition: "Vedic"}, entries))
}

func newReembedder(t *testing.T, repo storage.CorpusRepository, embedder *mock.MockEmbedder, buf *bytes.Buffer) *Reembedder {
	t.Helper()
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())
	builder, err := indexing.NewBuilder(repo, provider, indexing.WithBatchSize(2), indexing.WithRetry(1, 0))
	require.NoError(t, err)
	t.Cleanup(builder.Release)

	r, err := NewReembedder(repo, builder, buf)
	require.NoError(t, err)
	return r
}

func TestNewReembedder_RequiresCollaborators(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := NewReembedder(nil, nil, nil)
	assert.ErrorIs(t, err, ErrCorpusRepositoryRequired)

	_, err = NewReembedder(repo, nil, nil)
	assert.ErrorIs(t, err, ErrBuilderRequired)
}

func TestReembedder_Run(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	seed(t, repo, "Bhagavad Gita", "1", "2", "3")
	seed(t, repo, "Upanishads", "1", "2")

	var buf bytes.Buffer
	embedder := mock.NewMockEmbedder()
	r := newReembedder(t, repo, embedder, &buf)

	rebuilt, err := r.Run(ctx)
	require.NoError(t, err)
	require.Len(t, rebuilt, 2)
	assert.Equal(t, "Bhagavad Gita", rebuilt[0].Name)
	assert.Equal(t, 3, rebuilt[0].Count)
	assert.Len(t, embedder.Texts(), 5)

	entries, err := repo.LoadCorpus(ctx, "Upanishads")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Len(t, e.Vector, mock.DefaultDimension)
		var magnitude float32
		for _, v := range e.Vector {
			magnitude += v * v
		}
		assert.InDelta(t, 1.0, magnitude, 0.01, "vector should be normalized")
	}
	assert.Equal(t, "Upanishads verse 1", entries[0].Passage.Translation)

	scriptures, err := repo.ListCorpora(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bhagavad Gita", "Upanishads"}, []string{scriptures[0].Name, scriptures[1].Name})

	assert.Contains(t, buf.String(), "Reembedding complete. Processed 5 passages")
}

func TestReembedder_Selected(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	seed(t, repo, "Bhagavad Gita", "1", "2", "3")
	seed(t, repo, "Upanishads", "1", "2")

	embedder := mock.NewMockEmbedder()
	r := newReembedder(t, repo, embedder, nil)

	rebuilt, err := r.Run(ctx, "Upanishads")
	require.NoError(t, err)
	require.Len(t, rebuilt, 1)
	assert.Len(t, embedder.Texts(), 2)

	gita, err := repo.LoadCorpus(ctx, "Bhagavad Gita")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, gita[0].Vector)
}

func TestReembedder_UnknownName(t *testing.T) {
	repo := setupTestRepo(t)
	seed(t, repo, "Bhagavad Gita", "1")

	embedder := mock.NewMockEmbedder()
	r := newReembedder(t, repo, embedder, nil)

	_, err := r.Run(context.Background(), "Vedas")
	assert.ErrorIs(t, err, core.ErrScriptureNotFound)
	assert.Zero(t, embedder.CallCount())
}

func TestReembedder_EmptyStore(t *testing.T) {
	var buf bytes.Buffer
	r := newReembedder(t, setupTestRepo(t), mock.NewMockEmbedder(), &buf)

	rebuilt, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rebuilt)
	assert.Contains(t, buf.String(), "0 corpora")
}
