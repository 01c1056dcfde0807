package badger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntries(textName string, n int, dim int) []core.IndexedPassage {
	entries := make([]core.IndexedPassage, n)
	for i := range entries {
		vector := make([]float32, dim)
		vector[i%dim] = 1
		entries[i] = core.IndexedPassage{
			Passage: core.PassageRecord{
				TextName:    textName,
				Chapter:     "1",
				Verse:       fmt.Sprint(i + 1),
				Translation: fmt.Sprintf("%s verse %d", textName, i+1),
				Tradition:   "Vedic",
			},
			Vector: vector,
		}
	}
	return entries
}

func newTestRepo(t *testing.T) storage.CorpusRepository {
	t.Helper()
	repo, err := NewMemoryCorpusRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndLoadCorpus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entries := makeEntries("Bhagavad Gita", 5, 4)
	err := repo.SaveCorpus(ctx, core.Scripture{Name: "Bhagavad Gita", Tradition: "Vedic"}, entries)
	require.NoError(t, err)

	loaded, err := repo.LoadCorpus(ctx, "Bhagavad Gita")
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestLoadCorpus_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.LoadCorpus(context.Background(), "Mahabharata")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveCorpus_ReplacesPreviousContent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	scripture := core.Scripture{Name: "Upanishads", Tradition: "Vedic"}

	require.NoError(t, repo.SaveCorpus(ctx, scripture, makeEntries("Upanishads", 10, 4)))
	replacement := makeEntries("Upanishads", 3, 4)
	require.NoError(t, repo.SaveCorpus(ctx, scripture, replacement))

	loaded, err := repo.LoadCorpus(ctx, "Upanishads")
	require.NoError(t, err)
	assert.Equal(t, replacement, loaded)

	scriptures, err := repo.ListCorpora(ctx)
	require.NoError(t, err)
	require.Len(t, scriptures, 1)
	assert.Equal(t, 3, scriptures[0].Count)
}

func TestSaveCorpus_DimensionMismatch(t *testing.T) {
	repo := newTestRepo(t)
	entries := makeEntries("Rigveda", 2, 4)
	entries[1].Vector = []float32{1, 2}

	err := repo.SaveCorpus(context.Background(), core.Scripture{Name: "Rigveda"}, entries)
	assert.ErrorIs(t, err, storage.ErrDimensionMismatch)

	_, err = repo.LoadCorpus(context.Background(), "Rigveda")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveCorpus_EmptyName(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SaveCorpus(context.Background(), core.Scripture{}, nil)
	assert.ErrorIs(t, err, core.ErrInvalidPassage)
}

func TestListCorpora_CatalogOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	names := []string{"Bhagavad Gita", "Arthashastra", "Upanishads"}
	for _, name := range names {
		require.NoError(t, repo.SaveCorpus(ctx, core.Scripture{Name: name, Tradition: "Vedic"}, makeEntries(name, 2, 3)))
	}
	// Rebuilding keeps the original position.
	require.NoError(t, repo.SaveCorpus(ctx, core.Scripture{Name: "Bhagavad Gita", Tradition: "Vedic"}, makeEntries("Bhagavad Gita", 1, 3)))

	scriptures, err := repo.ListCorpora(ctx)
	require.NoError(t, err)
	require.Len(t, scriptures, 3)
	for i, name := range names {
		assert.Equal(t, name, scriptures[i].Name)
	}
	assert.Equal(t, 1, scriptures[0].Count)
	assert.Equal(t, 2, scriptures[1].Count)
}

func TestDeleteCorpus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCorpus(ctx, core.Scripture{Name: "Manusmriti"}, makeEntries("Manusmriti", 4, 2)))
	require.NoError(t, repo.DeleteCorpus(ctx, "Manusmriti"))

	_, err := repo.LoadCorpus(ctx, "Manusmriti")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	scriptures, err := repo.ListCorpora(ctx)
	require.NoError(t, err)
	assert.Empty(t, scriptures)

	assert.ErrorIs(t, repo.DeleteCorpus(ctx, "Manusmriti"), storage.ErrNotFound)
}

func TestSaveCorpus_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	repo, err := NewCorpusRepository(backend)
	require.NoError(t, err)
	entries := makeEntries("Bhagavad Gita", 3, 4)
	require.NoError(t, repo.SaveCorpus(ctx, core.Scripture{Name: "Bhagavad Gita", Tradition: "Vedic"}, entries))
	require.NoError(t, repo.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	repo, err = NewCorpusRepository(backend)
	require.NoError(t, err)
	defer repo.Close()

	loaded, err := repo.LoadCorpus(ctx, "Bhagavad Gita")
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestCorpusRepository_ConcurrentReadsDuringSave(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	scripture := core.Scripture{Name: "Bhagavad Gita"}
	require.NoError(t, repo.SaveCorpus(ctx, scripture, makeEntries("Bhagavad Gita", 8, 4)))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				loaded, err := repo.LoadCorpus(ctx, "Bhagavad Gita")
				if assert.NoError(t, err) {
					assert.Contains(t, []int{8, 5}, len(loaded))
				}
			}
		}()
	}
	require.NoError(t, repo.SaveCorpus(ctx, scripture, makeEntries("Bhagavad Gita", 5, 4)))
	wg.Wait()
}

func TestNewCorpusRepository_NilBackend(t *testing.T) {
	_, err := NewCorpusRepository(nil)
	assert.Error(t, err)
}
