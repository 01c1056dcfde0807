// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/storage"
)

// CorpusRepository implements storage.CorpusRepository for BadgerDB.
//
// Passages are written under a fresh generation prefix with a WriteBatch,
// then the manifest is switched to that generation in a single transaction.
// Superseded generations are deleted afterwards.
type CorpusRepository struct {
	backend *Backend
	logger  *slog.Logger

	// writeMu serializes writers so generation and ordinal assignment
	// cannot race. Readers never take it.
	writeMu sync.Mutex
}

var _ storage.CorpusRepository = (*CorpusRepository)(nil)

func newCorpusRepository(backend *Backend) *CorpusRepository {
	return &CorpusRepository{
		backend: backend,
		logger:  slog.Default().With("component", "corpus-repository"),
	}
}

// NewCorpusRepository creates a corpus repository on top of an open backend.
// The repository owns the backend: Close closes both.
func NewCorpusRepository(backend *Backend) (storage.CorpusRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is nil")
	}
	return newCorpusRepository(backend), nil
}

// Close closes the underlying backend.
func (r *CorpusRepository) Close() error {
	return r.backend.Close()
}

// SaveCorpus replaces the content of the named scripture.
func (r *CorpusRepository) SaveCorpus(ctx context.Context, scripture core.Scripture, entries []core.IndexedPassage) error {
	if scripture.Name == "" {
		return fmt.Errorf("%w: scripture name is empty", core.ErrInvalidPassage)
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	var dim uint64
	for i := range entries {
		if i == 0 {
			dim = uint64(len(entries[i].Vector))
			continue
		}
		if uint64(len(entries[i].Vector)) != dim {
			return fmt.Errorf("%w: entry %d has %d values, expected %d",
				storage.ErrDimensionMismatch, i, len(entries[i].Vector), dim)
		}
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	previous, err := r.readManifest(scripture.Name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	manifest := &storage.CorpusManifest{
		Scripture: core.Scripture{
			Name:      scripture.Name,
			Tradition: scripture.Tradition,
			Count:     len(entries),
		},
		Dimension: dim,
	}
	if previous != nil {
		manifest.Ordinal = previous.Ordinal
		manifest.Generation = previous.Generation + 1
	} else {
		ordinal, err := r.nextOrdinal()
		if err != nil {
			return err
		}
		manifest.Ordinal = ordinal
		manifest.Generation = 1
	}

	// Write passages under the new generation. Nothing points at it yet.
	wb := r.backend.NewWriteBatch()
	for i := range entries {
		if err := ctx.Err(); err != nil {
			wb.Cancel()
			return err
		}
		key := makePassageKey(scripture.Name, manifest.Generation, uint64(i))
		if err := wb.Set(key, storage.MarshalIndexedPassage(&entries[i])); err != nil {
			wb.Cancel()
			return err
		}
	}
	if err := wb.Flush(); err != nil {
		return err
	}

	// Switch the manifest.
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeManifestKey(scripture.Name), storage.MarshalManifest(manifest)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		r.deleteGeneration(scripture.Name, manifest.Generation)
		return err
	}

	r.logger.Info("saved corpus",
		"scripture", scripture.Name,
		"entries", len(entries),
		"generation", manifest.Generation)

	if previous != nil {
		r.deleteGeneration(scripture.Name, previous.Generation)
	}
	return nil
}

// ListCorpora returns the stored scriptures ordered by ordinal.
func (r *CorpusRepository) ListCorpora(ctx context.Context) ([]core.Scripture, error) {
	manifests, err := r.readManifests()
	if err != nil {
		return nil, err
	}
	slices.SortFunc(manifests, func(a, b *storage.CorpusManifest) int {
		switch {
		case a.Ordinal < b.Ordinal:
			return -1
		case a.Ordinal > b.Ordinal:
			return 1
		}
		return 0
	})

	scriptures := make([]core.Scripture, len(manifests))
	for i, m := range manifests {
		scriptures[i] = m.Scripture
	}
	return scriptures, nil
}

// LoadCorpus returns the passages of the named scripture in save order.
func (r *CorpusRepository) LoadCorpus(ctx context.Context, name string) ([]core.IndexedPassage, error) {
	var entries []core.IndexedPassage

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		manifest, err := readManifest(tx, name)
		if err != nil {
			return err
		}
		entries = make([]core.IndexedPassage, 0, manifest.Scripture.Count)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeGenerationPrefix(name, manifest.Generation)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				entry, err := storage.UnmarshalIndexedPassage(val)
				if err != nil {
					return err
				}
				entries = append(entries, *entry)
				return nil
			})
			if err != nil {
				return err
			}
		}

		if len(entries) != manifest.Scripture.Count {
			return fmt.Errorf("%w: corpus %q has %d passages, manifest records %d",
				storage.ErrTruncatedData, name, len(entries), manifest.Scripture.Count)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteCorpus removes the manifest and every passage of the named scripture.
func (r *CorpusRepository) DeleteCorpus(ctx context.Context, name string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	manifest, err := r.readManifest(name)
	if err != nil {
		return err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeManifestKey(name)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	r.deleteGeneration(name, manifest.Generation)
	r.logger.Info("deleted corpus", "scripture", name)
	return nil
}

func (r *CorpusRepository) readManifest(name string) (*storage.CorpusManifest, error) {
	var manifest *storage.CorpusManifest
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		manifest, err = readManifest(tx, name)
		return err
	}, false)
	return manifest, err
}

func (r *CorpusRepository) readManifests() ([]*storage.CorpusManifest, error) {
	var manifests []*storage.CorpusManifest
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(corpusManifestPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				m, err := storage.UnmarshalManifest(val)
				if err != nil {
					return err
				}
				manifests = append(manifests, m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return manifests, err
}

// nextOrdinal returns one past the highest ordinal in use.
func (r *CorpusRepository) nextOrdinal() (uint64, error) {
	manifests, err := r.readManifests()
	if err != nil {
		return 0, err
	}
	var highest uint64
	for _, m := range manifests {
		highest = max(highest, m.Ordinal)
	}
	return highest + 1, nil
}

// deleteGeneration removes the passages of one generation. Failures are
// logged only: an orphaned generation is unreachable and harmless.
func (r *CorpusRepository) deleteGeneration(name string, generation uint64) {
	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeGenerationPrefix(name, generation)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		r.logger.Warn("failed to scan superseded generation", "scripture", name, "generation", generation, "err", err)
		return
	}

	wb := r.backend.NewWriteBatch()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			wb.Cancel()
			r.logger.Warn("failed to delete superseded generation", "scripture", name, "generation", generation, "err", err)
			return
		}
	}
	if err := wb.Flush(); err != nil {
		r.logger.Warn("failed to delete superseded generation", "scripture", name, "generation", generation, "err", err)
	}
}

// readManifest reads a manifest within an existing transaction.
func readManifest(tx *badger.Txn, name string) (*storage.CorpusManifest, error) {
	item, err := tx.Get(makeManifestKey(name))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: corpus %q", storage.ErrNotFound, name)
		}
		return nil, err
	}

	var manifest *storage.CorpusManifest
	err = item.Value(func(val []byte) error {
		var err error
		manifest, err = storage.UnmarshalManifest(val)
		return err
	})
	return manifest, err
}
