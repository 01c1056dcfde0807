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


package storage

import (
	"context"

	"github.com/poiesic/shastra/core"
)

// CorpusManifest is the persisted header of one indexed corpus.
type CorpusManifest struct {
	Scripture core.Scripture

	// Ordinal fixes the catalog position of the corpus. It is assigned
	// when the corpus is first saved and kept across rebuilds.
	Ordinal uint64

	// Generation identifies the passage set the manifest points at.
	// Each SaveCorpus writes a new generation and then swaps the manifest.
	Generation uint64

	// Dimension is the length of every vector in the corpus.
	Dimension uint64
}

// CorpusRepository persists indexed corpora: passages with their vectors,
// grouped by scripture name.
// Implementations must be thread-safe and support concurrent access.
type CorpusRepository interface {
	// SaveCorpus stores entries as the complete content of the named
	// scripture, replacing any previous content. Readers observe either
	// the old corpus or the new one, never a mix.
	SaveCorpus(ctx context.Context, scripture core.Scripture, entries []core.IndexedPassage) error

	// ListCorpora returns every stored scripture in catalog order with
	// Count populated.
	ListCorpora(ctx context.Context) ([]core.Scripture, error)

	// LoadCorpus returns the passages of the named scripture in the order
	// they were saved.
	// Returns ErrNotFound if the scripture has not been saved.
	LoadCorpus(ctx context.Context, name string) ([]core.IndexedPassage, error)

	// DeleteCorpus removes the named scripture and all of its passages.
	// Returns ErrNotFound if the scripture has not been saved.
	DeleteCorpus(ctx context.Context, name string) error

	// Close closes the storage backend and releases resources.
	Close() error
}
