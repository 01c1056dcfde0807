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


package corpus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/shastra/storage"
)

// Load reads every corpus from repo and builds a Store in catalog order.
func Load(ctx context.Context, repo storage.CorpusRepository, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "corpus-loader")

	scriptures, err := repo.ListCorpora(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing corpora: %w", err)
	}

	indexes := make([]*Index, 0, len(scriptures))
	for _, scripture := range scriptures {
		entries, err := repo.LoadCorpus(ctx, scripture.Name)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", scripture.Name, err)
		}
		idx, err := NewIndex(scripture, entries)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded corpus",
			"scripture", scripture.Name,
			"entries", idx.Len(),
			"dimension", idx.Dimension())
		indexes = append(indexes, idx)
	}

	store, err := NewStore(indexes...)
	if err != nil {
		return nil, err
	}
	logger.Info("corpus store ready", "scriptures", len(indexes), "passages", store.TotalPassages())
	return store, nil
}
