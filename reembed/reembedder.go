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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/indexing"
	"github.com/poiesic/shastra/storage"
)

// Reembedder re-embeds corpora already in the store.
type Reembedder struct {
	repo     storage.CorpusRepository
	builder  *indexing.Builder
	progress io.Writer
}

// NewReembedder creates a new reembedder. The builder must write to repo.
// progress: where to write progress output (typically os.Stderr); nil discards it.
func NewReembedder(repo storage.CorpusRepository, builder *indexing.Builder, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrCorpusRepositoryRequired
	}
	if builder == nil {
		return nil, ErrBuilderRequired
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Reembedder{repo: repo, builder: builder, progress: progress}, nil
}

// Run re-embeds the named corpora, or every corpus when names is empty.
// Corpora are processed in catalog order and the first failure stops the run.
func (r *Reembedder) Run(ctx context.Context, names ...string) ([]core.Scripture, error) {
	targets, err := r.targets(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		fmt.Fprintf(r.progress, "No corpora found in store (0 corpora)\n")
		return nil, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d corpora\n", len(targets))
	start := time.Now()

	rebuilt := make([]core.Scripture, 0, len(targets))
	total := 0
	for _, scripture := range targets {
		entries, err := r.repo.LoadCorpus(ctx, scripture.Name)
		if err != nil {
			return rebuilt, fmt.Errorf("loading %s: %w", scripture.Name, err)
		}

		passages := make([]core.PassageRecord, len(entries))
		for i := range entries {
			passages[i] = entries[i].Passage
		}

		result, err := r.builder.Build(ctx, core.Scripture{Name: scripture.Name, Tradition: scripture.Tradition}, passages)
		if err != nil {
			return rebuilt, fmt.Errorf("reembedding %s: %w", scripture.Name, err)
		}
		rebuilt = append(rebuilt, result)
		total += result.Count
	}

	elapsed := time.Since(start)
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d passages in %v (%.1f passages/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/max(elapsed.Seconds(), 1e-9))
	return rebuilt, nil
}

// targets resolves names against the store. Unknown names fail the run
// before any embedding work starts.
func (r *Reembedder) targets(ctx context.Context, names []string) ([]core.Scripture, error) {
	stored, err := r.repo.ListCorpora(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list corpora: %w", err)
	}
	if len(names) == 0 {
		return stored, nil
	}

	byName := make(map[string]core.Scripture, len(stored))
	for _, s := range stored {
		byName[s.Name] = s
	}
	targets := make([]core.Scripture, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", core.ErrScriptureNotFound, name)
		}
		targets = append(targets, s)
	}
	return targets, nil
}
