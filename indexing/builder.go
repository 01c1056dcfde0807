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


package indexing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/shastra/ai"
	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/storage"
)

const (
	DefaultBatchSize  = 50
	DefaultMaxRetries = 5
	DefaultRetryDelay = time.Second
)

// Builder embeds passages and saves them as corpora.
type Builder struct {
	repo       storage.CorpusRepository
	embedder   ai.Embedder
	pool       *ants.Pool
	batchSize  int
	maxRetries int
	retryDelay time.Duration
	progress   io.Writer
	logger     *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithPoolSize sets the number of batches embedded concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if b.pool != nil {
			b.pool.Release()
		}
		b.pool = pool
		return nil
	}
}

// WithBatchSize sets how many passages go into one embedding request.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		b.batchSize = size
		return nil
	}
}

// WithRetry sets the attempts per batch and the base backoff delay.
// Defaults are DefaultMaxRetries and DefaultRetryDelay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(b *Builder) error {
		if maxAttempts < 1 {
			return ai.ErrInvalidMaxAttempts
		}
		b.maxRetries = maxAttempts
		b.retryDelay = baseDelay
		return nil
	}
}

// WithProgressWriter enables progress output to w.
func WithProgressWriter(w io.Writer) Option {
	return func(b *Builder) error {
		b.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a corpus builder. Call Release when done.
func NewBuilder(repo storage.CorpusRepository, provider ai.AIProvider, opts ...Option) (*Builder, error) {
	if repo == nil {
		return nil, ErrCorpusRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		repo:       repo,
		embedder:   provider.Embedder(),
		pool:       pool,
		batchSize:  DefaultBatchSize,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}
	b.logger = b.logger.With("component", "indexing")

	return b, nil
}

// Release frees the worker pool.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}

// Build embeds passages and saves them as the complete content of
// scripture, replacing any earlier build. Passages keep their given order.
// An empty Tradition is taken from the first passage. Returns the stored
// scripture with Count set.
func (b *Builder) Build(ctx context.Context, scripture core.Scripture, passages []core.PassageRecord) (core.Scripture, error) {
	if len(passages) == 0 {
		return core.Scripture{}, fmt.Errorf("%w: %s", ErrEmptyCorpus, scripture.Name)
	}
	if err := validatePassages(passages); err != nil {
		return core.Scripture{}, err
	}
	if scripture.Tradition == "" {
		scripture.Tradition = passages[0].Tradition
	}

	entries := make([]core.IndexedPassage, len(passages))
	for i := range passages {
		entries[i].Passage = passages[i]
	}

	b.logger.Info("building corpus",
		"scripture", scripture.Name,
		"passages", len(passages),
		"batchSize", b.batchSize)
	start := time.Now()

	if err := b.embedAll(ctx, scripture.Name, entries); err != nil {
		return core.Scripture{}, err
	}

	if err := b.repo.SaveCorpus(ctx, scripture, entries); err != nil {
		return core.Scripture{}, fmt.Errorf("saving %s: %w", scripture.Name, err)
	}

	scripture.Count = len(entries)
	b.logger.Info("corpus built",
		"scripture", scripture.Name,
		"passages", scripture.Count,
		"elapsed", time.Since(start))
	return scripture, nil
}

// embedAll fills entries[i].Vector for every entry, one pool task per batch.
// The first failure cancels the remaining batches.
func (b *Builder) embedAll(ctx context.Context, name string, entries []core.IndexedPassage) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tracker *ProgressTracker
	if b.progress != nil {
		tracker = NewProgressTracker(b.progress, name, len(entries), b.batchSize)
		tracker.Start()
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for start := 0; start < len(entries); start += b.batchSize {
		batch := entries[start:min(start+b.batchSize, len(entries))]
		offset := start

		wg.Add(1)
		err := b.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if err := b.embedBatch(ctx, batch); err != nil {
				b.logger.Error("batch failed", "scripture", name, "offset", offset, "size", len(batch), "err", err)
				fail(err)
				return
			}
			if tracker != nil {
				tracker.Increment(len(batch))
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if tracker != nil {
		tracker.Finish()
	}
	return nil
}

// embedBatch embeds one batch with retry and writes normalized vectors in place.
func (b *Builder) embedBatch(ctx context.Context, batch []core.IndexedPassage) error {
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].Passage.EmbeddingText()
	}

	var vectors [][]float32
	err := ai.RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = b.embedder.EmbedTexts(ctx, texts)
		return err
	}, b.maxRetries, b.retryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", b.maxRetries, err)
	}

	if len(vectors) != len(batch) {
		return fmt.Errorf("%w: expected %d vectors, got %d", ErrEmbeddingMismatch, len(batch), len(vectors))
	}
	for i := range batch {
		if len(vectors[i]) == 0 {
			return fmt.Errorf("%w: empty vector for %s", ErrEmbeddingMismatch, batch[i].Passage.Reference())
		}
		batch[i].Vector = NormalizeVector(vectors[i])
	}
	return nil
}

// validatePassages checks each passage and rejects two passages with the
// same reference.
func validatePassages(passages []core.PassageRecord) error {
	seen := make(map[core.ID]int, len(passages))
	for i := range passages {
		if err := core.ValidatePassage(&passages[i]); err != nil {
			return fmt.Errorf("passage %d: %w", i, err)
		}
		id := passages[i].ID()
		if j, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s at positions %d and %d",
				core.ErrDuplicatePassage, passages[i].Reference(), j, i)
		}
		seen[id] = i
	}
	return nil
}
