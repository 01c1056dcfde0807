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


package shastra

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/shastra/ai"
	"github.com/poiesic/shastra/config"
	"github.com/poiesic/shastra/convert"
	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/corpus"
	"github.com/poiesic/shastra/guardrail"
	"github.com/poiesic/shastra/indexing"
	"github.com/poiesic/shastra/rag"
	"github.com/poiesic/shastra/storage"
	"github.com/poiesic/shastra/storage/badger"
)

type Shastra struct {
	config     *config.Config
	corpora    storage.CorpusRepository
	provider   ai.AIProvider
	classifier guardrail.Classifier

	mu    sync.RWMutex
	store *corpus.Store
	logger     *slog.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	provider ai.AIProvider
	logger   *slog.Logger
	inMemory bool
}

// WithAIProvider uses provider instead of building one from the config.
// The provider is closed by Shastra.Close.
func WithAIProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithInMemoryStore keeps the corpus store in memory, ignoring StorePath.
func WithInMemoryStore() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// Open opens the corpus store at cfg.StorePath, loads every corpus into
// memory and prepares the AI provider and guardrail. Loading completes
// before Open returns, so the store is safe to share across requests.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Shastra, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	path := cfg.StorePath
	if options.inMemory {
		path = ""
	}
	backend, err := badger.OpenBackend(path, options.inMemory)
	if err != nil {
		return nil, err
	}

	corpora, err := badger.NewCorpusRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = NewProvider(ctx, cfg.AIConfig())
		if err != nil {
			corpora.Close()
			return nil, err
		}
	}

	store, err := corpus.Load(ctx, corpora, options.logger)
	if err != nil {
		provider.Close()
		corpora.Close()
		return nil, err
	}

	return &Shastra{
		config:     cfg,
		corpora:    corpora,
		provider:   provider,
		store:      store,
		classifier: guardrail.NewKeywordClassifier(cfg.Guardrail...),
		logger:     options.logger,
	}, nil
}

func (s *Shastra) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.corpora.Close(); err != nil {
		s.logger.Error("error closing corpus storage", "err", err)
		return err
	}
	return nil
}

func (s *Shastra) Config() *config.Config {
	return s.config
}

// Store returns the current corpus store.
func (s *Shastra) Store() *corpus.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

func (s *Shastra) Provider() ai.AIProvider {
	return s.provider
}

func (s *Shastra) CorpusRepository() storage.CorpusRepository {
	return s.corpora
}

// Reload loads a fresh store from storage and makes it current. It is safe
// to call while queries run. Pipelines keep the store they were created
// with; create new ones to search the reloaded corpora.
func (s *Shastra) Reload(ctx context.Context) error {
	store, err := corpus.Load(ctx, s.corpora, s.logger)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.store = store
	s.mu.Unlock()
	return nil
}

// NewPipeline creates a query pipeline configured from the retrieval
// section of the config. opts are applied after the configured values.
func (s *Shastra) NewPipeline(opts ...rag.Option) (*rag.Pipeline, error) {
	r := s.config.Retrieval
	base := []rag.Option{
		rag.WithThreshold(r.Threshold),
		rag.WithSingleK(r.SingleK),
		rag.WithCompareK(r.CompareK),
		rag.WithAllK(r.AllK),
		rag.WithHistoryTurns(r.HistoryTurns),
		rag.WithEmbedTimeout(r.EmbedTimeout),
		rag.WithGenerationTimeout(r.GenerationTimeout),
		rag.WithGenerationAttempts(r.GenerationAttempts),
		rag.WithLogger(s.logger),
	}
	return rag.NewPipeline(s.Store(), s.classifier, s.provider, append(base, opts...)...)
}

// NewBuilder creates an index builder configured from the index section of
// the config. The caller must Release it.
func (s *Shastra) NewBuilder(opts ...indexing.Option) (*indexing.Builder, error) {
	idx := s.config.Index
	base := []indexing.Option{
		indexing.WithBatchSize(idx.BatchSize),
		indexing.WithRetry(idx.MaxRetries, idx.RetryDelay),
		indexing.WithLogger(s.logger),
	}
	if idx.PoolSize > 0 {
		base = append(base, indexing.WithPoolSize(idx.PoolSize))
	}
	return indexing.NewBuilder(s.corpora, s.provider, append(base, opts...)...)
}

// BuildText converts the catalog entry's source and embeds it into storage.
// Records without a text name or tradition take the catalog values.
// The in-memory store is not updated; call Reload afterwards.
func (s *Shastra) BuildText(ctx context.Context, builder *indexing.Builder, registry *convert.Registry, text config.TextConfig) (core.Scripture, error) {
	records, err := registry.ParseFile(text.Source, text.Converter)
	if err != nil {
		return core.Scripture{}, fmt.Errorf("converting %s: %w", text.Name, err)
	}
	for i := range records {
		if records[i].TextName == "" {
			records[i].TextName = text.Name
		}
		if records[i].Tradition == "" {
			records[i].Tradition = text.Tradition
		}
	}

	return builder.Build(ctx, core.Scripture{Name: text.Name, Tradition: text.Tradition}, records)
}
