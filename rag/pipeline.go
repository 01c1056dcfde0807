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


package rag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/shastra/ai"
	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/corpus"
	"github.com/poiesic/shastra/guardrail"
)

// Pipeline answers questions from a corpus store.
type Pipeline struct {
	store      *corpus.Store
	classifier guardrail.Classifier
	embedder   ai.Embedder
	generator  ai.Generator
	monitor    Monitor
	logger     *slog.Logger

	threshold          float32
	singleK            int
	compareK           int
	allK               int
	historyTurns       int
	embedTimeout       time.Duration
	generationTimeout  time.Duration
	generationAttempts int
}

// NewPipeline creates a pipeline over a fully loaded store.
func NewPipeline(
	store *corpus.Store,
	classifier guardrail.Classifier,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Pipeline{
		store:              store,
		classifier:         classifier,
		embedder:           provider.Embedder(),
		generator:          provider.Generator(),
		monitor:            noopMonitor{},
		logger:             slog.Default(),
		threshold:          DefaultThreshold,
		singleK:            DefaultSingleK,
		compareK:           DefaultCompareK,
		allK:               DefaultAllK,
		historyTurns:       DefaultHistoryTurns,
		embedTimeout:       DefaultEmbedTimeout,
		generationTimeout:  DefaultGenerationTimeout,
		generationAttempts: DefaultGenerationAttempts,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "rag")

	return p, nil
}

// Store returns the corpus store the pipeline searches.
func (p *Pipeline) Store() *corpus.Store {
	return p.store
}

// Answer runs one question through the pipeline.
func (p *Pipeline) Answer(ctx context.Context, req *core.QueryRequest) (*Result, error) {
	if err := core.ValidateQuery(req); err != nil {
		return nil, err
	}

	p.monitor.Start(req)
	mode := req.Mode()
	compare := mode == core.ModeCompare

	if verdict := p.classifier.Classify(req.Question); !verdict.Allowed {
		p.logger.Info("question rejected by guardrail", "phrase", verdict.Phrase)
		p.monitor.GuardrailRejected(verdict.Phrase)
		return p.finish(&Result{
			Response: Assemble(PrescriptionAnswer, nil, compare),
			Outcome:  OutcomeGuardrailRejected,
		}), nil
	}

	switch mode {
	case core.ModeSingle:
		if err := p.store.CheckNames(req.TextFilter); err != nil {
			return nil, err
		}
	case core.ModeCompare:
		if err := p.store.CheckNames(req.CompareTexts...); err != nil {
			return nil, err
		}
	}

	window := historyWindow(req.ChatHistory, p.historyTurns)
	vector, err := p.embedQuery(ctx, embeddingText(req.Question, window))
	if err != nil {
		return nil, err
	}

	if err := p.store.CheckDimension(vector, queriedNames(req, mode)...); err != nil {
		// Usually the embedding model changed without a reembed.
		p.logger.Error("query vector does not match the stored vectors", "mode", mode.String(), "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	candidates, err := p.retrieve(req, mode, vector)
	if err != nil {
		return nil, err
	}
	p.monitor.AfterRetrieval(mode, candidates)

	kept := p.applyThreshold(candidates)
	p.monitor.AfterThreshold(kept)
	p.logger.Debug("retrieved passages",
		"mode", mode.String(),
		"candidates", len(candidates),
		"kept", len(kept))

	if len(kept) == 0 {
		return p.finish(&Result{
			Response: Assemble(NotAddressedAnswer, nil, compare),
			Outcome:  OutcomeNoRelevantPassages,
		}), nil
	}

	genReq := ai.GenerationRequest{
		SystemPrompt: systemPrompt(mode),
		UserPrompt:   userPrompt(req, window, kept),
	}
	p.monitor.BeforeGeneration(genReq)

	text, err := p.generate(ctx, genReq)
	if err != nil {
		return nil, err
	}

	return p.finish(&Result{
		Response: Assemble(text, kept, compare),
		Outcome:  OutcomeAnswered,
	}), nil
}

func (p *Pipeline) finish(result *Result) *Result {
	p.monitor.Finish(result)
	return result
}

func (p *Pipeline) embedQuery(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, p.embedTimeout)
	defer cancel()

	vector, err := p.embedder.EmbedText(ctx, text)
	if err != nil {
		p.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if len(vector) == 0 {
		p.logger.Error("embedder returned an empty vector")
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, ai.ErrEmptyResponse)
	}
	p.monitor.AfterEmbedding(text, len(vector))
	return vector, nil
}

// retrieve runs the mode's search. Results come back grouped by scripture
// with descending scores inside each group.
func (p *Pipeline) retrieve(req *core.QueryRequest, mode core.QueryMode, vector []float32) ([]core.RetrievedPassage, error) {
	switch mode {
	case core.ModeSingle:
		return p.store.Search(req.TextFilter, vector, p.singleK)
	case core.ModeCompare:
		return p.store.SearchMany(req.CompareTexts, vector, p.compareK)
	default:
		return p.store.SearchAll(vector, p.allK, p.allK), nil
	}
}

// queriedNames returns the scriptures a mode searches; nil means all of them.
func queriedNames(req *core.QueryRequest, mode core.QueryMode) []string {
	switch mode {
	case core.ModeSingle:
		return []string{req.TextFilter}
	case core.ModeCompare:
		return req.CompareTexts
	default:
		return nil
	}
}

// applyThreshold drops passages scoring below the threshold, keeping order.
func (p *Pipeline) applyThreshold(candidates []core.RetrievedPassage) []core.RetrievedPassage {
	kept := make([]core.RetrievedPassage, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= p.threshold {
			kept = append(kept, c)
		}
	}
	return kept
}

// generate calls the generator, retrying immediately on failure up to the
// configured attempts. Each attempt has its own timeout.
func (p *Pipeline) generate(ctx context.Context, req ai.GenerationRequest) (string, error) {
	var text string
	err := ai.RetryWithBackoff(ctx, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, p.generationTimeout)
		defer cancel()

		var err error
		text, err = p.generator.Generate(attemptCtx, req)
		if err == nil && text == "" {
			err = ai.ErrEmptyResponse
		}
		return err
	}, p.generationAttempts, 0)
	if err != nil {
		p.logger.Error("error generating answer", "attempts", p.generationAttempts, "err", err)
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return text, nil
}
