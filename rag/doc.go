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


// Package rag answers questions from the loaded scripture corpora.
//
// A Pipeline runs one question through a fixed sequence: guardrail check,
// query embedding, retrieval in single, all-texts or compare mode, relevance
// threshold, prompt construction, one generation call, and assembly of the
// AnswerResponse. A guardrail rejection or an empty result after the
// threshold ends the request early without any generation call; both are
// ordinary outcomes, not errors.
//
// # Usage
//
//	pipeline, err := rag.NewPipeline(store, guardrail.NewKeywordClassifier(), provider,
//	    rag.WithThreshold(0.3),
//	    rag.WithCompareK(5),
//	)
//	if err != nil {
//	    return err
//	}
//
//	result, err := pipeline.Answer(ctx, &core.QueryRequest{
//	    Question:   "What are the three gunas?",
//	    TextFilter: "Bhagavad Gita",
//	})
//
// # Errors
//
// Answer returns core.ErrInvalidQuery for malformed requests,
// core.ErrScriptureNotFound for unknown text names, and ErrEmbedding or
// ErrGeneration when a provider call fails. Provider detail is logged and
// wrapped; callers facing end users should not expose it.
//
// # Concurrency
//
// A Pipeline holds no per-request state and is safe for concurrent use.
package rag
