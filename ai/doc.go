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


// Package ai provides abstractions for the AI services used by shastra.
//
// Two capabilities are needed: text embeddings, used both when building the
// corpus index and when embedding a question, and grounded answer generation.
//
//   - Embedder: Generates vector embeddings from text
//   - Generator: Produces an answer from a system prompt and a user prompt
//   - AIProvider: Aggregates both services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs (OpenAI, Ollama, vLLM) via langchaingo
//   - ai/gemini: The Gemini API via google.golang.org/genai
//   - ai/mock: Call-counting test doubles
//
// Public constructors return interface types; mock constructors return
// concrete types so tests can inject behavior and assert call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "What is dharma?")
//	answer, err := provider.Generator().Generate(ctx, ai.GenerationRequest{
//	    SystemPrompt: "...",
//	    UserPrompt:   "...",
//	})
package ai
