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


// Package gemini provides AI service implementations backed by the Gemini API.
//
// The provider uses google.golang.org/genai with the Gemini API backend.
// A single client is shared between the embedder and the generator, so
// Close on the provider releases both.
//
//	config := ai.NewConfig(
//	    ai.WithProvider(ai.ProviderGemini),
//	    ai.WithAPIToken(os.Getenv("GEMINI_API_KEY")),
//	    ai.WithEmbeddingModel("gemini-embedding-001"),
//	    ai.WithGenerationModel("gemini-2.5-flash"),
//	)
//	provider, err := gemini.NewProvider(ctx, config)
package gemini
