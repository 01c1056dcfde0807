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


package openai

import (
	"log/slog"

	"github.com/poiesic/shastra/ai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
type Provider struct {
	embedder  *Embedder
	generator *Generator
	clients   int
	logger    *slog.Logger
}

// NewProvider creates a provider for an OpenAI-compatible server.
// When embedding and generation share a host, one client serves both.
//
// Returns ai.AIProvider interface (not *Provider) so callers stay
// independent of the backend.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedClient, err := newClient(config, config.EmbeddingHost)
	if err != nil {
		return nil, err
	}
	genClient, clients := embedClient, 1
	if config.GenerationHost != config.EmbeddingHost {
		genClient, err = newClient(config, config.GenerationHost)
		if err != nil {
			return nil, err
		}
		clients = 2
	}

	embedder, err := newEmbedder(embedClient)
	if err != nil {
		return nil, err
	}

	return &Provider{
		embedder:  embedder,
		generator: newGenerator(genClient, config),
		clients:   clients,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// newClient creates a langchaingo client for host configured with both
// the embedding and the generation model.
func newClient(config *ai.Config, host string) (*openai.LLM, error) {
	return openai.New(
		openai.WithBaseURL(host),
		openai.WithToken(config.APIToken),
		openai.WithModel(config.GenerationModel),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the answer generation service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Close releases resources held by the provider.
// The HTTP clients underneath need no explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider", "clients", p.clients)
	return nil
}
