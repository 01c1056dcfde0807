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
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/shastra/ai"
	"github.com/tmc/langchaingo/llms"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client          llms.Model
	temperature     float64
	topP            float64
	maxOutputTokens int
	logger          *slog.Logger
}

func newGenerator(client llms.Model, config *ai.Config) *Generator {
	return &Generator{
		client:          client,
		temperature:     config.Temperature,
		topP:            config.TopP,
		maxOutputTokens: config.MaxOutputTokens,
		logger:          slog.Default().With("component", "openai-generator"),
	}
}

// NewGenerator creates a standalone generator for config.GenerationHost.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newClient(config, config.GenerationHost)
	if err != nil {
		return nil, err
	}
	return newGenerator(client, config), nil
}

// Generate sends the system and user prompts as a two-message chat and
// returns the first choice.
func (g *Generator) Generate(ctx context.Context, req ai.GenerationRequest) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(req.SystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(req.UserPrompt),
			},
		},
	}

	g.logger.Debug("generating answer", "promptLength", len(req.UserPrompt))
	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(g.temperature),
		llms.WithTopP(g.topP),
		llms.WithMaxTokens(g.maxOutputTokens),
	)
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", ai.ErrEmptyResponse
	}

	text := strings.TrimSpace(response.Choices[0].Content)
	if text == "" {
		return "", ai.ErrEmptyResponse
	}
	return text, nil
}
