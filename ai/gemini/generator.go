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


package gemini

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/shastra/ai"
	"google.golang.org/genai"
)

// Generator implements ai.Generator using Gemini chat models.
type Generator struct {
	models *genai.Models
	model  string
	config genai.GenerateContentConfig
	logger *slog.Logger
}

func newGenerator(models *genai.Models, config *ai.Config) *Generator {
	return &Generator{
		models: models,
		model:  config.GenerationModel,
		config: genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(config.Temperature)),
			TopP:            genai.Ptr(float32(config.TopP)),
			MaxOutputTokens: int32(config.MaxOutputTokens),
		},
		logger: slog.Default().With("component", "gemini-generator"),
	}
}

// Generate sends the user prompt with the system prompt as system
// instruction and returns the concatenated response text.
func (g *Generator) Generate(ctx context.Context, req ai.GenerationRequest) (string, error) {
	cfg := g.config
	cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)

	g.logger.Debug("generating answer", "model", g.model, "promptLength", len(req.UserPrompt))
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(req.UserPrompt), &cfg)
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ai.ErrEmptyResponse
	}
	return text, nil
}
