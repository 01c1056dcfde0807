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


// Package config loads the shastra application configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/shastra/ai"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "config.yaml"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// AIConfig selects and configures the embedding and generation provider.
type AIConfig struct {
	Provider        string  `yaml:"provider"`
	EmbeddingHost   string  `yaml:"embedding_host"`
	GenerationHost  string  `yaml:"generation_host"`
	EmbeddingModel  string  `yaml:"embedding_model"`
	GenerationModel string  `yaml:"generation_model"`
	APIKeyEnv       string  `yaml:"api_key_env"`
	Temperature     float64 `yaml:"temperature"`
	TopP            float64 `yaml:"top_p"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// RetrievalConfig holds the query-time parameters of the pipeline.
type RetrievalConfig struct {
	Threshold          float32       `yaml:"threshold"`
	SingleK            int           `yaml:"single_k"`
	CompareK           int           `yaml:"compare_k"`
	AllK               int           `yaml:"all_k"`
	HistoryTurns       int           `yaml:"history_turns"`
	EmbedTimeout       time.Duration `yaml:"embed_timeout"`
	GenerationTimeout  time.Duration `yaml:"generation_timeout"`
	GenerationAttempts int           `yaml:"generation_attempts"`
}

// IndexConfig tunes the offline embedding build.
type IndexConfig struct {
	BatchSize  int           `yaml:"batch_size"`
	PoolSize   int           `yaml:"pool_size"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address     string   `yaml:"address"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// TextConfig is one entry of the text catalog: a scripture, the source file
// it is built from and the converter that parses it.
type TextConfig struct {
	Name      string `yaml:"name"`
	Tradition string `yaml:"tradition"`
	Source    string `yaml:"source"`
	Converter string `yaml:"converter"`
}

// Config is the root application configuration.
type Config struct {
	StorePath string          `yaml:"store_path"`
	AI        AIConfig        `yaml:"ai"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Index     IndexConfig     `yaml:"index"`
	Server    ServerConfig    `yaml:"server"`
	// Guardrail overrides the default advice-seeking phrases when set.
	Guardrail []string     `yaml:"guardrail_phrases,omitempty"`
	Texts     []TextConfig `yaml:"texts"`
}

// Load reads the config at path. A missing file yields the defaults. The
// file is decoded over the defaults, so a key left out keeps its default
// while a key set to zero stays zero.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyTextDefaults(cfg)
	return cfg, nil
}

// Save writes cfg to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration.
func Default() *Config {
	def := ai.DefaultConfig()
	return &Config{
		StorePath: "shastra.db",
		AI: AIConfig{
			Provider:        def.Provider,
			EmbeddingHost:   def.EmbeddingHost,
			GenerationHost:  def.GenerationHost,
			EmbeddingModel:  def.EmbeddingModel,
			GenerationModel: def.GenerationModel,
			APIKeyEnv:       "SHASTRA_API_KEY",
			Temperature:     def.Temperature,
			TopP:            def.TopP,
			MaxOutputTokens: def.MaxOutputTokens,
		},
		Retrieval: RetrievalConfig{
			Threshold:          0.3,
			SingleK:            8,
			CompareK:           5,
			AllK:               12,
			HistoryTurns:       3,
			EmbedTimeout:       30 * time.Second,
			GenerationTimeout:  120 * time.Second,
			GenerationAttempts: 2,
		},
		Index: IndexConfig{
			BatchSize:  50,
			MaxRetries: 5,
			RetryDelay: time.Second,
		},
		Server: ServerConfig{
			Address:     ":8000",
			CORSOrigins: []string{"*"},
		},
		Texts: DefaultTexts(),
	}
}

// DefaultTexts is the built-in catalog. Order is the catalog order used
// for listing and for grouping all-texts results.
func DefaultTexts() []TextConfig {
	return []TextConfig{
		{Name: "Bhagavad Gita", Tradition: "Vedic", Source: "sources/Bhagavad-gita-As-It-Is.pdf", Converter: "gita"},
		{Name: "Upanishads", Tradition: "Vedic", Source: "sources/upanishads_nikhilananda.pdf", Converter: "upanishads"},
		{Name: "Manusmriti", Tradition: "Dharmashastra", Source: "sources/Manu-Smriti.pdf", Converter: "manusmriti"},
		{Name: "Arthashastra", Tradition: "Arthashastra", Source: "sources/Kautilya-Arthashastra-Shamasastry-1915.pdf", Converter: "arthashastra"},
		{Name: "Mahabharata", Tradition: "Epic", Source: "sources/The-Complete-Mahabharata.pdf", Converter: "mahabharata"},
		{Name: "Ramayana", Tradition: "Epic", Source: "sources/Valmiki-Ramayana-Eng-Translation-Griffith.pdf", Converter: "ramayana"},
	}
}

// applyTextDefaults fills catalog entries that name no converter.
func applyTextDefaults(cfg *Config) {
	for i := range cfg.Texts {
		if cfg.Texts[i].Converter == "" {
			cfg.Texts[i].Converter = "json"
		}
	}
}

// Validate checks values the pipeline and the builder would reject.
func (c *Config) Validate() error {
	r := c.Retrieval
	switch {
	case c.StorePath == "":
		return fmt.Errorf("%w: store_path is required", ErrInvalidConfig)
	case r.Threshold < -1 || r.Threshold > 1:
		return fmt.Errorf("%w: retrieval threshold %v outside [-1, 1]", ErrInvalidConfig, r.Threshold)
	case r.SingleK <= 0 || r.CompareK <= 0 || r.AllK <= 0:
		return fmt.Errorf("%w: retrieval k values must be positive", ErrInvalidConfig)
	case r.HistoryTurns < 0:
		return fmt.Errorf("%w: history_turns %d is negative", ErrInvalidConfig, r.HistoryTurns)
	case r.EmbedTimeout <= 0 || r.GenerationTimeout <= 0:
		return fmt.Errorf("%w: retrieval timeouts must be positive", ErrInvalidConfig)
	case r.GenerationAttempts <= 0:
		return fmt.Errorf("%w: generation_attempts must be positive", ErrInvalidConfig)
	case c.Index.BatchSize <= 0 || c.Index.PoolSize < 0 || c.Index.MaxRetries <= 0:
		return fmt.Errorf("%w: index batch_size and max_retries must be positive", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Texts))
	for i, text := range c.Texts {
		if text.Name == "" {
			return fmt.Errorf("%w: text %d has no name", ErrInvalidConfig, i)
		}
		if seen[text.Name] {
			return fmt.Errorf("%w: duplicate text %q", ErrInvalidConfig, text.Name)
		}
		seen[text.Name] = true
	}
	return nil
}

// Text returns the catalog entry with the given name.
func (c *Config) Text(name string) (TextConfig, bool) {
	for _, text := range c.Texts {
		if text.Name == name {
			return text, true
		}
	}
	return TextConfig{}, false
}

// AIConfig converts the AI section into an ai.Config, reading the API key
// from the configured environment variable.
func (c *Config) AIConfig() *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithProvider(c.AI.Provider),
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithGenerationHost(c.AI.GenerationHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithGenerationModel(c.AI.GenerationModel),
		ai.WithTemperature(c.AI.Temperature),
		ai.WithTopP(c.AI.TopP),
		ai.WithMaxOutputTokens(c.AI.MaxOutputTokens),
	}
	if token := os.Getenv(c.AI.APIKeyEnv); token != "" {
		opts = append(opts, ai.WithAPIToken(token))
	}
	return ai.NewConfig(opts...)
}
