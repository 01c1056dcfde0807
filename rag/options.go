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
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultThreshold          = 0.3
	DefaultSingleK            = 8
	DefaultCompareK           = 5
	DefaultAllK               = 12
	DefaultHistoryTurns       = 3
	DefaultEmbedTimeout       = 30 * time.Second
	DefaultGenerationTimeout  = 120 * time.Second
	DefaultGenerationAttempts = 2

	// assistantTurnLimit caps each assistant message carried as context.
	assistantTurnLimit = 800
)

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithThreshold sets the minimum cosine similarity a passage needs to be
// used as evidence. Default is DefaultThreshold.
func WithThreshold(threshold float32) Option {
	return func(p *Pipeline) error {
		if threshold < -1 || threshold > 1 {
			return fmt.Errorf("threshold must be within [-1, 1], got %v", threshold)
		}
		p.threshold = threshold
		return nil
	}
}

// WithSingleK sets how many passages a single-text query retrieves.
// Default is DefaultSingleK.
func WithSingleK(k int) Option {
	return func(p *Pipeline) error {
		if k < 1 {
			return fmt.Errorf("single k must be positive, got %d", k)
		}
		p.singleK = k
		return nil
	}
}

// WithCompareK sets how many passages each text contributes in compare mode.
// Default is DefaultCompareK.
func WithCompareK(k int) Option {
	return func(p *Pipeline) error {
		if k < 1 {
			return fmt.Errorf("compare k must be positive, got %d", k)
		}
		p.compareK = k
		return nil
	}
}

// WithAllK sets how many passages an all-texts query retrieves in total.
// Default is DefaultAllK.
func WithAllK(k int) Option {
	return func(p *Pipeline) error {
		if k < 1 {
			return fmt.Errorf("all-texts k must be positive, got %d", k)
		}
		p.allK = k
		return nil
	}
}

// WithHistoryTurns sets how many prior exchanges (user and assistant
// message pairs) are carried into embedding and generation.
// Default is DefaultHistoryTurns; 0 ignores history.
func WithHistoryTurns(turns int) Option {
	return func(p *Pipeline) error {
		if turns < 0 {
			return fmt.Errorf("history turns must not be negative, got %d", turns)
		}
		p.historyTurns = turns
		return nil
	}
}

// WithEmbedTimeout bounds the query embedding call.
// Default is DefaultEmbedTimeout.
func WithEmbedTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d <= 0 {
			return fmt.Errorf("embed timeout must be positive, got %v", d)
		}
		p.embedTimeout = d
		return nil
	}
}

// WithGenerationTimeout bounds each generation attempt.
// Default is DefaultGenerationTimeout.
func WithGenerationTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d <= 0 {
			return fmt.Errorf("generation timeout must be positive, got %v", d)
		}
		p.generationTimeout = d
		return nil
	}
}

// WithGenerationAttempts sets how many times a failed generation call is
// tried, with no delay in between. Default is DefaultGenerationAttempts.
func WithGenerationAttempts(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("generation attempts must be positive, got %d", n)
		}
		p.generationAttempts = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithMonitor sets a monitor notified at each stage of every query.
func WithMonitor(monitor Monitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}
