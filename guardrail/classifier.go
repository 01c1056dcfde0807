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


package guardrail

import (
	"strings"
)

// Verdict is the outcome of classifying one question.
type Verdict struct {
	Allowed bool

	// Phrase is the trigger phrase that caused rejection; empty when allowed.
	Phrase string
}

// Classifier decides whether a question may be answered.
// Implementations must be pure and safe for concurrent use.
type Classifier interface {
	Classify(question string) Verdict
}

// DefaultPhrases are the prescriptive trigger phrases, in match order.
var DefaultPhrases = []string{
	"should i",
	"what should",
	"is it right for me to",
	"will i",
	"is it right",
	"is it wrong",
	"advice for",
	"how to deal with",
	"in modern",
	"in today",
	"apply to",
	"real life",
	"practical advice",
	"life advice",
}

// KeywordClassifier rejects any question containing one of its phrases.
type KeywordClassifier struct {
	phrases []string
}

var _ Classifier = (*KeywordClassifier)(nil)

// NewKeywordClassifier creates a classifier over phrases, which are
// normalized the same way questions are. Empty phrases are ignored.
// With no phrases, DefaultPhrases are used.
func NewKeywordClassifier(phrases ...string) *KeywordClassifier {
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	normalized := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = Normalize(p); p != "" {
			normalized = append(normalized, p)
		}
	}
	return &KeywordClassifier{phrases: normalized}
}

// Phrases returns the normalized phrase list in match order.
func (c *KeywordClassifier) Phrases() []string {
	out := make([]string, len(c.phrases))
	copy(out, c.phrases)
	return out
}

// Classify rejects at the first phrase, in list order, found in the
// normalized question.
func (c *KeywordClassifier) Classify(question string) Verdict {
	normalized := Normalize(question)
	for _, phrase := range c.phrases {
		if strings.Contains(normalized, phrase) {
			return Verdict{Allowed: false, Phrase: phrase}
		}
	}
	return Verdict{Allowed: true}
}

// Normalize lowercases s, trims it and collapses runs of whitespace to a
// single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
