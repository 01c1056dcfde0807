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


package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier for passages.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// PassageRecord is one verse (or verse range) of a source text in a given translation.
// Records are produced by converters at build time and never mutated afterwards.
type PassageRecord struct {
	TextName          string `json:"text_name"`
	Section           string `json:"section"`
	Chapter           string `json:"chapter"`
	Verse             string `json:"verse"`
	Translation       string `json:"translation"`
	TranslationSource string `json:"translation_source"`
	Tradition         string `json:"tradition"` // Vedic, Epic, Dharmashastra, Arthashastra, ...
}

// Reference returns the human citation form, e.g. "Bhagavad Gita 2.47".
func (p PassageRecord) Reference() string {
	var b strings.Builder
	b.WriteString(p.TextName)
	if p.Section != "" {
		b.WriteString(", ")
		b.WriteString(p.Section)
	}
	b.WriteString(" ")
	b.WriteString(p.Chapter)
	b.WriteString(".")
	b.WriteString(p.Verse)
	return b.String()
}

// Key returns a stable slug such as "bhagavad_gita_2_47".
func (p PassageRecord) Key() string {
	parts := []string{strings.ToLower(strings.ReplaceAll(p.TextName, " ", "_"))}
	if p.Section != "" {
		parts = append(parts, strings.ToLower(strings.ReplaceAll(p.Section, " ", "_")))
	}
	parts = append(parts, p.Chapter, p.Verse)
	return strings.Join(parts, "_")
}

// ID returns the content-derived ID of the passage reference.
func (p PassageRecord) ID() ID {
	return IDFromContent(p.Key())
}

// EmbeddingText is the document text sent to the embedding provider at build time.
func (p PassageRecord) EmbeddingText() string {
	parts := []string{p.TextName}
	if p.Section != "" {
		parts = append(parts, "Section: "+p.Section)
	}
	parts = append(parts, "Chapter "+p.Chapter+", Verse "+p.Verse)
	parts = append(parts, "Translation: "+p.Translation)
	return strings.Join(parts, ". ")
}

// IndexedPassage pairs a passage with its embedding vector.
type IndexedPassage struct {
	Passage PassageRecord
	Vector  []float32
}

// Scripture describes one corpus in the store.
type Scripture struct {
	Name      string `json:"name" yaml:"name"`
	Tradition string `json:"tradition" yaml:"tradition"`
	Count     int    `json:"entry_count" yaml:"-"`
}

// RetrievedPassage is a passage selected for one query together with its
// cosine similarity to the query vector.
type RetrievedPassage struct {
	Passage   PassageRecord
	Scripture string
	Score     float32
}

// ChatRole identifies the speaker of a chat turn.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatTurn is one prior message of a conversation.
type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// QueryMode selects how corpora are searched.
type QueryMode int

const (
	// ModeAll searches every scripture in the store.
	ModeAll QueryMode = iota + 1
	// ModeSingle searches one named scripture.
	ModeSingle
	// ModeCompare searches two or more named scriptures independently.
	ModeCompare
)

func (m QueryMode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeSingle:
		return "single"
	case ModeCompare:
		return "compare"
	default:
		return "unknown"
	}
}

// QueryRequest is an inbound question.
type QueryRequest struct {
	Question     string     `json:"question"`
	TextFilter   string     `json:"text_filter,omitempty"`
	CompareTexts []string   `json:"compare_texts,omitempty"`
	ChatHistory  []ChatTurn `json:"chat_history,omitempty"`
}

// Mode derives the retrieval mode from the request fields.
func (q *QueryRequest) Mode() QueryMode {
	switch {
	case len(q.CompareTexts) > 1:
		return ModeCompare
	case q.TextFilter != "":
		return ModeSingle
	default:
		return ModeAll
	}
}

// AnswerResponse is the final answer value handed to the presentation layer.
type AnswerResponse struct {
	Answer      string
	Verses      []RetrievedPassage
	CompareMode bool
}
