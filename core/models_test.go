package core

import (
	"testing"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "simple content", content: "bhagavad_gita_2_47"},
		{name: "empty string", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IDFromContent(tt.content) != IDFromContent(tt.content) {
				t.Errorf("IDFromContent() produced different IDs for %q", tt.content)
			}
		})
	}
}

func TestPassageRecord_Formatting(t *testing.T) {
	tests := []struct {
		name          string
		passage       PassageRecord
		wantReference string
		wantKey       string
		wantEmbedding string
	}{
		{
			name: "no section",
			passage: PassageRecord{
				TextName:    "Bhagavad Gita",
				Chapter:     "2",
				Verse:       "47",
				Translation: "You have a right to perform your prescribed duty.",
			},
			wantReference: "Bhagavad Gita 2.47",
			wantKey:       "bhagavad_gita_2_47",
			wantEmbedding: "Bhagavad Gita. Chapter 2, Verse 47. Translation: You have a right to perform your prescribed duty.",
		},
		{
			name: "with section",
			passage: PassageRecord{
				TextName:    "Upanishads",
				Section:     "Katha Upanishad",
				Chapter:     "1",
				Verse:       "2",
				Translation: "The good is one thing.",
			},
			wantReference: "Upanishads, Katha Upanishad 1.2",
			wantKey:       "upanishads_katha_upanishad_1_2",
			wantEmbedding: "Upanishads. Section: Katha Upanishad. Chapter 1, Verse 2. Translation: The good is one thing.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.passage.Reference(); got != tt.wantReference {
				t.Errorf("Reference() = %q, want %q", got, tt.wantReference)
			}
			if got := tt.passage.Key(); got != tt.wantKey {
				t.Errorf("Key() = %q, want %q", got, tt.wantKey)
			}
			if got := tt.passage.EmbeddingText(); got != tt.wantEmbedding {
				t.Errorf("EmbeddingText() = %q, want %q", got, tt.wantEmbedding)
			}
			if tt.passage.ID() != IDFromContent(tt.wantKey) {
				t.Errorf("ID() does not hash Key()")
			}
		})
	}
}

func TestQueryRequest_Mode(t *testing.T) {
	tests := []struct {
		name string
		req  QueryRequest
		want QueryMode
	}{
		{name: "no filter", req: QueryRequest{Question: "q"}, want: ModeAll},
		{name: "text filter", req: QueryRequest{Question: "q", TextFilter: "Ramayana"}, want: ModeSingle},
		{name: "compare", req: QueryRequest{Question: "q", CompareTexts: []string{"A", "B"}}, want: ModeCompare},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Mode(); got != tt.want {
				t.Errorf("Mode() = %v, want %v", got, tt.want)
			}
		})
	}
}
