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


package server

import (
	"math"

	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/rag"
)

type askRequest struct {
	Question     string          `json:"question"`
	TextFilter   string          `json:"text_filter,omitempty"`
	CompareTexts []string        `json:"compare_texts,omitempty"`
	ChatHistory  []core.ChatTurn `json:"chat_history,omitempty"`
}

func (r askRequest) query() *core.QueryRequest {
	return &core.QueryRequest{
		Question:     r.Question,
		TextFilter:   r.TextFilter,
		CompareTexts: r.CompareTexts,
		ChatHistory:  r.ChatHistory,
	}
}

type verseDetail struct {
	TextName          string  `json:"text_name"`
	Section           string  `json:"section"`
	Chapter           string  `json:"chapter"`
	Verse             string  `json:"verse"`
	Translation       string  `json:"translation"`
	TranslationSource string  `json:"translation_source"`
	Tradition         string  `json:"tradition"`
	RelevanceScore    float64 `json:"relevance_score"`
}

type answerResponse struct {
	Query       string        `json:"query"`
	Answer      string        `json:"answer"`
	Verses      []verseDetail `json:"verses"`
	TextFilter  string        `json:"text_filter,omitempty"`
	CompareMode bool          `json:"compare_mode"`
	Outcome     string        `json:"outcome"`
}

type healthResponse struct {
	Status       string         `json:"status"`
	TotalEntries int            `json:"total_entries"`
	Texts        map[string]int `json:"texts"`
}

// roundScore rounds a similarity to three decimals for the wire.
func roundScore(score float32) float64 {
	return math.Round(float64(score)*1000) / 1000
}

func newAnswerResponse(req *core.QueryRequest, result *rag.Result) answerResponse {
	verses := make([]verseDetail, len(result.Response.Verses))
	for i, rp := range result.Response.Verses {
		p := rp.Passage
		verses[i] = verseDetail{
			TextName:          p.TextName,
			Section:           p.Section,
			Chapter:           p.Chapter,
			Verse:             p.Verse,
			Translation:       p.Translation,
			TranslationSource: p.TranslationSource,
			Tradition:         p.Tradition,
			RelevanceScore:    roundScore(rp.Score),
		}
	}
	return answerResponse{
		Query:       req.Question,
		Answer:      result.Response.Answer,
		Verses:      verses,
		TextFilter:  req.TextFilter,
		CompareMode: result.Response.CompareMode,
		Outcome:     result.Outcome.String(),
	}
}
