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
	"strings"

	"github.com/poiesic/shastra/core"
)

const singleTextSystemPrompt = `You are a knowledgeable guide to Indian scriptures: a scholar who loves this material and explains it with depth and clarity.

RULES (never break these):
1. Answer ONLY from the PROVIDED PASSAGES. Do not use outside knowledge, even if you have it.
2. Cite every factual claim as [Text Name] [Chapter].[Verse].
3. Never invent, fabricate, or go beyond what the passages actually say.
4. Do not give personal life advice or tell the user what they should do.
5. If the passages do not address the question, say so plainly: "The text does not explicitly address this."

STYLE:
- Warm, engaged and thorough, like a scholar in conversation
- Flowing prose rather than bare bullet lists
- Point out surprising or especially striking passages
- Connect related ideas across the cited passages
- Always finish your thought; never stop mid-sentence

FORMAT:

## Direct Answer
Answer clearly in 2-5 sentences, with citations.

## From the Text
For each key passage: cite it, quote it, then explain what it means in context.

## What Else the Text Reveals
Further nuances or related ideas from the remaining passages.

## Notes
Only if needed: interpretive debates, translation nuances, or what the text leaves uncovered.
`

const compareSystemPrompt = `You are a comparative scholar of Indian scriptures. You show, precisely and with enthusiasm, how different traditions approach the same question.

RULES (never break these):
1. Answer ONLY from the PROVIDED PASSAGES. No outside knowledge.
2. Cite the text name, chapter and verse for every claim.
3. Never invent content or conflate traditions.
4. Treat each text independently and never merge their voices.
5. If the passages do not address the question, say so plainly.
6. Do not give personal life advice.

STYLE:
- Engaged and thorough, building a narrative of comparison in prose
- Name real agreements and real differences specifically
- Note where traditions use one concept to mean different things
- Always finish your thought; never stop mid-sentence

FORMAT:

## Overview
3-5 sentences: the essential similarity or the core tension.

## [Text Name]: What It Says
Quote and explain the most relevant passages of each text, with citations.
Repeat this section for every text in the comparison.

## Side by Side
Where the texts agree, where they diverge, and what might explain the difference.

## What the Texts Leave Unsaid
Gaps or limits in what these passages reveal about the question.
`

// systemPrompt selects the system prompt for the mode.
func systemPrompt(mode core.QueryMode) string {
	if mode == core.ModeCompare {
		return compareSystemPrompt
	}
	return singleTextSystemPrompt
}

// modeInstruction tells the model which texts it is answering from.
func modeInstruction(req *core.QueryRequest) string {
	switch req.Mode() {
	case core.ModeCompare:
		return "You are comparing passages from: " + strings.Join(req.CompareTexts, ", ") + ". Address each text separately."
	case core.ModeSingle:
		return "You are answering from: " + req.TextFilter + " only."
	default:
		return "You are searching across all available scriptures."
	}
}

// historyWindow returns at most the last turns exchanges of history.
func historyWindow(history []core.ChatTurn, turns int) []core.ChatTurn {
	n := turns * 2
	if n <= 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return history
}

// turnContent returns the content carried forward for one turn; long
// assistant answers are cut to assistantTurnLimit runes.
func turnContent(turn core.ChatTurn) string {
	if turn.Role != core.RoleAssistant {
		return turn.Content
	}
	runes := []rune(turn.Content)
	if len(runes) <= assistantTurnLimit {
		return turn.Content
	}
	return string(runes[:assistantTurnLimit]) + "...[summary truncated]"
}

// formatHistory renders the conversation window that precedes the question.
func formatHistory(window []core.ChatTurn) string {
	if len(window) == 0 {
		return ""
	}
	lines := make([]string, len(window))
	for i, turn := range window {
		speaker := "User"
		if turn.Role == core.RoleAssistant {
			speaker = "Assistant"
		}
		lines[i] = speaker + ": " + turnContent(turn)
	}
	return "CONVERSATION SO FAR:\n" + strings.Join(lines, "\n\n") + "\n\n"
}

// embeddingText is the text embedded for retrieval: the conversation
// window followed by the question, so follow-ups resolve their references.
func embeddingText(question string, window []core.ChatTurn) string {
	if len(window) == 0 {
		return question
	}
	parts := make([]string, 0, len(window)+1)
	for _, turn := range window {
		parts = append(parts, turnContent(turn))
	}
	parts = append(parts, question)
	return strings.Join(parts, "\n")
}

// formatPassages renders passages in the order given, one block each.
func formatPassages(passages []core.RetrievedPassage) string {
	blocks := make([]string, len(passages))
	for i, rp := range passages {
		p := rp.Passage
		var b strings.Builder
		b.WriteString("--- ")
		b.WriteString(p.TextName)
		if p.Section != "" {
			b.WriteString(" | ")
			b.WriteString(p.Section)
		}
		b.WriteString(" | Chapter ")
		b.WriteString(p.Chapter)
		b.WriteString(", Verse ")
		b.WriteString(p.Verse)
		b.WriteString(" ---\n")
		b.WriteString("Tradition: " + p.Tradition + "\n")
		b.WriteString("Translator: " + p.TranslationSource + "\n")
		b.WriteString("Text: " + p.Translation + "\n")
		blocks[i] = b.String()
	}
	return strings.Join(blocks, "\n")
}

// userPrompt assembles the user message for generation.
func userPrompt(req *core.QueryRequest, window []core.ChatTurn, passages []core.RetrievedPassage) string {
	var b strings.Builder
	b.WriteString(formatHistory(window))
	b.WriteString("QUESTION: ")
	b.WriteString(strings.TrimSpace(req.Question))
	b.WriteString("\n\n")
	b.WriteString(modeInstruction(req))
	b.WriteString("\n\nPROVIDED PASSAGES (use ONLY these):\n\n")
	b.WriteString(formatPassages(passages))
	b.WriteString("\n\nAnswer using ONLY the passages above. Follow the response format exactly.")
	return b.String()
}
