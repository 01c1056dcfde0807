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


package convert

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/shastra/core"
)

// maxChunkRunes bounds the translation length of one record cut from a
// prose chapter.
const maxChunkRunes = 1500

// splitSentences cuts space-collapsed text after every word that ends in
// one of the terminator bytes.
func splitSentences(text, terminators string) []string {
	var sentences []string
	start := 0
	for i := 1; i < len(text); i++ {
		if text[i] == ' ' && strings.IndexByte(terminators, text[i-1]) >= 0 {
			sentences = append(sentences, text[start:i])
			start = i + 1
		}
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// chunkText packs whole sentences into chunks of at most maxChunkRunes.
// A sentence longer than the limit becomes a chunk of its own.
func chunkText(text, terminators string) []string {
	if utf8.RuneCountInString(text) <= maxChunkRunes {
		return []string{text}
	}

	var chunks, current []string
	size := 0
	for _, sentence := range splitSentences(text, terminators) {
		n := utf8.RuneCountInString(sentence)
		if size+n > maxChunkRunes && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current, size = nil, 0
		}
		current = append(current, sentence)
		size += n + 1
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// chunkRecords cuts text into chunks and numbers them as verses 1..n of base.
func chunkRecords(base core.PassageRecord, text, terminators string) []core.PassageRecord {
	chunks := chunkText(text, terminators)
	records := make([]core.PassageRecord, len(chunks))
	for i, chunk := range chunks {
		rec := base
		rec.Verse = strconv.Itoa(i + 1)
		rec.Translation = chunk
		records[i] = rec
	}
	return records
}

// mergeRepeats keeps one record per reference key, in first-seen order,
// holding the longest translation seen for that key.
func mergeRepeats(records []core.PassageRecord) []core.PassageRecord {
	seen := make(map[string]int, len(records))
	out := make([]core.PassageRecord, 0, len(records))
	for _, rec := range records {
		key := rec.Key()
		i, ok := seen[key]
		if !ok {
			seen[key] = len(out)
			out = append(out, rec)
			continue
		}
		if len(rec.Translation) > len(out[i].Translation) {
			out[i] = rec
		}
	}
	return out
}
