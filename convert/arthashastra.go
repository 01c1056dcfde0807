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
	"io"
	"regexp"
	"unicode/utf8"

	"github.com/poiesic/shastra/core"
)

const (
	arthashastraTextName          = "Arthashastra"
	arthashastraTranslationSource = "R. Shamasastry (1915)"
	arthashastraTradition         = "Arthashastra"

	minArthashastraChapter = 20
)

var (
	arthashastraHeaderPattern  = regexp.MustCompile(`(?i)^Kautilya's Arthashastra$`)
	arthashastraBookPattern    = regexp.MustCompile(`(?i)^BOOK\s+([IVXLC]+)$`)
	arthashastraChapterPattern = regexp.MustCompile(`(?i)^CHAPTER\s+([IVXLC]+)\.\s*(.+)`)
	arthashastraEndPattern     = regexp.MustCompile(`(?i)^\[Thus ends Chapter`)
	pageNumberPattern          = regexp.MustCompile(`^\d+$`)
)

// ParseArthashastra reads the Shamasastry prose translation. The text has
// no verse numbers, so each chapter becomes one or more records of at most
// maxChunkRunes, numbered 1..n as verses within the chapter.
func ParseArthashastra(r io.Reader) ([]core.PassageRecord, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var (
		records       []core.PassageRecord
		book, chapter string
		buf           []string
	)
	flush := func() {
		defer func() { buf = nil }()
		if chapter == "" || len(buf) == 0 {
			return
		}
		text := collapseSpace(buf)
		if utf8.RuneCountInString(text) < minArthashastraChapter {
			return
		}
		base := core.PassageRecord{
			TextName:          arthashastraTextName,
			Chapter:           chapter,
			TranslationSource: arthashastraTranslationSource,
			Tradition:         arthashastraTradition,
		}
		if book != "" {
			base.Section = "Book " + book
		}
		records = append(records, chunkRecords(base, text, ".!?")...)
	}

	for _, line := range lines {
		if line == "" || arthashastraHeaderPattern.MatchString(line) || pageNumberPattern.MatchString(line) {
			continue
		}
		if m := arthashastraBookPattern.FindStringSubmatch(line); m != nil {
			flush()
			book = m[1]
			continue
		}
		if m := arthashastraChapterPattern.FindStringSubmatch(line); m != nil {
			flush()
			chapter = m[1]
			continue
		}
		buf = append(buf, line)
		if arthashastraEndPattern.MatchString(line) {
			flush()
		}
	}
	flush()

	return mergeRepeats(records), nil
}
