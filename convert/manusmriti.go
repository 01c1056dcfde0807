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
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/shastra/core"
)

const (
	manuTextName          = "Manusmriti"
	manuTranslationSource = "G. Bühler (Sacred Books of the East)"
	manuTradition         = "Dharmashastra"

	minManuTranslation = 6
)

var (
	manuChapterPattern = regexp.MustCompile(`(?i)^Chapter\s+(\d+)\s*$`)
	manuVersePattern   = regexp.MustCompile(`^(\d+)\.(\d+)\.\s*(.*)$`)
	manuShoutPattern   = regexp.MustCompile(`^[A-Z\W\d]{10,}$`)
)

// ParseManusmriti reads numbered "chapter.verse." paragraphs. Lines of
// garbled transliteration between verses are dropped.
func ParseManusmriti(r io.Reader) ([]core.PassageRecord, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var records []core.PassageRecord
	for i := 0; i < len(lines); {
		m := manuVersePattern.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}

		var buf []string
		if m[3] != "" {
			buf = append(buf, m[3])
		}
		for i++; i < len(lines); i++ {
			line := lines[i]
			if manuVersePattern.MatchString(line) || manuChapterPattern.MatchString(line) {
				break
			}
			if line == "" || isTransliterationNoise(line) {
				continue
			}
			buf = append(buf, line)
		}

		translation := collapseSpace(buf)
		if len(translation) < minManuTranslation {
			continue
		}
		records = append(records, core.PassageRecord{
			TextName:          manuTextName,
			Section:           "Chapter " + m[1],
			Chapter:           m[1],
			Verse:             m[2],
			Translation:       translation,
			TranslationSource: manuTranslationSource,
			Tradition:         manuTradition,
		})
	}

	return Deduplicate(records), nil
}

// isTransliterationNoise detects lines of mis-encoded Sanskrit: mostly
// non-ASCII or symbol characters, or long runs without lowercase letters.
func isTransliterationNoise(line string) bool {
	total := utf8.RuneCountInString(line)
	if total == 0 {
		return false
	}
	noisy := 0
	for _, r := range line {
		if r > unicode.MaxASCII || isNoiseSymbol(r) {
			noisy++
		}
	}
	if float64(noisy)/float64(total) > 0.15 {
		return true
	}

	if !manuShoutPattern.MatchString(line) {
		return false
	}
	n := 0
	for _, r := range line {
		if n == 20 {
			break
		}
		if unicode.IsLower(r) {
			return false
		}
		n++
	}
	return true
}

func isNoiseSymbol(r rune) bool {
	switch r {
	case '\\', '#', '$', '@', '{', '}', '[', ']':
		return true
	}
	return false
}
