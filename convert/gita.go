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
	"strconv"
	"strings"

	"github.com/poiesic/shastra/core"
)

const (
	gitaTextName          = "Bhagavad Gita"
	gitaTranslationSource = "A.C. Bhaktivedanta Swami Prabhupada"
	gitaTradition         = "Vedic"

	// gitaSearchWindow bounds how far past a TEXT heading its translation is sought.
	gitaSearchWindow = 150
)

var (
	gitaChapters = []string{
		"ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
		"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
		"SEVENTEEN", "EIGHTEEN",
	}

	gitaChapterPattern     = regexp.MustCompile(`^CHAPTER\s+(` + strings.Join(gitaChapters, "|") + `)\b`)
	gitaTextPattern        = regexp.MustCompile(`^TEXTS?\s+(\d+(?:[–\-−]+\d+)?)\s*$`)
	gitaTranslationPattern = regexp.MustCompile(`^TRANSLATION\s*$`)
	gitaPurportPattern     = regexp.MustCompile(`^PURPORT\s*$`)

	verseDashes = strings.NewReplacer("–", "-", "−", "-")
)

func gitaChapterNumber(word string) int {
	for i, w := range gitaChapters {
		if w == word {
			return i + 1
		}
	}
	return 0
}

func isGitaHeading(line string) bool {
	return gitaTextPattern.MatchString(line) || gitaChapterPattern.MatchString(line)
}

// ParseGita reads the text layout of Bhagavad-gita As It Is. Each TEXT
// heading inside a chapter yields one record whose translation is the
// block under TRANSLATION, ending at PURPORT or the next heading.
// Verses without a translation are skipped.
func ParseGita(r io.Reader) ([]core.PassageRecord, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var records []core.PassageRecord
	chapter := 0
	for i := 0; i < len(lines); {
		if m := gitaChapterPattern.FindStringSubmatch(lines[i]); m != nil {
			chapter = gitaChapterNumber(m[1])
			i++
			continue
		}

		m := gitaTextPattern.FindStringSubmatch(lines[i])
		if m == nil || chapter == 0 {
			i++
			continue
		}

		verse := verseDashes.Replace(m[1])
		translation, next := gitaTranslation(lines, i+1, min(i+1+gitaSearchWindow, len(lines)))
		if translation != "" {
			records = append(records, core.PassageRecord{
				TextName:          gitaTextName,
				Chapter:           strconv.Itoa(chapter),
				Verse:             verse,
				Translation:       translation,
				TranslationSource: gitaTranslationSource,
				Tradition:         gitaTradition,
			})
		}
		i = next
	}

	return Deduplicate(records), nil
}

// gitaTranslation scans lines[start:limit] for a TRANSLATION block and
// returns it with the index where scanning stopped.
func gitaTranslation(lines []string, start, limit int) (string, int) {
	var translation string
	j := start
	for j < limit {
		if isGitaHeading(lines[j]) {
			break
		}
		if !gitaTranslationPattern.MatchString(lines[j]) {
			j++
			continue
		}

		j++
		var buf []string
		for j < limit && !gitaPurportPattern.MatchString(lines[j]) && !isGitaHeading(lines[j]) {
			buf = append(buf, lines[j])
			j++
		}
		translation = collapseSpace(buf)
	}
	return translation, j
}
