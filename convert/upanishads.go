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
	"unicode/utf8"

	"github.com/poiesic/shastra/core"
)

const (
	upanishadsTextName          = "Upanishads"
	upanishadsTranslationSource = "Swami Nikhilananda"
	upanishadsTradition         = "Vedic"

	// A bare number above this is a page number, never a verse.
	maxUpanishadVerse = 500
	// Lines this close to a running page header belong to the page footer.
	upanishadsHeaderReach = 3
	minUpanishadVerse     = 11
)

var (
	upanishadNames = []string{
		"Katha Upanishad",
		"Isa Upanishad",
		"Kena Upanishad",
		"Mundaka Upanishad",
		"Svetasvatara Upanishad",
		"Prasna Upanishad",
		"Mandukya Upanishad",
		"Aitareya Upanishad",
		"Brihadaranyaka Upanishad",
		"Taittiriya Upanishad",
		"Chhandogya Upanishad",
	}

	upanishadPattern        = regexp.MustCompile(`^(` + quoteAll(upanishadNames) + `)$`)
	upanishadPartPattern    = regexp.MustCompile(`(?i)^Part\s+(One|Two|Three|Four|Five|Six|Seven|Eight|Nine|Ten)$`)
	upanishadChapterPattern = regexp.MustCompile(`(?i)^Chapter\s+([IVXLC]+(?:\s*[–—-]\s*.+)?)$`)
	upanishadVersePattern   = regexp.MustCompile(`^(\d+(?:\s*[—–-]\s*\d+)?)$`)
	upanishadHeaderPattern  = regexp.MustCompile(`^Source:\s*"The Upanishads`)

	upanishadVerseNormalizer = strings.NewReplacer("—", "-", "–", "-", " ", "", "\t", "")
)

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}
	return strings.Join(quoted, "|")
}

func isUpanishadHeading(line string) bool {
	return upanishadPattern.MatchString(line) ||
		upanishadPartPattern.MatchString(line) ||
		upanishadChapterPattern.MatchString(line)
}

// ParseUpanishads reads the Nikhilananda layout: an Upanishad title, optional
// Part and Chapter headings, then verses introduced by a number on its own
// line. Page numbers next to the running "Source:" header are ignored.
func ParseUpanishads(r io.Reader) ([]core.PassageRecord, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var (
		records                        []core.PassageRecord
		upanishad, part, chapterNumber string
	)
	for i := 0; i < len(lines); {
		line := lines[i]
		if line == "" || upanishadHeaderPattern.MatchString(line) {
			i++
			continue
		}

		if m := upanishadPattern.FindStringSubmatch(line); m != nil {
			upanishad, part, chapterNumber = m[1], "", ""
			i++
			continue
		}
		if m := upanishadPartPattern.FindStringSubmatch(line); m != nil {
			part = m[1]
			i++
			continue
		}
		if m := upanishadChapterPattern.FindStringSubmatch(line); m != nil {
			chapterNumber = strings.TrimSpace(m[1])
			i++
			continue
		}

		m := upanishadVersePattern.FindStringSubmatch(line)
		if m == nil || upanishad == "" {
			i++
			continue
		}
		verse := upanishadVerseNormalizer.Replace(m[1])
		if isUpanishadPageNumber(verse, lines, i) {
			i++
			continue
		}

		var buf []string
		for i++; i < len(lines); i++ {
			next := lines[i]
			if next == "" || upanishadHeaderPattern.MatchString(next) {
				continue
			}
			if upanishadVersePattern.MatchString(next) && !continuesList(buf) {
				break
			}
			if isUpanishadHeading(next) {
				break
			}
			buf = append(buf, next)
		}

		translation := collapseSpace(buf)
		if utf8.RuneCountInString(translation) < minUpanishadVerse {
			continue
		}

		section := upanishad
		if part != "" {
			section += ", Part " + part
		}
		if chapterNumber != "" {
			section += ", Chapter " + chapterNumber
		}
		chapter := chapterNumber
		if chapter == "" {
			chapter = part
		}
		if chapter == "" {
			chapter = "1"
		}

		records = append(records, core.PassageRecord{
			TextName:          upanishadsTextName,
			Section:           section,
			Chapter:           chapter,
			Verse:             verse,
			Translation:       translation,
			TranslationSource: upanishadsTranslationSource,
			Tradition:         upanishadsTradition,
		})
	}

	return mergeRepeats(records), nil
}

// isUpanishadPageNumber reports whether the bare number at lines[idx] is a
// page number rather than a verse number.
func isUpanishadPageNumber(number string, lines []string, idx int) bool {
	n, err := strconv.Atoi(number)
	if err != nil {
		return false
	}
	if n > maxUpanishadVerse {
		return true
	}
	for j := max(idx-upanishadsHeaderReach, 0); j <= min(idx+upanishadsHeaderReach, len(lines)-1); j++ {
		if strings.Contains(lines[j], `Source: "The Upanishads`) {
			return true
		}
	}
	return false
}

// continuesList reports whether a bare number belongs to a list running
// through the verse text collected so far.
func continuesList(buf []string) bool {
	return len(buf) > 0 && strings.HasSuffix(buf[len(buf)-1], ",")
}
