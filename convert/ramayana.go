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
	"strings"
	"unicode/utf8"

	"github.com/poiesic/shastra/core"
)

const (
	ramayanaTextName          = "Ramayana"
	ramayanaTranslationSource = "Ralph T.H. Griffith (1870-1874)"
	ramayanaTradition         = "Epic"

	minRamayanaCanto = 50
	minRamayanaLine  = 3
)

var (
	ramayanaBookPattern     = regexp.MustCompile(`(?i)^BOOK\s+([IVXLC]+)\.`)
	ramayanaCantoPattern    = regexp.MustCompile(`(?i)^CANTO\s+([IVXLC]+)\s*[:.]*\s*(.*)`)
	ramayanaNavPattern      = regexp.MustCompile(`(?i)^(Sacred Texts|Next:|Previous:|Footnotes|Index|p\.\s*\d+)`)
	ramayanaFootnotePattern = regexp.MustCompile(`^\d+:\d+`)
	// Griffith's footnote markers trail the line they annotate: "spoke; 3", "lies. 12b".
	ramayanaMarkerPattern = regexp.MustCompile(`\s*\d+b?\s*$`)
)

// ParseRamayana reads Griffith's verse translation, organized in cantos
// under BOOK headings. The contents pages before the first BOOK are
// skipped. Each canto is chunked at sentence and semicolon boundaries; its
// chapter label carries the canto title, e.g. "I: NÁRAD".
func ParseRamayana(r io.Reader) ([]core.PassageRecord, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var (
		records                 []core.PassageRecord
		book, canto, cantoTitle string
		buf                     []string
	)
	inContents := true
	flush := func() {
		defer func() { buf = nil }()
		if canto == "" || len(buf) == 0 {
			return
		}
		text := strings.TrimSpace(ramayanaMarkerPattern.ReplaceAllString(collapseSpace(buf), ""))
		if utf8.RuneCountInString(text) < minRamayanaCanto {
			return
		}
		chapter := canto
		if cantoTitle != "" {
			chapter += ": " + cantoTitle
		}
		base := core.PassageRecord{
			TextName:          ramayanaTextName,
			Chapter:           chapter,
			TranslationSource: ramayanaTranslationSource,
			Tradition:         ramayanaTradition,
		}
		if book != "" {
			base.Section = "Book " + book
		}
		records = append(records, chunkRecords(base, text, ".!?;")...)
	}

	for _, line := range lines {
		if line == "" || pageNumberPattern.MatchString(line) {
			continue
		}
		if m := ramayanaBookPattern.FindStringSubmatch(line); m != nil {
			flush()
			book, canto, cantoTitle = m[1], "", ""
			inContents = false
			continue
		}
		if inContents {
			continue
		}
		if m := ramayanaCantoPattern.FindStringSubmatch(line); m != nil {
			flush()
			canto = m[1]
			cantoTitle = strings.TrimSpace(strings.TrimRight(ramayanaMarkerPattern.ReplaceAllString(m[2], ""), ". "))
			continue
		}
		if ramayanaNavPattern.MatchString(line) || ramayanaFootnotePattern.MatchString(line) {
			continue
		}
		if canto != "" && utf8.RuneCountInString(line) >= minRamayanaLine {
			buf = append(buf, line)
		}
	}
	flush()

	return mergeRepeats(records), nil
}
