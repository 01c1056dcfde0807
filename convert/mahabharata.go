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
	mahabharataTextName          = "Mahabharata"
	mahabharataTranslationSource = "Ramesh Menon"
	mahabharataTradition         = "Epic"

	minMahabharataCanto = 50
	minMahabharataLine  = 6
)

var (
	mahabharataCantoPattern     = regexp.MustCompile(`(?i)^CANTO\s+(\d+)$`)
	mahabharataParvaPattern     = regexp.MustCompile(`^([A-Z][A-Z\s]+PARVA(?:\s+CONTINUED)?)$`)
	mahabharataVolumePattern    = regexp.MustCompile(`(?i)^VOLUME\s+`)
	mahabharataCopyrightPattern = regexp.MustCompile(`(?i)^(copyright|ISBN|published|rupa|ramesh menon)`)
)

// ParseMahabharata reads Ramesh Menon's prose retelling, organized in
// numbered cantos under PARVA headings. Each canto is chunked like the
// Arthashastra chapters; the parva is the record's section.
func ParseMahabharata(r io.Reader) ([]core.PassageRecord, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var (
		records      []core.PassageRecord
		parva, canto string
		buf          []string
	)
	flush := func() {
		defer func() { buf = nil }()
		if canto == "" || len(buf) == 0 {
			return
		}
		text := collapseSpace(buf)
		if utf8.RuneCountInString(text) < minMahabharataCanto {
			return
		}
		records = append(records, chunkRecords(core.PassageRecord{
			TextName:          mahabharataTextName,
			Section:           parva,
			Chapter:           canto,
			TranslationSource: mahabharataTranslationSource,
			Tradition:         mahabharataTradition,
		}, text, ".!?")...)
	}

	for _, line := range lines {
		if line == "" || pageNumberPattern.MatchString(line) ||
			mahabharataCopyrightPattern.MatchString(line) || mahabharataVolumePattern.MatchString(line) {
			continue
		}
		if m := mahabharataCantoPattern.FindStringSubmatch(line); m != nil {
			flush()
			canto = m[1]
			continue
		}
		if m := mahabharataParvaPattern.FindStringSubmatch(line); m != nil {
			flush()
			parva = titleCase(m[1])
			continue
		}
		// Text before the first canto is front matter.
		if canto != "" && utf8.RuneCountInString(line) >= minMahabharataLine {
			buf = append(buf, line)
		}
	}
	flush()

	return mergeRepeats(records), nil
}

// titleCase turns "ADI PARVA  CONTINUED" into "Adi Parva Continued".
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
