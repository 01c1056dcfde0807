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
	"bufio"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/shastra/core"
)

const maxLineLength = 1 << 20

// readLines splits r into lines with surrounding whitespace removed.
func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	return lines, scanner.Err()
}

// collapseSpace joins parts and collapses whitespace runs to one space.
func collapseSpace(parts []string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Deduplicate keeps one record per chapter:verse, the one with the longest
// translation (the first on ties), sorted by chapter and first verse number.
func Deduplicate(records []core.PassageRecord) []core.PassageRecord {
	best := make(map[string]int, len(records))
	out := make([]core.PassageRecord, 0, len(records))
	for _, rec := range records {
		key := rec.Chapter + ":" + rec.Verse
		i, seen := best[key]
		if !seen {
			best[key] = len(out)
			out = append(out, rec)
			continue
		}
		if len(rec.Translation) > len(out[i].Translation) {
			out[i] = rec
		}
	}

	slices.SortStableFunc(out, func(a, b core.PassageRecord) int {
		if c := leadingNumber(a.Chapter) - leadingNumber(b.Chapter); c != 0 {
			return c
		}
		return leadingNumber(a.Verse) - leadingNumber(b.Verse)
	})
	return out
}

// leadingNumber parses the number before any range dash; 0 if none.
func leadingNumber(s string) int {
	first, _, _ := strings.Cut(s, "-")
	n, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0
	}
	return n
}
