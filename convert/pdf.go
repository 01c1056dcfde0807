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
	"fmt"
	"math"
	"os"
	"strings"

	"rsc.io/pdf"
)

// lineTolerance is the vertical distance, in points, within which glyphs
// are treated as one line.
const lineTolerance = 1.0

// ExtractPDFText returns the text of every page, one line per visual line,
// pages separated by a blank line.
func ExtractPDFText(path string) (text string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	// rsc.io/pdf reports malformed input by panicking.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, r)
		}
	}()

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		writePageText(&b, page.Content().Text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// writePageText lays glyph runs out as lines. A change in baseline starts a
// new line; a horizontal gap wider than a fifth of the font size becomes a
// space.
func writePageText(b *strings.Builder, texts []pdf.Text) {
	var prev *pdf.Text
	for i := range texts {
		t := &texts[i]
		if prev != nil {
			switch {
			case math.Abs(t.Y-prev.Y) > lineTolerance:
				b.WriteString("\n")
			case t.X-(prev.X+prev.W) > t.FontSize*0.2:
				b.WriteString(" ")
			}
		}
		b.WriteString(t.S)
		prev = t
	}
	if prev != nil {
		b.WriteString("\n")
	}
}
