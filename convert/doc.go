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


// Package convert turns raw scripture sources into passage records.
//
// Each source text has a Converter that understands its layout. Converters
// are registered by name in a Registry; the corpus build looks them up from
// the text catalog. Sources ending in .pdf are reduced to plain text lines
// before the converter sees them.
//
// Built-in converters:
//
//   - json: an array of records in the standard passage schema
//   - gita: Bhagavad-gita As It Is (CHAPTER / TEXT / TRANSLATION / PURPORT)
//   - upanishads: numbered verses under Upanishad, Part and Chapter headings
//   - manusmriti: numbered "chapter.verse." lines under "Chapter N" headings
//   - arthashastra: prose chapters under BOOK headings, chunked
//   - mahabharata: prose cantos under PARVA headings, chunked
//   - ramayana: verse cantos under BOOK headings, chunked
//
// The prose texts carry no verse numbers. Their chapters are cut at sentence
// boundaries into records of at most 1500 characters, numbered as verses.
package convert
