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


package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	corpusManifestPrefix = "corman:"
	corpusPassagePrefix  = "corpsg:"
)

// makeManifestKey generates the key holding a corpus manifest.
// Format: prefix name
func makeManifestKey(name string) []byte {
	return []byte(corpusManifestPrefix + name)
}

// makeGenerationPrefix generates the key prefix shared by every passage of
// one corpus generation.
// Format: prefix name 0x00 generation
func makeGenerationPrefix(name string, generation uint64) []byte {
	prefix := corpusPassagePrefix + name + "\x00"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], generation)
	return buf
}

// makePassageKey generates the key for the seq-th passage of a corpus generation.
// Format: prefix name 0x00 generation seq
func makePassageKey(name string, generation, seq uint64) []byte {
	prefix := makeGenerationPrefix(name, generation)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
