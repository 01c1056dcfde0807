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


package corpus

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/poiesic/shastra/core"
)

// Index is one scripture's passages and vectors in build order.
type Index struct {
	scripture core.Scripture
	entries   []core.IndexedPassage
	norms     []float64
	dimension int
}

// NewIndex creates an index over entries. Every vector must have the same
// length. Scripture.Count is set from the number of entries.
func NewIndex(scripture core.Scripture, entries []core.IndexedPassage) (*Index, error) {
	if scripture.Name == "" {
		return nil, ErrUnnamedScripture
	}

	idx := &Index{
		entries: entries,
		norms:   make([]float64, len(entries)),
	}
	for i, entry := range entries {
		if i == 0 {
			idx.dimension = len(entry.Vector)
		} else if len(entry.Vector) != idx.dimension {
			return nil, fmt.Errorf("%w: %s entry %d has %d values, expected %d",
				ErrDimensionMismatch, scripture.Name, i, len(entry.Vector), idx.dimension)
		}
		idx.norms[i] = norm(entry.Vector)
	}

	scripture.Count = len(entries)
	idx.scripture = scripture
	return idx, nil
}

// Scripture returns the scripture the index covers.
func (idx *Index) Scripture() core.Scripture {
	return idx.scripture
}

// Len returns the number of passages.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Dimension returns the vector length shared by all entries, or 0 when empty.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// Search returns at most k passages ordered by descending cosine similarity
// to vector. Equal scores keep build order.
func (idx *Index) Search(vector []float32, k int) []core.RetrievedPassage {
	if k <= 0 || len(idx.entries) == 0 {
		return []core.RetrievedPassage{}
	}

	queryNorm := norm(vector)
	scored := make([]core.RetrievedPassage, len(idx.entries))
	for i := range idx.entries {
		scored[i] = core.RetrievedPassage{
			Passage:   idx.entries[i].Passage,
			Scripture: idx.scripture.Name,
			Score:     similarity(vector, queryNorm, idx.entries[i].Vector, idx.norms[i]),
		}
	}

	slices.SortStableFunc(scored, byScoreDesc)
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func byScoreDesc(a, b core.RetrievedPassage) int {
	return cmp.Compare(b.Score, a.Score)
}
