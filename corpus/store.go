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
	"fmt"
	"slices"

	"github.com/poiesic/shastra/core"
)

// Store is the fixed set of scripture indexes. It is read-only after
// construction and safe for concurrent use.
type Store struct {
	order   []string
	indexes map[string]*Index
}

// NewStore creates a store over indexes. Their order is the catalog order
// used by Names, Scriptures and SearchAll.
func NewStore(indexes ...*Index) (*Store, error) {
	s := &Store{
		order:   make([]string, 0, len(indexes)),
		indexes: make(map[string]*Index, len(indexes)),
	}
	for _, idx := range indexes {
		name := idx.Scripture().Name
		if _, exists := s.indexes[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateScripture, name)
		}
		s.indexes[name] = idx
		s.order = append(s.order, name)
	}
	return s, nil
}

// Has reports whether the store contains the named scripture.
func (s *Store) Has(name string) bool {
	_, ok := s.indexes[name]
	return ok
}

// Names returns the scripture names in catalog order.
func (s *Store) Names() []string {
	return slices.Clone(s.order)
}

// Scriptures returns scripture descriptors in catalog order.
func (s *Store) Scriptures() []core.Scripture {
	out := make([]core.Scripture, len(s.order))
	for i, name := range s.order {
		out[i] = s.indexes[name].Scripture()
	}
	return out
}

// TotalPassages returns the passage count across every scripture.
func (s *Store) TotalPassages() int {
	total := 0
	for _, idx := range s.indexes {
		total += idx.Len()
	}
	return total
}

// Search runs Index.Search on the named scripture.
// Returns core.ErrScriptureNotFound for an unknown name.
func (s *Store) Search(name string, vector []float32, k int) ([]core.RetrievedPassage, error) {
	idx, ok := s.indexes[name]
	if !ok {
		return nil, notFound(name)
	}
	return idx.Search(vector, k), nil
}

// SearchMany searches each named scripture independently and concatenates
// the results grouped by scripture in the order of names. Results are not
// re-ranked across scriptures. Every name is checked before any search runs.
func (s *Store) SearchMany(names []string, vector []float32, kPerText int) ([]core.RetrievedPassage, error) {
	if err := s.CheckNames(names...); err != nil {
		return nil, err
	}
	results := make([]core.RetrievedPassage, 0, len(names)*max(kPerText, 0))
	for _, name := range names {
		results = append(results, s.indexes[name].Search(vector, kPerText)...)
	}
	return results, nil
}

// SearchAll searches every scripture with kPerText, keeps the limit best
// passages overall, and returns them grouped by scripture in catalog order
// with descending scores inside each group.
func (s *Store) SearchAll(vector []float32, kPerText, limit int) []core.RetrievedPassage {
	pool := make([]core.RetrievedPassage, 0, len(s.order)*max(kPerText, 0))
	for _, name := range s.order {
		pool = append(pool, s.indexes[name].Search(vector, kPerText)...)
	}

	slices.SortStableFunc(pool, byScoreDesc)
	if limit >= 0 && len(pool) > limit {
		pool = pool[:limit]
	}

	position := make(map[string]int, len(s.order))
	for i, name := range s.order {
		position[name] = i
	}
	slices.SortStableFunc(pool, func(a, b core.RetrievedPassage) int {
		return position[a.Scripture] - position[b.Scripture]
	})
	return pool
}

// CheckNames returns core.ErrScriptureNotFound for the first unknown name.
func (s *Store) CheckNames(names ...string) error {
	for _, name := range names {
		if !s.Has(name) {
			return notFound(name)
		}
	}
	return nil
}

// CheckDimension returns ErrDimensionMismatch when the length of vector
// differs from the stored vectors of a named scripture, or of any
// scripture when no names are given. Empty scriptures match any length.
func (s *Store) CheckDimension(vector []float32, names ...string) error {
	if len(names) == 0 {
		names = s.order
	}
	for _, name := range names {
		idx, ok := s.indexes[name]
		if !ok {
			return notFound(name)
		}
		if dim := idx.Dimension(); dim != 0 && dim != len(vector) {
			return fmt.Errorf("%w: %s stores %d values, query has %d",
				ErrDimensionMismatch, name, dim, len(vector))
		}
	}
	return nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", core.ErrScriptureNotFound, name)
}
