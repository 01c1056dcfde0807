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

import "errors"

var (
	// ErrDuplicateScripture indicates two indexes with the same scripture name.
	ErrDuplicateScripture = errors.New("duplicate scripture")

	// ErrDimensionMismatch indicates vectors of different lengths in one index,
	// or a query vector whose length differs from the stored vectors.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrUnnamedScripture indicates an index without a scripture name.
	ErrUnnamedScripture = errors.New("scripture name is required")
)
