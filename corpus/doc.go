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


// Package corpus holds the in-memory vector indexes that retrieval runs
// against.
//
// An Index is one scripture's passages with their embedding vectors, kept in
// build order. A Store is the fixed set of indexes loaded at startup. Both
// are immutable once constructed, so a single Store can be shared by every
// concurrent request without locking. Construct the Store fully (see Load)
// before serving the first query.
package corpus
