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


// Package indexing builds the persisted corpus store from parsed passages.
//
// Building is an explicit, offline step: the Builder embeds every passage
// once, in batches on a worker pool, and saves the result as one corpus in a
// storage.CorpusRepository. Nothing in this package runs at query time.
//
//	builder, err := indexing.NewBuilder(repo, provider,
//	    indexing.WithBatchSize(50),
//	    indexing.WithProgressWriter(os.Stderr),
//	)
//	if err != nil {
//	    return err
//	}
//	defer builder.Release()
//
//	scripture, err := builder.Build(ctx, core.Scripture{Name: "Bhagavad Gita"}, passages)
package indexing
