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


package rag

import (
	"github.com/poiesic/shastra/ai"
	"github.com/poiesic/shastra/core"
)

// Monitor provides hooks to observe a query as it moves through the pipeline.
// Implementations must be safe for concurrent use.
type Monitor interface {
	Start(req *core.QueryRequest)
	GuardrailRejected(phrase string)
	AfterEmbedding(text string, dimension int)
	AfterRetrieval(mode core.QueryMode, candidates []core.RetrievedPassage)
	AfterThreshold(kept []core.RetrievedPassage)
	BeforeGeneration(req ai.GenerationRequest)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = noopMonitor{}

func (noopMonitor) Start(_ *core.QueryRequest)                                 {}
func (noopMonitor) GuardrailRejected(_ string)                                 {}
func (noopMonitor) AfterEmbedding(_ string, _ int)                             {}
func (noopMonitor) AfterRetrieval(_ core.QueryMode, _ []core.RetrievedPassage) {}
func (noopMonitor) AfterThreshold(_ []core.RetrievedPassage)                   {}
func (noopMonitor) BeforeGeneration(_ ai.GenerationRequest)                    {}
func (noopMonitor) Finish(_ *Result)                                           {}
