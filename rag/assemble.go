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

import "github.com/poiesic/shastra/core"

const (
	// PrescriptionAnswer is returned for questions the guardrail rejects.
	PrescriptionAnswer = "The text can be described, not prescribed. This assistant describes what the scriptures say but does not offer personal, ethical, or practical life advice."

	// NotAddressedAnswer is returned when no passage clears the relevance threshold.
	NotAddressedAnswer = "The text does not explicitly address this. No relevant passages were found for this question."
)

// Outcome classifies how a query ended.
type Outcome int

const (
	// OutcomeAnswered means passages were retrieved and an answer generated.
	OutcomeAnswered Outcome = iota + 1
	// OutcomeGuardrailRejected means the question asked for advice.
	OutcomeGuardrailRejected
	// OutcomeNoRelevantPassages means nothing cleared the relevance threshold.
	OutcomeNoRelevantPassages
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAnswered:
		return "answered"
	case OutcomeGuardrailRejected:
		return "guardrail_rejected"
	case OutcomeNoRelevantPassages:
		return "no_relevant_passages"
	default:
		return "unknown"
	}
}

// Result is the response to one query and how it was reached.
type Result struct {
	Response core.AnswerResponse
	Outcome  Outcome
}

// Assemble builds the AnswerResponse. It copies passages, so the response
// never aliases the caller's slice. Verses is never nil.
func Assemble(text string, passages []core.RetrievedPassage, compare bool) core.AnswerResponse {
	verses := make([]core.RetrievedPassage, len(passages))
	copy(verses, passages)
	return core.AnswerResponse{
		Answer:      text,
		Verses:      verses,
		CompareMode: compare,
	}
}
