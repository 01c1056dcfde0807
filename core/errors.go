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


package core

import "errors"

// Domain errors
var (
	// ErrScriptureNotFound indicates a text filter or compare list named a
	// scripture that is not in the store.
	ErrScriptureNotFound = errors.New("scripture not found")

	// ErrInvalidQuery indicates a QueryRequest failed validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmptyQuestion indicates the question is empty after trimming.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrQuestionTooLong indicates the question exceeds MaxQuestionLength runes.
	ErrQuestionTooLong = errors.New("question too long")

	// ErrFilterAndCompare indicates both a text filter and a compare list were given.
	ErrFilterAndCompare = errors.New("cannot use text_filter and compare_texts together")

	// ErrCompareTooFew indicates a compare list with fewer than two texts.
	ErrCompareTooFew = errors.New("compare_texts requires at least two texts")

	// ErrDuplicateCompareText indicates the same text appears twice in a compare list.
	ErrDuplicateCompareText = errors.New("duplicate text in compare_texts")

	// ErrHistoryTooLong indicates the chat history exceeds MaxHistoryTurns.
	ErrHistoryTooLong = errors.New("chat history too long")

	// ErrInvalidRole indicates a chat turn with a role other than user or assistant.
	ErrInvalidRole = errors.New("invalid chat role")

	// ErrInvalidPassage indicates a PassageRecord failed validation.
	ErrInvalidPassage = errors.New("invalid passage")

	// ErrDuplicatePassage indicates two passages in one corpus share a reference.
	ErrDuplicatePassage = errors.New("duplicate passage")
)
