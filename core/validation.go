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

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxQuestionLength is the maximum question length in runes.
	MaxQuestionLength = 500

	// MaxHistoryTurns bounds the chat history accepted with a question.
	MaxHistoryTurns = 20
)

// ValidateQuery validates a QueryRequest according to domain rules.
//
// Validation rules:
//   - Question must not be empty after trimming, and at most MaxQuestionLength runes
//   - TextFilter and CompareTexts are mutually exclusive
//   - CompareTexts, when present, names at least two distinct texts
//   - ChatHistory holds at most MaxHistoryTurns turns with user or assistant roles
//
// Scripture names are NOT checked here; the store reports unknown names.
func ValidateQuery(req *QueryRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidQuery)
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrEmptyQuestion)
	}
	if n := utf8.RuneCountInString(question); n > MaxQuestionLength {
		return fmt.Errorf("%w: %w (%d > %d characters)", ErrInvalidQuery, ErrQuestionTooLong, n, MaxQuestionLength)
	}

	if req.TextFilter != "" && len(req.CompareTexts) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrFilterAndCompare)
	}

	if req.CompareTexts != nil {
		if len(req.CompareTexts) < 2 {
			return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrCompareTooFew)
		}
		seen := make(map[string]bool, len(req.CompareTexts))
		for _, name := range req.CompareTexts {
			if seen[name] {
				return fmt.Errorf("%w: %w: %q", ErrInvalidQuery, ErrDuplicateCompareText, name)
			}
			seen[name] = true
		}
	}

	if len(req.ChatHistory) > MaxHistoryTurns {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrHistoryTooLong)
	}
	for _, turn := range req.ChatHistory {
		if err := ValidateChatRole(turn.Role); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		}
	}

	return nil
}

// ValidateChatRole validates that a ChatRole has a valid value.
func ValidateChatRole(role ChatRole) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return nil
}

// ValidatePassage validates a PassageRecord produced by a converter.
//
// Section, TranslationSource and Tradition are optional.
func ValidatePassage(p *PassageRecord) error {
	if p == nil {
		return fmt.Errorf("%w: passage is nil", ErrInvalidPassage)
	}
	switch {
	case p.TextName == "":
		return fmt.Errorf("%w: text name is empty", ErrInvalidPassage)
	case p.Chapter == "":
		return fmt.Errorf("%w: chapter is empty (%s)", ErrInvalidPassage, p.TextName)
	case p.Verse == "":
		return fmt.Errorf("%w: verse is empty (%s %s)", ErrInvalidPassage, p.TextName, p.Chapter)
	case strings.TrimSpace(p.Translation) == "":
		return fmt.Errorf("%w: translation is empty (%s)", ErrInvalidPassage, p.Reference())
	}
	return nil
}
