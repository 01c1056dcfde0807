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


// Package guardrail classifies questions before any retrieval work runs.
//
// The service describes what the scriptures say; it does not prescribe what
// a user should do. A Classifier rejects questions that ask for personal,
// ethical or practical advice. The default KeywordClassifier scans an ordered
// phrase list and rejects on the first phrase contained in the question, so
// it errs towards rejecting.
//
// Classifier is an interface so a stricter implementation can replace the
// keyword scan without changes to the retrieval pipeline.
package guardrail
