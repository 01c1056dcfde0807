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


// Package server exposes the question answering pipeline over HTTP.
//
// Routes:
//
//	POST /api/ask     answer a question
//	GET  /api/texts   list the loaded scriptures
//	GET  /api/health  liveness and corpus sizes
//
// Invalid requests map to 400, unknown scripture names to 404 and provider
// failures to 500 with a generic message; provider detail is only logged.
package server
