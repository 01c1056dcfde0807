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


package convert

import "errors"

var (
	// ErrUnknownConverter indicates a converter name with no registration.
	ErrUnknownConverter = errors.New("unknown converter")

	// ErrDuplicateConverter indicates a second registration under one name.
	ErrDuplicateConverter = errors.New("converter already registered")

	// ErrMalformedSource indicates a source file the converter cannot read.
	ErrMalformedSource = errors.New("malformed source")
)
