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

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/poiesic/shastra/core"
)

// ParseJSON reads a JSON array of passage records.
func ParseJSON(r io.Reader) ([]core.PassageRecord, error) {
	var records []core.PassageRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}
	if records == nil {
		records = []core.PassageRecord{}
	}
	return records, nil
}
