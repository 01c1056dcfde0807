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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/poiesic/shastra/core"
)

// Converter parses one source layout into passage records.
type Converter interface {
	Parse(r io.Reader) ([]core.PassageRecord, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(r io.Reader) ([]core.PassageRecord, error)

// Parse calls f(r).
func (f ConverterFunc) Parse(r io.Reader) ([]core.PassageRecord, error) {
	return f(r)
}

// Registry maps converter names to converters. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
	logger     *slog.Logger
}

// NewRegistry creates a registry holding the built-in converters.
func NewRegistry() *Registry {
	r := &Registry{
		converters: map[string]Converter{
			"json":         ConverterFunc(ParseJSON),
			"gita":         ConverterFunc(ParseGita),
			"upanishads":   ConverterFunc(ParseUpanishads),
			"manusmriti":   ConverterFunc(ParseManusmriti),
			"arthashastra": ConverterFunc(ParseArthashastra),
			"mahabharata":  ConverterFunc(ParseMahabharata),
			"ramayana":     ConverterFunc(ParseRamayana),
		},
		logger: slog.Default().With("component", "convert"),
	}
	return r
}

// Register adds a converter under name.
func (r *Registry) Register(name string, c Converter) error {
	if name == "" || c == nil {
		return fmt.Errorf("%w: name and converter are required", ErrUnknownConverter)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.converters[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateConverter, name)
	}
	r.converters[name] = c
	return nil
}

// Lookup returns the converter registered under name.
func (r *Registry) Lookup(name string) (Converter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.converters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConverter, name)
	}
	return c, nil
}

// Names returns the registered converter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.converters))
	for name := range r.converters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseFile reads the source at path with the named converter.
// PDF sources are converted to text first.
func (r *Registry) ParseFile(path, name string) ([]core.PassageRecord, error) {
	c, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	var records []core.PassageRecord
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := ExtractPDFText(path)
		if err != nil {
			return nil, err
		}
		records, err = c.Parse(strings.NewReader(text))
		if err != nil {
			return nil, err
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		records, err = c.Parse(f)
		if err != nil {
			return nil, err
		}
	}

	r.logger.Debug("parsed source", "path", path, "converter", name, "records", len(records))
	return records, nil
}
