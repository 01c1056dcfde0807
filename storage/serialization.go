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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/shastra/core"
)

const float32Size = 4

// passageFields lists the string fields of a passage in wire order.
func passageFields(p *core.PassageRecord) []*string {
	return []*string{
		&p.TextName,
		&p.Section,
		&p.Chapter,
		&p.Verse,
		&p.Translation,
		&p.TranslationSource,
		&p.Tradition,
	}
}

func sizePassage(p *core.PassageRecord) (size int) {
	for _, f := range passageFields(p) {
		size += ord.String.Size(*f)
	}
	return
}

func marshalPassage(p *core.PassageRecord, bs []byte) (n int) {
	for _, f := range passageFields(p) {
		n += ord.String.Marshal(*f, bs[n:])
	}
	return
}

func unmarshalPassage(bs []byte) (p core.PassageRecord, n int, err error) {
	for _, f := range passageFields(&p) {
		var m int
		*f, m, err = ord.String.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return
		}
	}
	return
}

func sizeVector(v []float32) int {
	return varint.Uint64.Size(uint64(len(v))) + len(v)*float32Size
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(len(v)), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	if length > uint64(len(bs[n:])/float32Size) {
		err = fmt.Errorf("%w: vector of %d values exceeds %d remaining bytes", ErrTruncatedData, length, len(bs[n:]))
		return
	}
	v = make([]float32, length)
	for i := range v {
		var m int
		v[i], m, err = raw.Float32.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return
		}
	}
	return
}

// MarshalPassage serializes a PassageRecord to bytes.
func MarshalPassage(p *core.PassageRecord) []byte {
	buf := make([]byte, sizePassage(p))
	marshalPassage(p, buf)
	return buf
}

// UnmarshalPassage deserializes a PassageRecord from bytes.
func UnmarshalPassage(data []byte) (*core.PassageRecord, error) {
	p, _, err := unmarshalPassage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &p, nil
}

// MarshalIndexedPassage serializes a passage together with its vector.
func MarshalIndexedPassage(ip *core.IndexedPassage) []byte {
	buf := make([]byte, sizePassage(&ip.Passage)+sizeVector(ip.Vector))
	n := marshalPassage(&ip.Passage, buf)
	marshalVector(ip.Vector, buf[n:])
	return buf
}

// UnmarshalIndexedPassage deserializes a passage together with its vector.
func UnmarshalIndexedPassage(data []byte) (*core.IndexedPassage, error) {
	p, n, err := unmarshalPassage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	v, _, err := unmarshalVector(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &core.IndexedPassage{Passage: p, Vector: v}, nil
}

// MarshalManifest serializes a CorpusManifest to bytes.
func MarshalManifest(m *CorpusManifest) []byte {
	size := ord.String.Size(m.Scripture.Name) +
		ord.String.Size(m.Scripture.Tradition) +
		varint.Uint64.Size(uint64(m.Scripture.Count)) +
		varint.Uint64.Size(m.Ordinal) +
		varint.Uint64.Size(m.Generation) +
		varint.Uint64.Size(m.Dimension)
	buf := make([]byte, size)
	n := ord.String.Marshal(m.Scripture.Name, buf)
	n += ord.String.Marshal(m.Scripture.Tradition, buf[n:])
	n += varint.Uint64.Marshal(uint64(m.Scripture.Count), buf[n:])
	n += varint.Uint64.Marshal(m.Ordinal, buf[n:])
	n += varint.Uint64.Marshal(m.Generation, buf[n:])
	varint.Uint64.Marshal(m.Dimension, buf[n:])
	return buf
}

// UnmarshalManifest deserializes a CorpusManifest from bytes.
func UnmarshalManifest(data []byte) (*CorpusManifest, error) {
	var (
		m     CorpusManifest
		n, k  int
		count uint64
		err   error
	)
	if m.Scripture.Name, k, err = ord.String.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += k
	if m.Scripture.Tradition, k, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += k
	for _, dst := range []*uint64{&count, &m.Ordinal, &m.Generation, &m.Dimension} {
		if *dst, k, err = varint.Uint64.Unmarshal(data[n:]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		n += k
	}
	m.Scripture.Count = int(count)
	return &m, nil
}
