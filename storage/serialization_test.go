package storage

import (
	"testing"

	"github.com/poiesic/shastra/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitaPassage() core.PassageRecord {
	return core.PassageRecord{
		TextName:          "Bhagavad Gita",
		Chapter:           "2",
		Verse:             "47",
		Translation:       "You have a right to perform your prescribed duty, but you are not entitled to the fruits of action.",
		TranslationSource: "A.C. Bhaktivedanta Swami Prabhupada",
		Tradition:         "Vedic",
	}
}

func TestMarshalUnmarshalPassage(t *testing.T) {
	tests := []struct {
		name    string
		passage core.PassageRecord
	}{
		{"empty passage", core.PassageRecord{}},
		{"gita passage", gitaPassage()},
		{
			name: "passage with section and unicode",
			passage: core.PassageRecord{
				TextName:    "Upanishads",
				Section:     "Katha Upanishad",
				Chapter:     "1",
				Verse:       "2",
				Translation: "श्रेयश्च प्रेयश्च मनुष्यमेतः",
				Tradition:   "Vedic",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalPassage(&tt.passage)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalPassage(data)
			require.NoError(t, err)
			assert.Equal(t, tt.passage, *decoded)
		})
	}
}

func TestMarshalUnmarshalIndexedPassage(t *testing.T) {
	tests := []struct {
		name   string
		vector []float32
	}{
		{"nil vector", nil},
		{"small vector", []float32{0.1, -0.2, 0.3}},
		{"wide vector", make([]float32, 768)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := &core.IndexedPassage{Passage: gitaPassage(), Vector: tt.vector}
			data := MarshalIndexedPassage(ip)

			decoded, err := UnmarshalIndexedPassage(data)
			require.NoError(t, err)
			assert.Equal(t, ip.Passage, decoded.Passage)
			assert.Len(t, decoded.Vector, len(tt.vector))
			for i := range tt.vector {
				assert.Equal(t, tt.vector[i], decoded.Vector[i])
			}
		})
	}
}

func TestUnmarshalIndexedPassage_Invalid(t *testing.T) {
	ip := &core.IndexedPassage{Passage: gitaPassage(), Vector: []float32{1, 2, 3, 4}}
	data := MarshalIndexedPassage(ip)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated passage", data[:10]},
		{"truncated vector", data[:len(data)-3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalIndexedPassage(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestUnmarshalIndexedPassage_VectorLengthExceedsData(t *testing.T) {
	ip := &core.IndexedPassage{Passage: gitaPassage(), Vector: []float32{1, 2}}
	data := MarshalIndexedPassage(ip)

	_, err := UnmarshalIndexedPassage(data[:len(data)-4])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncatedData)
}

func TestMarshalUnmarshalManifest(t *testing.T) {
	m := &CorpusManifest{
		Scripture:  core.Scripture{Name: "Bhagavad Gita", Tradition: "Vedic", Count: 700},
		Ordinal:    3,
		Generation: 42,
		Dimension:  768,
	}

	decoded, err := UnmarshalManifest(MarshalManifest(m))
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestUnmarshalManifest_Invalid(t *testing.T) {
	_, err := UnmarshalManifest([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
