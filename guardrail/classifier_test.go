package guardrail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"   ", ""},
		{"What Is Dharma?", "what is dharma?"},
		{"  should\t\tI \n leave  ", "should i leave"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestKeywordClassifier_Default(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		name     string
		question string
		allowed  bool
		phrase   string
	}{
		{"descriptive question", "What are the three gunas?", true, ""},
		{"uppercase trigger", "SHOULD I renounce my job?", false, "should i"},
		{"whitespace inside trigger", "Should   I\tmeditate daily?", false, "should i"},
		{"trigger mid sentence", "According to Krishna, what should Arjuna do?", false, "what should"},
		{"first match in list order", "Is it right for me to fight?", false, "is it right for me to"},
		{"future", "Will I be reborn?", false, "will i"},
		{"modern application", "How does karma apply to my career?", false, "apply to"},
		{"substring inside word", "What is the moral in today's reading?", false, "in today"},
		{"false positive accepted", "Why does Arjuna ask what should be done?", false, "what should"},
		{"empty question", "", true, ""},
		{"plain comparison", "How do the Upanishads describe Brahman?", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Classify(tt.question)
			assert.Equal(t, tt.allowed, v.Allowed)
			assert.Equal(t, tt.phrase, v.Phrase)
		})
	}
}

func TestKeywordClassifier_CustomPhrases(t *testing.T) {
	c := NewKeywordClassifier("  Tell ME  ", "", "advise")

	assert.Equal(t, []string{"tell me", "advise"}, c.Phrases())
	assert.False(t, c.Classify("Please tell   me about moksha").Allowed)
	assert.True(t, c.Classify("What is moksha?").Allowed)
}

func TestKeywordClassifier_PhrasesIsCopy(t *testing.T) {
	c := NewKeywordClassifier()
	phrases := c.Phrases()
	phrases[0] = "mutated"

	assert.Equal(t, "should i", c.Phrases()[0])
}
