package indexing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Increment(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "Upanishads", 100, 10)

	tracker.Start()
	tracker.Increment(25)
	tracker.Increment(25)
	tracker.Increment(75)

	assert.Equal(t, 100, tracker.Current(), "capped at total")
	output := buf.String()
	assert.Contains(t, output, "Upanishads: 100/100")
	assert.Contains(t, output, "100.0%")
}

func TestProgressTracker_BelowInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "Gita", 100, 50)

	tracker.Start()
	tracker.Increment(10)

	assert.Empty(t, buf.String())
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "Gita", 100, 10)

	tracker.Start()
	tracker.Increment(75)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "100/100", "finish should set to total")
	assert.Contains(t, output, "\n", "finish should print newline")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "Gita", 10, 1)

	tracker.Increment(5)
	tracker.Finish()

	assert.Equal(t, 0, tracker.Current())
	assert.Empty(t, buf.String())
}
