package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSpeakerInference_InferNames(t *testing.T) {
	llm := &fakeCompleter{response: `Based on the introductions:
{
  "A": "Alex",
  "B": "B",
  "C": 42
}`}
	inference := NewSpeakerInference(llm, zap.NewNop())

	result := inference.InferNames(context.Background(), sampleTranscript())
	assert.False(t, result.Degraded)
	// Non-string values are skipped, identity mappings are kept as-is
	assert.Equal(t, map[string]string{"A": "Alex", "B": "B"}, result.Mapping)

	// The inference prompt uses bare labels, not the "Speaker X" form
	assert.Contains(t, llm.lastPrompt, "[00:00] A: Hi, I'm Alex.")
	assert.NotContains(t, llm.lastPrompt, "[00:00] Speaker A:")
	assert.Contains(t, llm.lastSystem, "speaker identification")
}

func TestSpeakerInference_InferNamesDegraded(t *testing.T) {
	t.Run("completion failure", func(t *testing.T) {
		llm := &fakeCompleter{err: errors.New("model not loaded")}
		inference := NewSpeakerInference(llm, zap.NewNop())

		result := inference.InferNames(context.Background(), sampleTranscript())
		assert.True(t, result.Degraded)
		assert.Contains(t, result.Reason, "completion failed")
		assert.NotNil(t, result.Mapping)
		assert.Empty(t, result.Mapping)
	})

	t.Run("no JSON in response", func(t *testing.T) {
		llm := &fakeCompleter{response: "Speaker A is probably Alex but I cannot be sure."}
		inference := NewSpeakerInference(llm, zap.NewNop())

		result := inference.InferNames(context.Background(), sampleTranscript())
		assert.True(t, result.Degraded)
		assert.Contains(t, result.Reason, "parse failed")
		assert.Empty(t, result.Mapping)
	})

	t.Run("mapping with no string values", func(t *testing.T) {
		llm := &fakeCompleter{response: `{"A": 1, "B": null}`}
		inference := NewSpeakerInference(llm, zap.NewNop())

		result := inference.InferNames(context.Background(), sampleTranscript())
		assert.True(t, result.Degraded)
		assert.Empty(t, result.Mapping)
	})
}

func TestSpeakerInference_AnalyzeTranscriptText(t *testing.T) {
	llm := &fakeCompleter{response: `{"Speaker A": "John Smith", "Speaker B": "Speaker B"}`}
	inference := NewSpeakerInference(llm, zap.NewNop())

	text := "Speaker A: Hi, I'm John Smith.\nSpeaker B: Nice to meet you, John."
	result := inference.AnalyzeTranscriptText(context.Background(), text)
	require.False(t, result.Degraded)
	assert.Equal(t, map[string]string{
		"Speaker A": "John Smith",
		"Speaker B": "Speaker B",
	}, result.Mapping)
	assert.Contains(t, llm.lastPrompt, text)
}
