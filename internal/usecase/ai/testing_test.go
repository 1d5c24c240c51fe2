package ai

import (
	"context"
	"time"

	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
)

// fakeCompleter returns a canned response or error and records the prompts
// it was called with.
type fakeCompleter struct {
	response      string
	err           error
	lastPrompt    string
	lastSystem    string
	completeCalls int
}

func (f *fakeCompleter) Complete(_ context.Context, prompt, systemPrompt string) (string, error) {
	f.completeCalls++
	f.lastPrompt = prompt
	f.lastSystem = systemPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func sampleTranscript() *entities.MeetingTranscript {
	t := entities.NewMeetingTranscript("meeting-1", "/tmp/standup.mp3", 125000)
	t.Speakers = []entities.Speaker{
		{Label: "A", Role: entities.SpeakerRoleParticipant, Confidence: 0.95},
		{Label: "B", Role: entities.SpeakerRoleParticipant, Confidence: 0.91},
	}
	t.Segments = []entities.TranscriptSegment{
		{Start: 0, End: 4000, Speaker: "A", Text: "Hi, I'm Alex. Let's get started.", Confidence: 0.97},
		{Start: 4000, End: 9000, Speaker: "B", Text: "Thanks Alex. We should ship the report by Friday.", Confidence: 0.93},
		{Start: 9000, End: 65000, Speaker: "A", Text: "Agreed. Let's sync again Thursday afternoon.", Confidence: 0.96},
	}
	t.CreatedAt = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	return t
}
