package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
)

// Completer is the completion backend the analysis stages talk to. The
// Ollama client in pkg/ai satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// FormatTranscript renders a transcript for model consumption: a participant
// header followed by one "[MM:SS] Speaker X: text" line per segment.
func FormatTranscript(t *entities.MeetingTranscript) string {
	var b strings.Builder

	speakers := make([]string, 0, len(t.Speakers))
	for _, s := range t.Speakers {
		speakers = append(speakers, fmt.Sprintf("Speaker %s", s.Label))
	}
	b.WriteString(fmt.Sprintf("Meeting Participants: %s\n\n", strings.Join(speakers, ", ")))

	for _, seg := range t.Segments {
		b.WriteString(fmt.Sprintf("%s Speaker %s: %s\n", seg.Timestamp(), seg.Speaker, seg.Text))
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatForInference renders segments without the "Speaker" prefix so the
// model sees bare labels it can map to names.
func formatForInference(t *entities.MeetingTranscript) string {
	lines := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		lines = append(lines, fmt.Sprintf("%s %s: %s", seg.Timestamp(), seg.Speaker, seg.Text))
	}
	return strings.Join(lines, "\n")
}
