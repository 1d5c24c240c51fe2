package pipeline

import (
	"fmt"
	"strings"

	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
)

// Summary renders a human-readable report of a processing result
func Summary(result *entities.ProcessingResult) string {
	var b strings.Builder

	b.WriteString("=== Meeting Processing Summary ===\n")
	b.WriteString(fmt.Sprintf("Meeting ID: %s\n", result.MeetingID))
	b.WriteString(fmt.Sprintf("Status: %s\n", result.Status))
	b.WriteString(fmt.Sprintf("Processing Time: %.2f seconds\n", result.ProcessingTime.Seconds()))

	if result.ErrorMessage != "" {
		b.WriteString(fmt.Sprintf("Error: %s\n", result.ErrorMessage))
	}

	if result.Transcript != nil {
		b.WriteString("\nTranscript:\n")
		b.WriteString(fmt.Sprintf("- Duration: %.1f minutes\n", float64(result.Transcript.Duration)/1000/60))
		b.WriteString(fmt.Sprintf("- Speakers: %d\n", len(result.Transcript.Speakers)))
		b.WriteString(fmt.Sprintf("- Segments: %d\n", len(result.Transcript.Segments)))
	}

	if result.Minutes != nil {
		b.WriteString("\nMeeting Minutes:\n")
		b.WriteString(fmt.Sprintf("- Key Points: %d\n", len(result.Minutes.KeyPoints)))
		b.WriteString(fmt.Sprintf("- Action Items: %d\n", len(result.Minutes.ActionItems)))
		b.WriteString(fmt.Sprintf("- Decisions: %d\n", len(result.Minutes.Decisions)))
		b.WriteString(fmt.Sprintf("- Next Steps: %d\n", len(result.Minutes.NextSteps)))
	}

	if len(result.CalendarEvents) > 0 {
		b.WriteString("\nCalendar Events:\n")
		b.WriteString(fmt.Sprintf("- Events Extracted: %d\n", len(result.CalendarEvents)))
		b.WriteString(fmt.Sprintf("- Events Created: %d\n", result.EventsCreated))
	}

	return b.String()
}
