package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
	"github.com/haiminhdev/meeting-agent/pkg/config"
)

// ArtifactStore writes transcript and minutes artifacts to the local output
// directories.
type ArtifactStore struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewArtifactStore creates an artifact store rooted at the configured output
// directory.
func NewArtifactStore(cfg *config.Config, logger *zap.Logger) *ArtifactStore {
	return &ArtifactStore{cfg: cfg, logger: logger}
}

// SaveTranscript writes the transcript as a plain-text file and returns the
// path it was written to.
func (s *ArtifactStore) SaveTranscript(transcript *entities.MeetingTranscript) (string, error) {
	path := filepath.Join(s.cfg.TranscriptsDir(), fmt.Sprintf("%s_transcript.txt", transcript.MeetingID))

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Meeting Transcript - %s\n", transcript.MeetingID))
	b.WriteString(fmt.Sprintf("Date: %s\n", transcript.CreatedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Duration: %02d:%02d\n", transcript.Duration/1000/60, transcript.Duration/1000%60))

	labels := make([]string, 0, len(transcript.Speakers))
	for _, speaker := range transcript.Speakers {
		labels = append(labels, speaker.Label)
	}
	b.WriteString(fmt.Sprintf("Participants: %s\n", strings.Join(labels, ", ")))
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	for _, seg := range transcript.Segments {
		b.WriteString(fmt.Sprintf("%s %s: %s\n", seg.Timestamp(), seg.Speaker, seg.Text))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to save transcript: %w", err)
	}

	s.logger.Info("✅ Transcript saved", zap.String("path", path))
	return path, nil
}

// SaveMinutes writes the minutes as a Markdown file and returns the path it
// was written to.
func (s *ArtifactStore) SaveMinutes(minutes *entities.MeetingMinutes) (string, error) {
	path := filepath.Join(s.cfg.MinutesDir(), fmt.Sprintf("%s_minutes.md", minutes.MeetingID))

	if err := os.WriteFile(path, []byte(RenderMinutes(minutes)), 0o644); err != nil {
		return "", fmt.Errorf("failed to save minutes: %w", err)
	}

	s.logger.Info("✅ Meeting minutes saved", zap.String("path", path))
	return path, nil
}

// ReadTranscriptFile returns the raw contents of a saved transcript file
func (s *ArtifactStore) ReadTranscriptFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript file: %w", err)
	}
	return string(data), nil
}

// RenderMinutes renders meeting minutes as a Markdown document. Every
// section is present; empty ones render as "None.".
func RenderMinutes(minutes *entities.MeetingMinutes) string {
	var b strings.Builder

	b.WriteString("# Meeting Minutes\n\n")
	b.WriteString(fmt.Sprintf("**Date:** %s\n", minutes.Date.Format("Monday, January 2, 2006 03:04 PM")))
	b.WriteString(fmt.Sprintf("**Duration:** %.1f minutes\n", minutes.Duration.Minutes()))
	b.WriteString(fmt.Sprintf("**Participants:** %s\n\n", strings.Join(minutes.Participants, ", ")))

	b.WriteString("## Key Points Discussed\n\n")
	if len(minutes.KeyPoints) > 0 {
		for _, point := range minutes.KeyPoints {
			b.WriteString(fmt.Sprintf("- %s\n", point))
		}
	} else {
		b.WriteString("None.\n")
	}

	b.WriteString("\n## Action Items\n\n")
	if len(minutes.ActionItems) > 0 {
		for i, item := range minutes.ActionItems {
			assignee := item.Assignee
			if assignee == "" {
				assignee = "TBD"
			}
			due := "TBD"
			if item.DueDate != nil {
				due = item.DueDate.Format("2006-01-02")
			}
			b.WriteString(fmt.Sprintf("%d. **%s** (Assignee: %s, Due: %s, Priority: %s, Status: %s)\n",
				i+1, item.Description, assignee, due, item.Priority, item.Status))
		}
	} else {
		b.WriteString("None.\n")
	}

	b.WriteString("\n## Decisions Made\n\n")
	if len(minutes.Decisions) > 0 {
		for _, decision := range minutes.Decisions {
			b.WriteString(fmt.Sprintf("- **%s:** %s", decision.Topic, decision.Decision))
			if decision.Rationale != "" {
				b.WriteString(fmt.Sprintf(" *(Rationale: %s)*", decision.Rationale))
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("None.\n")
	}

	b.WriteString("\n## Next Steps\n\n")
	if len(minutes.NextSteps) > 0 {
		for _, step := range minutes.NextSteps {
			b.WriteString(fmt.Sprintf("- %s\n", step))
		}
	} else {
		b.WriteString("None.\n")
	}

	b.WriteString("\n## Summary\n\n")
	if minutes.Summary != "" {
		b.WriteString(minutes.Summary + "\n")
	} else {
		b.WriteString("None.\n")
	}

	return b.String()
}
