package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
)

const minutesSystemPrompt = `You are an expert meeting assistant. Your task is to analyze a meeting transcript and generate comprehensive meeting minutes.

Focus on:
1. Key points discussed
2. Action items with assignees and due dates
3. Decisions made with rationale
4. Next steps

Be concise but thorough. Extract specific dates, times, and commitments mentioned.`

const dueDateLayout = "2006-01-02"

// minutesPayload is the JSON shape the model is asked to produce
type minutesPayload struct {
	KeyPoints   []string `json:"key_points"`
	ActionItems []struct {
		Description string `json:"description"`
		Assignee    string `json:"assignee"`
		DueDate     string `json:"due_date"`
		Priority    string `json:"priority"`
	} `json:"action_items"`
	Decisions []struct {
		Topic     string `json:"topic"`
		Decision  string `json:"decision"`
		Rationale string `json:"rationale"`
	} `json:"decisions"`
	NextSteps []string `json:"next_steps"`
	Summary   string   `json:"summary"`
}

// MinutesResult carries generated minutes plus a degradation marker. When
// the model response cannot be parsed as JSON the minutes come from the
// plain-text fallback and Degraded is set; the pipeline still continues.
type MinutesResult struct {
	Minutes  *entities.MeetingMinutes
	Degraded bool
	Reason   string
}

// MinutesSynthesizer turns a transcript into structured meeting minutes
type MinutesSynthesizer struct {
	llm    Completer
	logger *zap.Logger
}

// NewMinutesSynthesizer creates a minutes generation stage
func NewMinutesSynthesizer(llm Completer, logger *zap.Logger) *MinutesSynthesizer {
	return &MinutesSynthesizer{llm: llm, logger: logger}
}

// Generate produces meeting minutes for the transcript. A completion failure
// is returned as an error; an unparseable response falls back to plain-text
// extraction and is flagged as degraded instead.
func (m *MinutesSynthesizer) Generate(ctx context.Context, transcript *entities.MeetingTranscript) (*MinutesResult, error) {
	m.logger.Info("📝 Generating meeting minutes", zap.String("meeting_id", transcript.MeetingID))

	prompt := fmt.Sprintf(`Please analyze this meeting transcript and generate structured meeting minutes:

%s

Please provide the analysis in the following JSON format:
{
    "key_points": ["point1", "point2", ...],
    "action_items": [
        {
            "description": "action item description",
            "assignee": "person name or 'TBD'",
            "due_date": "YYYY-MM-DD or null",
            "priority": "low/medium/high"
        }
    ],
    "decisions": [
        {
            "topic": "decision topic",
            "decision": "what was decided",
            "rationale": "why this decision was made"
        }
    ],
    "next_steps": ["step1", "step2", ...],
    "summary": "brief summary of the meeting"
}`, FormatTranscript(transcript))

	response, err := m.llm.Complete(ctx, prompt, minutesSystemPrompt)
	if err != nil {
		return nil, err
	}

	result := &MinutesResult{}
	var payload minutesPayload
	if err := ExtractJSON(response, &payload); err != nil {
		m.logger.Warn("⚠️ Minutes response unparseable, using fallback parsing",
			zap.Error(err),
			zap.String("raw_response", response))
		payload = fallbackParse(response)
		result.Degraded = true
		result.Reason = fmt.Sprintf("parse failed: %v", err)
	}

	result.Minutes = m.buildMinutes(transcript, payload)
	m.logger.Info("✅ Meeting minutes generated",
		zap.String("meeting_id", transcript.MeetingID),
		zap.Int("key_points", len(result.Minutes.KeyPoints)),
		zap.Int("action_items", len(result.Minutes.ActionItems)),
		zap.Bool("degraded", result.Degraded))

	return result, nil
}

func (m *MinutesSynthesizer) buildMinutes(transcript *entities.MeetingTranscript, payload minutesPayload) *entities.MeetingMinutes {
	minutes := entities.NewMeetingMinutes(transcript.MeetingID)
	minutes.Date = transcript.CreatedAt
	minutes.Duration = time.Duration(transcript.Duration) * time.Millisecond
	minutes.Participants = transcript.ParticipantNames()
	minutes.Summary = payload.Summary

	if payload.KeyPoints != nil {
		minutes.KeyPoints = payload.KeyPoints
	}
	if payload.NextSteps != nil {
		minutes.NextSteps = payload.NextSteps
	}

	for _, item := range payload.ActionItems {
		actionItem := entities.NewActionItem(item.Description)
		actionItem.Assignee = item.Assignee
		actionItem.Priority = entities.NormalizePriority(item.Priority)
		// Unparseable due dates are dropped, not errors
		if item.DueDate != "" && item.DueDate != "null" {
			if due, err := time.Parse(dueDateLayout, item.DueDate); err == nil {
				actionItem.DueDate = &due
			}
		}
		minutes.ActionItems = append(minutes.ActionItems, actionItem)
	}

	for _, d := range payload.Decisions {
		minutes.Decisions = append(minutes.Decisions, entities.Decision{
			Topic:     d.Topic,
			Decision:  d.Decision,
			Rationale: d.Rationale,
		})
	}

	return minutes
}

var summaryPattern = regexp.MustCompile(`(?i)summary[:\s]+(.+)`)

// fallbackParse salvages what it can from a non-JSON response: bullet lines
// become key points and a "summary:" line becomes the summary. Action items,
// decisions and next steps are not recoverable from free text.
func fallbackParse(response string) minutesPayload {
	payload := minutesPayload{
		KeyPoints: make([]string, 0),
		NextSteps: make([]string, 0),
	}

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 2 && (strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*")) {
			payload.KeyPoints = append(payload.KeyPoints, strings.TrimSpace(strings.TrimLeft(line, "-•*")))
		}
	}

	if match := summaryPattern.FindStringSubmatch(response); match != nil {
		payload.Summary = strings.TrimSpace(match[1])
	}

	return payload
}
