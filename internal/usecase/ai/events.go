package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
)

// Accepted event time layouts, tried in order
var eventTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// eventsPayload is the JSON shape the model is asked to produce
type eventsPayload struct {
	Events []struct {
		Summary     string   `json:"summary"`
		Description string   `json:"description"`
		StartTime   string   `json:"start_time"`
		EndTime     string   `json:"end_time"`
		Attendees   []string `json:"attendees"`
		Location    string   `json:"location"`
	} `json:"events"`
}

// EventsResult carries the extracted events plus a degradation marker. A
// degraded result means extraction as a whole was skipped (completion or
// parse failure); individually malformed candidates are dropped silently and
// do not degrade the result.
type EventsResult struct {
	Events   []entities.CalendarEvent
	Degraded bool
	Reason   string
}

// EventExtractor finds schedulable events in a meeting transcript
type EventExtractor struct {
	llm    Completer
	logger *zap.Logger
	now    func() time.Time
}

// NewEventExtractor creates an event extraction stage
func NewEventExtractor(llm Completer, logger *zap.Logger) *EventExtractor {
	return &EventExtractor{llm: llm, logger: logger, now: time.Now}
}

// systemPrompt anchors relative date phrases ("Thursday", "next Sunday") to
// the current wall clock so the model can resolve them to absolute times.
func (e *EventExtractor) systemPrompt() string {
	now := e.now()
	return fmt.Sprintf(`Today is %s. The current time is %s.

When extracting event dates/times from the transcript:
- "Thursday" means the next Thursday after today.
- "Next Sunday" means the Sunday after the coming Sunday.
- "23rd Afternoon" means 12pm-1pm on the 23rd of this month (or next month if the 23rd has passed).
- "29th June around 2pm" means 29th June of this year at 2pm.
- "5pm today" means today at 5pm.
- If the transcript mentions "lunch", set the time to 12:00 pm.
- If the transcript mentions "afternoon", set the time to 1:00 pm.
- If the transcript mentions "evening", set the time to 6:00 pm.
- If the transcript mentions "morning", set the time to 9:00 am.
- If a date is ambiguous, prefer the next possible occurrence.
- Always return the event start and end time in the format YYYY-MM-DD HH:MM (24-hour time).
`, now.Format("Monday, January 2, 2006"), now.Format("03:04 PM"))
}

// Extract asks the model for schedulable events mentioned in the transcript.
// Completion and parse failures degrade to an empty event list; candidates
// with missing or unparseable times are dropped one by one.
func (e *EventExtractor) Extract(ctx context.Context, transcript *entities.MeetingTranscript) EventsResult {
	e.logger.Info("📅 Extracting calendar events", zap.String("meeting_id", transcript.MeetingID))

	prompt := fmt.Sprintf(`Please analyze this meeting transcript and extract any calendar events that should be scheduled:

%s

Please provide the events in the following JSON format:
{
    "events": [
        {
            "summary": "event title",
            "description": "event description",
            "start_time": "YYYY-MM-DD HH:MM",
            "end_time": "YYYY-MM-DD HH:MM",
            "attendees": ["email1@example.com", "email2@example.com"],
            "location": "meeting location or null"
        }
    ]
}

Only include events that have specific dates and times mentioned. If no clear events are found, return an empty events array.`, FormatTranscript(transcript))

	response, err := e.llm.Complete(ctx, prompt, e.systemPrompt())
	if err != nil {
		e.logger.Warn("⚠️ Event extraction completion failed", zap.Error(err))
		return degradedEvents(fmt.Sprintf("completion failed: %v", err))
	}

	var payload eventsPayload
	if err := ExtractJSON(response, &payload); err != nil {
		e.logger.Warn("⚠️ Event extraction response unparseable",
			zap.Error(err),
			zap.String("raw_response", response))
		return degradedEvents(fmt.Sprintf("parse failed: %v", err))
	}

	events := make([]entities.CalendarEvent, 0, len(payload.Events))
	for _, candidate := range payload.Events {
		start, err := parseEventTime(candidate.StartTime)
		if err != nil {
			e.logger.Warn("⚠️ Dropping event with bad start time",
				zap.String("summary", candidate.Summary),
				zap.String("start_time", candidate.StartTime))
			continue
		}
		end, err := parseEventTime(candidate.EndTime)
		if err != nil {
			e.logger.Warn("⚠️ Dropping event with bad end time",
				zap.String("summary", candidate.Summary),
				zap.String("end_time", candidate.EndTime))
			continue
		}
		if !end.After(start) {
			e.logger.Warn("⚠️ Dropping event that does not end after it starts",
				zap.String("summary", candidate.Summary),
				zap.Time("start", start),
				zap.Time("end", end))
			continue
		}

		location := candidate.Location
		if location == "null" {
			location = ""
		}

		events = append(events, entities.CalendarEvent{
			Summary:     candidate.Summary,
			Description: candidate.Description,
			Start:       start,
			End:         end,
			Attendees:   entities.ValidAttendees(candidate.Attendees),
			Location:    location,
			Reminders:   entities.DefaultReminderPolicy(),
		})
	}

	e.logger.Info("✅ Calendar events extracted",
		zap.String("meeting_id", transcript.MeetingID),
		zap.Int("count", len(events)))

	return EventsResult{Events: events}
}

func parseEventTime(value string) (time.Time, error) {
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q does not match expected formats", entities.ErrInvalidEventTime, value)
}

func degradedEvents(reason string) EventsResult {
	return EventsResult{
		Events:   make([]entities.CalendarEvent, 0),
		Degraded: true,
		Reason:   reason,
	}
}
