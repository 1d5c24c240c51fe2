package meeting

import (
	"time"

	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
)

// ProcessingResultResponse is the API shape of a pipeline run result
type ProcessingResultResponse struct {
	MeetingID      string                      `json:"meeting_id"`
	Status         string                      `json:"status"`
	Transcript     *entities.MeetingTranscript `json:"transcript,omitempty"`
	Minutes        *entities.MeetingMinutes    `json:"minutes,omitempty"`
	CalendarEvents []entities.CalendarEvent    `json:"calendar_events"`
	EventsCreated  int                         `json:"events_created"`
	ErrorMessage   string                      `json:"error_message,omitempty"`
	ProcessingTime float64                     `json:"processing_time_seconds"`
	Summary        string                      `json:"summary"`
}

// SpeakerMapResponse is the API shape of a speaker name analysis
type SpeakerMapResponse struct {
	Mapping map[string]string `json:"mapping"`
}

// HealthResponse reports service health and dependency reachability
type HealthResponse struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment"`
	Time        time.Time `json:"time"`
}
