package entities

import "time"

// ProcessingStatus is the lifecycle state of a pipeline run
type ProcessingStatus string

const (
	ProcessingStatusPending    ProcessingStatus = "pending"
	ProcessingStatusProcessing ProcessingStatus = "processing"
	ProcessingStatusCompleted  ProcessingStatus = "completed"
	ProcessingStatusFailed     ProcessingStatus = "failed"
)

// ProcessingResult aggregates everything a pipeline run produced. The
// pipeline service owns and mutates it for the duration of a run; stages that
// completed before a failure stay attached so callers can salvage them.
type ProcessingResult struct {
	Status         ProcessingStatus   `json:"status"`
	MeetingID      string             `json:"meeting_id"`
	Transcript     *MeetingTranscript `json:"transcript,omitempty"`
	Minutes        *MeetingMinutes    `json:"minutes,omitempty"`
	CalendarEvents []CalendarEvent    `json:"calendar_events"`
	EventsCreated  int                `json:"events_created"`
	ErrorMessage   string             `json:"error_message,omitempty"`
	ProcessingTime time.Duration      `json:"processing_time"`
}

// NewProcessingResult creates a result in the processing state
func NewProcessingResult(meetingID string) *ProcessingResult {
	return &ProcessingResult{
		Status:         ProcessingStatusProcessing,
		MeetingID:      meetingID,
		CalendarEvents: make([]CalendarEvent, 0),
	}
}

// Complete transitions the result to its terminal completed state
func (r *ProcessingResult) Complete(elapsed time.Duration) {
	r.Status = ProcessingStatusCompleted
	r.ProcessingTime = elapsed
}

// Fail transitions the result to its terminal failed state, keeping any
// partial artifacts already attached.
func (r *ProcessingResult) Fail(err error, elapsed time.Duration) {
	r.Status = ProcessingStatusFailed
	if err != nil {
		r.ErrorMessage = err.Error()
	}
	r.ProcessingTime = elapsed
}
