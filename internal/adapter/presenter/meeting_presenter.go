package presenter

import (
	"github.com/haiminhdev/meeting-agent/internal/adapter/dto/meeting"
	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
	"github.com/haiminhdev/meeting-agent/internal/usecase/pipeline"
)

// PresentResult maps a processing result to its API response, including the
// rendered summary report.
func PresentResult(result *entities.ProcessingResult) *meeting.ProcessingResultResponse {
	return &meeting.ProcessingResultResponse{
		MeetingID:      result.MeetingID,
		Status:         string(result.Status),
		Transcript:     result.Transcript,
		Minutes:        result.Minutes,
		CalendarEvents: result.CalendarEvents,
		EventsCreated:  result.EventsCreated,
		ErrorMessage:   result.ErrorMessage,
		ProcessingTime: result.ProcessingTime.Seconds(),
		Summary:        pipeline.Summary(result),
	}
}

// PresentSpeakerMap maps an inferred speaker mapping to its API response
func PresentSpeakerMap(mapping map[string]string) *meeting.SpeakerMapResponse {
	if mapping == nil {
		mapping = make(map[string]string)
	}
	return &meeting.SpeakerMapResponse{Mapping: mapping}
}
