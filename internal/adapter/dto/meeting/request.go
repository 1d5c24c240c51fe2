package meeting

// ProcessMeetingRequest starts a pipeline run over a local audio file. The
// meeting ID is optional; one is generated when absent.
type ProcessMeetingRequest struct {
	AudioPath string `json:"audio_path" validate:"required,audio_format"`
	MeetingID string `json:"meeting_id,omitempty"`
}

// AnalyzeTranscriptRequest asks for speaker name inference over raw
// transcript text.
type AnalyzeTranscriptRequest struct {
	TranscriptText string `json:"transcript_text" validate:"required"`
}
