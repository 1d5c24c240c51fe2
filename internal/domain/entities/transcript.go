package entities

import (
	"fmt"
	"time"
)

// SpeakerRole describes the role of a speaker in the meeting
type SpeakerRole string

const (
	SpeakerRoleParticipant SpeakerRole = "participant"
	SpeakerRoleModerator   SpeakerRole = "moderator"
	SpeakerRoleUnknown     SpeakerRole = "unknown"
)

// Speaker represents one diarized voice in the meeting.
// Label starts as the opaque diarization label ("A", "B") and is rewritten
// exactly once when speaker names are applied; Role and Confidence are fixed
// at creation time.
type Speaker struct {
	Label      string      `json:"speaker_id"`
	Role       SpeakerRole `json:"role"`
	Name       string      `json:"name,omitempty"`
	Confidence float64     `json:"confidence" validate:"gte=0,lte=1"`
}

// TranscriptSegment is a contiguous utterance attributed to one speaker.
// Start and End are offsets in milliseconds from the beginning of the audio.
type TranscriptSegment struct {
	Start      int     `json:"start" validate:"gte=0"`
	End        int     `json:"end" validate:"gtefield=Start"`
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text" validate:"required"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Timestamp renders the segment start as [MM:SS]
func (s TranscriptSegment) Timestamp() string {
	return fmt.Sprintf("[%02d:%02d]", s.Start/1000/60, s.Start/1000%60)
}

// MeetingTranscript is the complete diarized transcript of one meeting.
// Segments are ordered by start time; every segment speaker label is expected
// to appear in Speakers (by convention, not enforced per append).
type MeetingTranscript struct {
	MeetingID string              `json:"meeting_id"`
	AudioPath string              `json:"audio_url"`
	Duration  int                 `json:"duration"` // milliseconds
	Speakers  []Speaker           `json:"speakers"`
	Segments  []TranscriptSegment `json:"segments"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewMeetingTranscript creates an empty transcript shell for a meeting
func NewMeetingTranscript(meetingID, audioPath string, durationMS int) *MeetingTranscript {
	return &MeetingTranscript{
		MeetingID: meetingID,
		AudioPath: audioPath,
		Duration:  durationMS,
		Speakers:  make([]Speaker, 0),
		Segments:  make([]TranscriptSegment, 0),
		CreatedAt: time.Now(),
	}
}

// ApplySpeakerNames rewrites speaker labels throughout the transcript using
// the given label-to-name mapping. Keys are matched against the current
// (pre-rewrite) labels only, so no entry is relabeled twice; segments and the
// speaker list are updated together so they stay consistent. An empty mapping
// leaves the transcript untouched.
func (t *MeetingTranscript) ApplySpeakerNames(names map[string]string) error {
	if len(names) == 0 {
		return nil
	}
	for label, name := range names {
		if name == "" {
			return fmt.Errorf("%w: empty name for speaker %q", ErrInvalidSpeakerName, label)
		}
	}
	for i := range t.Segments {
		if name, ok := names[t.Segments[i].Speaker]; ok {
			t.Segments[i].Speaker = name
		}
	}
	for i := range t.Speakers {
		if name, ok := names[t.Speakers[i].Label]; ok {
			t.Speakers[i].Name = name
			t.Speakers[i].Label = name
		}
	}
	return nil
}

// ParticipantNames returns the distinct segment speaker labels, in first-seen
// order. After ApplySpeakerNames these are the resolved names.
func (t *MeetingTranscript) ParticipantNames() []string {
	seen := make(map[string]bool, len(t.Speakers))
	names := make([]string, 0, len(t.Speakers))
	for _, seg := range t.Segments {
		if !seen[seg.Speaker] {
			seen[seg.Speaker] = true
			names = append(names, seg.Speaker)
		}
	}
	return names
}
