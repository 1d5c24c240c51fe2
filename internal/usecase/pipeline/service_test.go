package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
	"github.com/haiminhdev/meeting-agent/internal/infrastructure/cache"
	"github.com/haiminhdev/meeting-agent/internal/infrastructure/external/calendar"
	"github.com/haiminhdev/meeting-agent/internal/usecase/ai"
	pkgai "github.com/haiminhdev/meeting-agent/pkg/ai"
)

type fakeTranscriber struct {
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audioPath, meetingID string) (*entities.MeetingTranscript, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	t := entities.NewMeetingTranscript(meetingID, audioPath, 125000)
	t.Speakers = []entities.Speaker{
		{Label: "A", Role: entities.SpeakerRoleParticipant, Confidence: 1.0},
		{Label: "B", Role: entities.SpeakerRoleParticipant, Confidence: 1.0},
	}
	t.Segments = []entities.TranscriptSegment{
		{Start: 0, End: 4000, Speaker: "A", Text: "Hi, I'm Alex."},
		{Start: 4000, End: 9000, Speaker: "B", Text: "Let's meet Thursday at noon."},
	}
	return t, nil
}

type fakeSpeakers struct {
	result ai.SpeakerMapResult
	calls  int
}

func (f *fakeSpeakers) InferNames(context.Context, *entities.MeetingTranscript) ai.SpeakerMapResult {
	f.calls++
	return f.result
}

func (f *fakeSpeakers) AnalyzeTranscriptText(context.Context, string) ai.SpeakerMapResult {
	return f.result
}

type fakeMinutes struct {
	err   error
	calls int
}

func (f *fakeMinutes) Generate(_ context.Context, transcript *entities.MeetingTranscript) (*ai.MinutesResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	minutes := entities.NewMeetingMinutes(transcript.MeetingID)
	minutes.Participants = transcript.ParticipantNames()
	minutes.KeyPoints = []string{"Thursday meeting agreed"}
	minutes.Summary = "Short sync."
	return &ai.MinutesResult{Minutes: minutes}, nil
}

type fakeEvents struct {
	result ai.EventsResult
	calls  int
}

func (f *fakeEvents) Extract(context.Context, *entities.MeetingTranscript) ai.EventsResult {
	f.calls++
	return f.result
}

type fakeCalendar struct {
	failSummaries map[string]bool
	created       []string
}

func (f *fakeCalendar) CreateEvent(_ context.Context, event entities.CalendarEvent) (*calendar.EventResponse, error) {
	if f.failSummaries[event.Summary] {
		return nil, errors.New("calendar API returned status 500")
	}
	f.created = append(f.created, event.Summary)
	return &calendar.EventResponse{ID: "evt-" + event.Summary, Summary: event.Summary}, nil
}

type fakeArtifacts struct {
	transcripts int
	minutes     int
}

func (f *fakeArtifacts) SaveTranscript(*entities.MeetingTranscript) (string, error) {
	f.transcripts++
	return "/tmp/out.txt", nil
}

func (f *fakeArtifacts) SaveMinutes(*entities.MeetingMinutes) (string, error) {
	f.minutes++
	return "/tmp/out.md", nil
}

func twoEvents() ai.EventsResult {
	return ai.EventsResult{Events: []entities.CalendarEvent{
		{
			Summary: "Thursday sync",
			Start:   time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC),
			End:     time.Date(2025, 6, 5, 13, 0, 0, 0, time.UTC),
		},
		{
			Summary: "Friday review",
			Start:   time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC),
			End:     time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC),
		},
	}}
}

type fixture struct {
	transcriber *fakeTranscriber
	speakers    *fakeSpeakers
	minutes     *fakeMinutes
	events      *fakeEvents
	calendar    *fakeCalendar
	artifacts   *fakeArtifacts
	results     *cache.ResultStore
	service     Service
}

func newFixture() *fixture {
	f := &fixture{
		transcriber: &fakeTranscriber{},
		speakers:    &fakeSpeakers{result: ai.SpeakerMapResult{Mapping: map[string]string{"A": "Alex"}}},
		minutes:     &fakeMinutes{},
		events:      &fakeEvents{result: twoEvents()},
		calendar:    &fakeCalendar{},
		artifacts:   &fakeArtifacts{},
		results:     cache.NewResultStore(time.Hour),
	}
	f.service = NewService(f.transcriber, f.speakers, f.minutes, f.events, f.calendar, f.artifacts, f.results, zap.NewNop())
	return f
}

func TestProcessMeeting_Success(t *testing.T) {
	f := newFixture()

	result := f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusCompleted, result.Status)
	assert.Empty(t, result.ErrorMessage)
	assert.GreaterOrEqual(t, result.ProcessingTime, time.Duration(0))

	// Speaker names applied to segments and speaker list
	require.NotNil(t, result.Transcript)
	assert.Equal(t, "Alex", result.Transcript.Segments[0].Speaker)
	assert.Equal(t, "Alex", result.Transcript.Speakers[0].Label)
	assert.Equal(t, "B", result.Transcript.Segments[1].Speaker)

	require.NotNil(t, result.Minutes)
	assert.Equal(t, []string{"Alex", "B"}, result.Minutes.Participants)

	assert.Len(t, result.CalendarEvents, 2)
	assert.Equal(t, 2, result.EventsCreated)
	assert.Equal(t, []string{"Thursday sync", "Friday review"}, f.calendar.created)

	assert.Equal(t, 1, f.artifacts.transcripts)
	assert.Equal(t, 1, f.artifacts.minutes)

	stored, ok := f.service.GetResult("meeting-1")
	require.True(t, ok)
	assert.Equal(t, result, stored)
}

func TestProcessMeeting_GeneratesMeetingID(t *testing.T) {
	f := newFixture()

	result := f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "")

	_, err := uuid.Parse(result.MeetingID)
	assert.NoError(t, err)
}

func TestProcessMeeting_TranscriptionFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.transcriber.err = errors.New("upload rejected")

	result := f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "upload rejected")
	assert.Nil(t, result.Transcript)
	assert.Equal(t, 0, f.minutes.calls)
	assert.Equal(t, 0, f.events.calls)
}

func TestProcessMeeting_DegradedInferenceKeepsLabels(t *testing.T) {
	f := newFixture()
	f.speakers.result = ai.SpeakerMapResult{
		Mapping:  map[string]string{},
		Degraded: true,
		Reason:   "completion failed: connection refused",
	}

	result := f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusCompleted, result.Status)
	assert.Equal(t, "A", result.Transcript.Segments[0].Speaker)
	assert.Equal(t, 1, f.minutes.calls)
}

func TestProcessMeeting_BadMappingIsFatal(t *testing.T) {
	f := newFixture()
	f.speakers.result = ai.SpeakerMapResult{Mapping: map[string]string{"A": ""}}

	result := f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "invalid speaker name")
	// Transcript attached even though the run failed
	assert.NotNil(t, result.Transcript)
	assert.Equal(t, 0, f.minutes.calls)
}

func TestProcessMeeting_MinutesFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.minutes.err = errors.New("ollama service unavailable")

	result := f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "ollama service unavailable")
	assert.NotNil(t, result.Transcript)
	assert.Nil(t, result.Minutes)
	assert.Equal(t, 0, f.events.calls)
}

func TestProcessMeeting_CompletionOutageIsDistinguished(t *testing.T) {
	f := newFixture()
	f.minutes.err = fmt.Errorf("%w: connection refused", pkgai.ErrServiceUnavailable)

	result := f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "COMPLETION_UNAVAILABLE")

	f = newFixture()
	f.minutes.err = fmt.Errorf("%w: context deadline exceeded", pkgai.ErrTimeout)

	result = f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-2")

	assert.Equal(t, entities.ProcessingStatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "COMPLETION_TIMEOUT")
}

func TestProcessMeeting_DegradedEventsCompletes(t *testing.T) {
	f := newFixture()
	f.events.result = ai.EventsResult{
		Events:   []entities.CalendarEvent{},
		Degraded: true,
		Reason:   "parse failed: no JSON object found in response",
	}

	result := f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusCompleted, result.Status)
	assert.Empty(t, result.CalendarEvents)
	assert.Equal(t, 0, result.EventsCreated)
}

func TestProcessMeeting_EventPushFailuresAreIsolated(t *testing.T) {
	f := newFixture()
	f.calendar.failSummaries = map[string]bool{"Thursday sync": true}

	result := f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusCompleted, result.Status)
	assert.Len(t, result.CalendarEvents, 2)
	assert.Equal(t, 1, result.EventsCreated)
	assert.Equal(t, []string{"Friday review"}, f.calendar.created)
}

func TestProcessMeeting_NilCalendarSkipsPush(t *testing.T) {
	f := newFixture()
	f.service = NewService(f.transcriber, f.speakers, f.minutes, f.events, nil, f.artifacts, f.results, zap.NewNop())

	result := f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusCompleted, result.Status)
	assert.Len(t, result.CalendarEvents, 2)
	assert.Equal(t, 0, result.EventsCreated)
}

func TestGenerateMinutes_SkipsInferenceAndEvents(t *testing.T) {
	f := newFixture()

	result := f.service.GenerateMinutes(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusCompleted, result.Status)
	assert.NotNil(t, result.Minutes)
	assert.Equal(t, 0, f.speakers.calls)
	assert.Equal(t, 0, f.events.calls)
	// Labels untouched without inference
	assert.Equal(t, "A", result.Transcript.Segments[0].Speaker)
}

func TestExtractEvents_SkipsMinutes(t *testing.T) {
	f := newFixture()

	result := f.service.ExtractEvents(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusCompleted, result.Status)
	assert.Nil(t, result.Minutes)
	assert.Len(t, result.CalendarEvents, 2)
	assert.Equal(t, 2, result.EventsCreated)
	assert.Equal(t, 0, f.minutes.calls)
}

func TestGenerateTranscript_TranscriptOnly(t *testing.T) {
	f := newFixture()

	result := f.service.GenerateTranscript(context.Background(), "/tmp/standup.mp3", "meeting-1")

	assert.Equal(t, entities.ProcessingStatusCompleted, result.Status)
	assert.NotNil(t, result.Transcript)
	assert.Nil(t, result.Minutes)
	assert.Empty(t, result.CalendarEvents)
	assert.Equal(t, 0, f.speakers.calls)
	assert.Equal(t, 0, f.minutes.calls)
	assert.Equal(t, 0, f.events.calls)
	assert.Equal(t, 1, f.artifacts.transcripts)
}

func TestAnalyzeSpeakerNames(t *testing.T) {
	f := newFixture()

	mapping, err := f.service.AnalyzeSpeakerNames(context.Background(), "Speaker A: Hi, I'm Alex.")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "Alex"}, mapping)

	f.speakers.result = ai.SpeakerMapResult{Degraded: true, Reason: "completion failed"}
	_, err = f.service.AnalyzeSpeakerNames(context.Background(), "Speaker A: Hi.")
	assert.Error(t, err)
}

type blockingTranscriber struct {
	started chan struct{}
	release chan struct{}
	inner   fakeTranscriber
}

func (b *blockingTranscriber) Transcribe(ctx context.Context, audioPath, meetingID string) (*entities.MeetingTranscript, error) {
	close(b.started)
	<-b.release
	return b.inner.Transcribe(ctx, audioPath, meetingID)
}

func TestGetResult_InFlightRunReturnsSnapshot(t *testing.T) {
	f := newFixture()
	bt := &blockingTranscriber{started: make(chan struct{}), release: make(chan struct{})}
	f.service = NewService(bt, f.speakers, f.minutes, f.events, f.calendar, f.artifacts, f.results, zap.NewNop())

	done := make(chan *entities.ProcessingResult, 1)
	go func() {
		done <- f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-1")
	}()

	// The run is parked inside transcription; a concurrent poll must see a
	// stable snapshot, not the object the run is still writing to.
	<-bt.started
	stored, ok := f.service.GetResult("meeting-1")
	require.True(t, ok)
	assert.Equal(t, entities.ProcessingStatusProcessing, stored.Status)
	assert.Nil(t, stored.Transcript)

	close(bt.release)
	result := <-done

	assert.NotSame(t, result, stored)
	assert.Equal(t, entities.ProcessingStatusProcessing, stored.Status)

	final, ok := f.service.GetResult("meeting-1")
	require.True(t, ok)
	assert.Equal(t, entities.ProcessingStatusCompleted, final.Status)
	assert.NotNil(t, final.Transcript)
}

func TestGetResult_Missing(t *testing.T) {
	f := newFixture()

	_, ok := f.service.GetResult("nope")
	assert.False(t, ok)
}

func TestSummary(t *testing.T) {
	f := newFixture()

	result := f.service.ProcessMeeting(context.Background(), "/tmp/standup.mp3", "meeting-1")
	summary := Summary(result)

	assert.Contains(t, summary, "Meeting ID: meeting-1")
	assert.Contains(t, summary, "Status: completed")
	assert.Contains(t, summary, "- Segments: 2")
	assert.Contains(t, summary, "- Key Points: 1")
	assert.Contains(t, summary, "- Events Created: 2")
}
