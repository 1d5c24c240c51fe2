package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/haiminhdev/meeting-agent/errors"
	pkgai "github.com/haiminhdev/meeting-agent/pkg/ai"
	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
	"github.com/haiminhdev/meeting-agent/internal/infrastructure/cache"
	"github.com/haiminhdev/meeting-agent/internal/infrastructure/external/calendar"
	"github.com/haiminhdev/meeting-agent/internal/usecase/ai"
)

// Transcriber produces a diarized transcript from a local audio file
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, meetingID string) (*entities.MeetingTranscript, error)
}

// SpeakerInferrer infers real names for diarization labels
type SpeakerInferrer interface {
	InferNames(ctx context.Context, transcript *entities.MeetingTranscript) ai.SpeakerMapResult
	AnalyzeTranscriptText(ctx context.Context, transcriptText string) ai.SpeakerMapResult
}

// MinutesGenerator produces structured minutes from a transcript
type MinutesGenerator interface {
	Generate(ctx context.Context, transcript *entities.MeetingTranscript) (*ai.MinutesResult, error)
}

// EventFinder extracts schedulable events from a transcript
type EventFinder interface {
	Extract(ctx context.Context, transcript *entities.MeetingTranscript) ai.EventsResult
}

// CalendarService pushes events to an external calendar
type CalendarService interface {
	CreateEvent(ctx context.Context, event entities.CalendarEvent) (*calendar.EventResponse, error)
}

// ArtifactStore persists transcript and minutes artifacts
type ArtifactStore interface {
	SaveTranscript(transcript *entities.MeetingTranscript) (string, error)
	SaveMinutes(minutes *entities.MeetingMinutes) (string, error)
}

// Service defines the meeting processing operations
type Service interface {
	ProcessMeeting(ctx context.Context, audioPath, meetingID string) *entities.ProcessingResult
	GenerateMinutes(ctx context.Context, audioPath, meetingID string) *entities.ProcessingResult
	ExtractEvents(ctx context.Context, audioPath, meetingID string) *entities.ProcessingResult
	GenerateTranscript(ctx context.Context, audioPath, meetingID string) *entities.ProcessingResult
	AnalyzeSpeakerNames(ctx context.Context, transcriptText string) (map[string]string, error)
	GetResult(meetingID string) (*entities.ProcessingResult, bool)
}

type service struct {
	transcriber Transcriber
	speakers    SpeakerInferrer
	minutes     MinutesGenerator
	events      EventFinder
	calendar    CalendarService // nil when calendar push is disabled
	artifacts   ArtifactStore
	results     *cache.ResultStore
	logger      *zap.Logger
}

// NewService constructs the pipeline service. Pass a nil calendar to disable
// event push; extracted events are still attached to the result.
func NewService(
	transcriber Transcriber,
	speakers SpeakerInferrer,
	minutes MinutesGenerator,
	events EventFinder,
	cal CalendarService,
	artifacts ArtifactStore,
	results *cache.ResultStore,
	logger *zap.Logger,
) Service {
	return &service{
		transcriber: transcriber,
		speakers:    speakers,
		minutes:     minutes,
		events:      events,
		calendar:    cal,
		artifacts:   artifacts,
		results:     results,
		logger:      logger,
	}
}

// ProcessMeeting runs the full pipeline: transcribe, relabel speakers,
// generate minutes, extract events and push them to the calendar. Inference
// and extraction failures degrade; transcription and relabel failures are
// fatal. Partial artifacts stay attached to a failed result.
func (s *service) ProcessMeeting(ctx context.Context, audioPath, meetingID string) *entities.ProcessingResult {
	start := time.Now()
	result := s.begin(meetingID)

	s.logger.Info("🚀 Starting meeting processing",
		zap.String("meeting_id", result.MeetingID),
		zap.String("audio_path", audioPath))

	transcript, err := s.transcriber.Transcribe(ctx, audioPath, result.MeetingID)
	if err != nil {
		return s.fail(result, apperrors.ErrTranscriptionFailed(err), start)
	}
	result.Transcript = transcript

	if err := s.relabelSpeakers(ctx, transcript); err != nil {
		return s.fail(result, apperrors.ErrProcessingFailed(err), start)
	}
	s.saveTranscriptArtifact(transcript)

	minutesResult, err := s.minutes.Generate(ctx, transcript)
	if err != nil {
		return s.fail(result, minutesError(err), start)
	}
	result.Minutes = minutesResult.Minutes
	s.saveMinutesArtifact(minutesResult.Minutes)

	eventsResult := s.events.Extract(ctx, transcript)
	result.CalendarEvents = eventsResult.Events
	result.EventsCreated = s.pushEvents(ctx, eventsResult.Events)

	return s.complete(result, start)
}

// GenerateMinutes transcribes the audio and generates minutes, skipping
// speaker relabeling and calendar extraction.
func (s *service) GenerateMinutes(ctx context.Context, audioPath, meetingID string) *entities.ProcessingResult {
	start := time.Now()
	result := s.begin(meetingID)

	s.logger.Info("📝 Generating minutes only", zap.String("meeting_id", result.MeetingID))

	transcript, err := s.transcriber.Transcribe(ctx, audioPath, result.MeetingID)
	if err != nil {
		return s.fail(result, apperrors.ErrTranscriptionFailed(err), start)
	}
	result.Transcript = transcript
	s.saveTranscriptArtifact(transcript)

	minutesResult, err := s.minutes.Generate(ctx, transcript)
	if err != nil {
		return s.fail(result, minutesError(err), start)
	}
	result.Minutes = minutesResult.Minutes
	s.saveMinutesArtifact(minutesResult.Minutes)

	return s.complete(result, start)
}

// ExtractEvents transcribes the audio, extracts calendar events and pushes
// them, skipping minutes generation.
func (s *service) ExtractEvents(ctx context.Context, audioPath, meetingID string) *entities.ProcessingResult {
	start := time.Now()
	result := s.begin(meetingID)

	s.logger.Info("📅 Extracting events only", zap.String("meeting_id", result.MeetingID))

	transcript, err := s.transcriber.Transcribe(ctx, audioPath, result.MeetingID)
	if err != nil {
		return s.fail(result, apperrors.ErrTranscriptionFailed(err), start)
	}
	result.Transcript = transcript
	s.saveTranscriptArtifact(transcript)

	eventsResult := s.events.Extract(ctx, transcript)
	result.CalendarEvents = eventsResult.Events
	result.EventsCreated = s.pushEvents(ctx, eventsResult.Events)

	return s.complete(result, start)
}

// GenerateTranscript transcribes the audio and stops there
func (s *service) GenerateTranscript(ctx context.Context, audioPath, meetingID string) *entities.ProcessingResult {
	start := time.Now()
	result := s.begin(meetingID)

	s.logger.Info("🎙️ Generating transcript only", zap.String("meeting_id", result.MeetingID))

	transcript, err := s.transcriber.Transcribe(ctx, audioPath, result.MeetingID)
	if err != nil {
		return s.fail(result, apperrors.ErrTranscriptionFailed(err), start)
	}
	result.Transcript = transcript
	s.saveTranscriptArtifact(transcript)

	return s.complete(result, start)
}

// AnalyzeSpeakerNames infers speaker names from raw transcript text. Unlike
// the in-pipeline inference, a degraded result here is surfaced as an error
// since the mapping is the whole point of the call.
func (s *service) AnalyzeSpeakerNames(ctx context.Context, transcriptText string) (map[string]string, error) {
	mapResult := s.speakers.AnalyzeTranscriptText(ctx, transcriptText)
	if mapResult.Degraded {
		return nil, apperrors.ErrProcessingFailed(nil).WithDetail("reason", mapResult.Reason)
	}
	return mapResult.Mapping, nil
}

// GetResult returns a previously computed processing result
func (s *service) GetResult(meetingID string) (*entities.ProcessingResult, bool) {
	return s.results.Get(meetingID)
}

func (s *service) begin(meetingID string) *entities.ProcessingResult {
	if meetingID == "" {
		meetingID = uuid.NewString()
	}
	result := entities.NewProcessingResult(meetingID)
	s.publish(result)
	return result
}

// publish stores a snapshot of the result. The run keeps mutating its own
// copy until it reaches a terminal state; readers polling the store must
// never observe fields mid-write.
func (s *service) publish(result *entities.ProcessingResult) {
	snapshot := *result
	s.results.Put(&snapshot)
}

// relabelSpeakers applies inferred names to the transcript. A degraded or
// empty inference keeps the original labels; a mapping that cannot be
// applied is a hard error.
func (s *service) relabelSpeakers(ctx context.Context, transcript *entities.MeetingTranscript) error {
	mapResult := s.speakers.InferNames(ctx, transcript)
	if mapResult.Degraded || len(mapResult.Mapping) == 0 {
		s.logger.Info("ℹ️ No speaker names inferred, keeping original labels",
			zap.String("meeting_id", transcript.MeetingID),
			zap.String("reason", mapResult.Reason))
		return nil
	}

	if err := transcript.ApplySpeakerNames(mapResult.Mapping); err != nil {
		return err
	}

	s.logger.Info("✅ Applied speaker names",
		zap.String("meeting_id", transcript.MeetingID),
		zap.Any("mapping", mapResult.Mapping))
	return nil
}

// minutesError distinguishes a dead or slow completion service from a
// minutes failure, so each surfaces with its own code.
func minutesError(err error) error {
	switch {
	case stderrors.Is(err, pkgai.ErrServiceUnavailable):
		return apperrors.ErrCompletionUnavailable(err)
	case stderrors.Is(err, pkgai.ErrTimeout):
		return apperrors.ErrCompletionTimeout(err)
	default:
		return apperrors.ErrMinutesFailed(err)
	}
}

// pushEvents creates the events one by one; a failed event never aborts the
// rest of the batch.
func (s *service) pushEvents(ctx context.Context, events []entities.CalendarEvent) int {
	if s.calendar == nil || len(events) == 0 {
		return 0
	}

	created := 0
	for _, event := range events {
		if _, err := s.calendar.CreateEvent(ctx, event); err != nil {
			s.logger.Warn("⚠️ Failed to create calendar event",
				zap.String("summary", event.Summary),
				zap.Error(err))
			continue
		}
		created++
	}

	s.logger.Info("📆 Calendar events pushed",
		zap.Int("created", created),
		zap.Int("extracted", len(events)))
	return created
}

func (s *service) saveTranscriptArtifact(transcript *entities.MeetingTranscript) {
	if s.artifacts == nil {
		return
	}
	if _, err := s.artifacts.SaveTranscript(transcript); err != nil {
		s.logger.Warn("⚠️ Failed to save transcript artifact",
			zap.String("meeting_id", transcript.MeetingID),
			zap.Error(err))
	}
}

func (s *service) saveMinutesArtifact(minutes *entities.MeetingMinutes) {
	if s.artifacts == nil {
		return
	}
	if _, err := s.artifacts.SaveMinutes(minutes); err != nil {
		s.logger.Warn("⚠️ Failed to save minutes artifact",
			zap.String("meeting_id", minutes.MeetingID),
			zap.Error(err))
	}
}

func (s *service) complete(result *entities.ProcessingResult, start time.Time) *entities.ProcessingResult {
	result.Complete(time.Since(start))
	s.publish(result)
	s.logger.Info("🏁 Processing completed",
		zap.String("meeting_id", result.MeetingID),
		zap.Duration("elapsed", result.ProcessingTime))
	return result
}

func (s *service) fail(result *entities.ProcessingResult, err error, start time.Time) *entities.ProcessingResult {
	result.Fail(err, time.Since(start))
	s.publish(result)
	s.logger.Error("❌ Processing failed",
		zap.String("meeting_id", result.MeetingID),
		zap.Error(err))
	return result
}
