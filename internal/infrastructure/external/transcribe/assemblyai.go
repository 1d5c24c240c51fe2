package transcribe

import (
	"context"
	"fmt"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
	"github.com/haiminhdev/meeting-agent/pkg/config"
	"github.com/haiminhdev/meeting-agent/pkg/retry"
)

// Transcriber turns local audio files into diarized transcripts using the
// AssemblyAI SDK.
type Transcriber struct {
	client *aai.Client
	cfg    *config.AssemblyConfig
	logger *zap.Logger
}

// NewTranscriber creates a transcriber backed by AssemblyAI
func NewTranscriber(cfg *config.AssemblyConfig, logger *zap.Logger) *Transcriber {
	return &Transcriber{
		client: aai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger,
	}
}

// Transcribe uploads the audio file, runs transcription with speaker labels
// and maps the utterances into a meeting transcript. Utterance order is
// preserved and speakers are listed in first-seen order.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, meetingID string) (*entities.MeetingTranscript, error) {
	if t.cfg.APIKey == "" {
		return nil, fmt.Errorf("assemblyai API key not configured")
	}

	t.logger.Info("🎙️ Starting transcription",
		zap.String("meeting_id", meetingID),
		zap.String("audio_path", audioPath))

	audioURL, err := t.upload(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio: %w", err)
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	if t.cfg.SpeakersExpected > 0 {
		params.SpeakersExpected = aai.Int64(int64(t.cfg.SpeakersExpected))
	}

	transcript, err := t.client.Transcripts.TranscribeFromURL(ctx, audioURL, params)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		errMsg := "unknown error"
		if transcript.Error != nil {
			errMsg = *transcript.Error
		}
		return nil, fmt.Errorf("transcription failed: %s", errMsg)
	}

	result := t.buildTranscript(transcript, audioPath, meetingID)

	t.logger.Info("✅ Transcription completed",
		zap.String("meeting_id", meetingID),
		zap.Int("segments", len(result.Segments)),
		zap.Int("speakers", len(result.Speakers)))

	return result, nil
}

// upload sends the local file to AssemblyAI, retrying transient failures
func (t *Transcriber) upload(ctx context.Context, audioPath string) (string, error) {
	var audioURL string

	err := retry.Do(ctx, func() error {
		f, err := os.Open(audioPath)
		if err != nil {
			// A missing file never becomes readable by retrying
			return fmt.Errorf("invalid audio path: %w", err)
		}
		defer f.Close()

		url, err := t.client.Upload(ctx, f)
		if err != nil {
			return err
		}
		audioURL = url
		return nil
	})

	return audioURL, err
}

func (t *Transcriber) buildTranscript(transcript aai.Transcript, audioPath, meetingID string) *entities.MeetingTranscript {
	durationMS := 0
	if transcript.AudioDuration != nil {
		durationMS = int(*transcript.AudioDuration) * 1000
	}
	result := entities.NewMeetingTranscript(meetingID, audioPath, durationMS)

	seen := make(map[string]bool)
	for _, utt := range transcript.Utterances {
		segment := entities.TranscriptSegment{}
		if utt.Start != nil {
			segment.Start = int(*utt.Start)
		}
		if utt.End != nil {
			segment.End = int(*utt.End)
		}
		if utt.Speaker != nil {
			segment.Speaker = *utt.Speaker
		}
		if utt.Text != nil {
			segment.Text = *utt.Text
		}
		if utt.Confidence != nil {
			segment.Confidence = *utt.Confidence
		}
		result.Segments = append(result.Segments, segment)

		if !seen[segment.Speaker] {
			seen[segment.Speaker] = true
			result.Speakers = append(result.Speakers, entities.Speaker{
				Label: segment.Speaker,
				Role:  entities.SpeakerRoleParticipant,
				// Utterances carry no per-speaker confidence
				Confidence: 1.0,
			})
		}
	}

	return result
}
