package handler

import (
	"context"
	stdErrors "errors"
	"path/filepath"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/haiminhdev/meeting-agent/errors"
	"github.com/haiminhdev/meeting-agent/internal/adapter/dto/meeting"
	"github.com/haiminhdev/meeting-agent/internal/adapter/presenter"
	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
	"github.com/haiminhdev/meeting-agent/internal/usecase/pipeline"
)

// Meeting handles meeting processing endpoints
type Meeting struct {
	service pipeline.Service
	logger  *zap.Logger
}

// NewMeeting creates a new meeting handler
func NewMeeting(service pipeline.Service, logger *zap.Logger) *Meeting {
	return &Meeting{service: service, logger: logger}
}

// ProcessMeeting runs the full pipeline over an uploaded audio path
func (h *Meeting) ProcessMeeting(c echo.Context) error {
	return h.runPipeline(c, h.service.ProcessMeeting)
}

// GenerateMinutes transcribes and generates minutes only
func (h *Meeting) GenerateMinutes(c echo.Context) error {
	return h.runPipeline(c, h.service.GenerateMinutes)
}

// ExtractEvents transcribes and extracts calendar events only
func (h *Meeting) ExtractEvents(c echo.Context) error {
	return h.runPipeline(c, h.service.ExtractEvents)
}

// GenerateTranscript transcribes only
func (h *Meeting) GenerateTranscript(c echo.Context) error {
	return h.runPipeline(c, h.service.GenerateTranscript)
}

// runPipeline binds the shared request shape and invokes one pipeline mode.
// Failed runs still respond 200 with status "failed" so callers can pick up
// partial artifacts; only malformed requests are rejected.
func (h *Meeting) runPipeline(c echo.Context, run func(ctx context.Context, audioPath, meetingID string) *entities.ProcessingResult) error {
	var req meeting.ProcessMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, audioRequestError(&req, err))
	}

	result := run(c.Request().Context(), req.AudioPath, req.MeetingID)
	return HandleSuccess(h.logger, c, presenter.PresentResult(result))
}

// audioRequestError maps audio-path validation failures to their dedicated
// error codes
func audioRequestError(req *meeting.ProcessMeetingRequest, err error) error {
	var verrs validatorv10.ValidationErrors
	if stdErrors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() != "AudioPath" {
				continue
			}
			switch fe.Tag() {
			case "required":
				return errors.ErrMissingAudioPath()
			case "audio_format":
				return errors.ErrUnsupportedAudioFormat(filepath.Ext(req.AudioPath))
			}
		}
	}
	return errors.ErrInvalidArgument(err.Error())
}

// AnalyzeSpeakers infers speaker names from raw transcript text
func (h *Meeting) AnalyzeSpeakers(c echo.Context) error {
	var req meeting.AnalyzeTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	mapping, err := h.service.AnalyzeSpeakerNames(c.Request().Context(), req.TranscriptText)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.PresentSpeakerMap(mapping))
}

// GetResult returns a previously computed processing result
func (h *Meeting) GetResult(c echo.Context) error {
	meetingID := c.Param("id")
	result, ok := h.service.GetResult(meetingID)
	if !ok {
		return HandleError(h.logger, c, errors.ErrNotFound("processing result"))
	}
	return HandleSuccess(h.logger, c, presenter.PresentResult(result))
}
