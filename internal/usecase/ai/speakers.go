package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
)

const speakerInferenceSystemPrompt = "You are an expert meeting assistant specializing in speaker identification. " +
	"Given a meeting transcript with speaker labels and their utterances, " +
	"infer the most likely real names for each speaker label based on context clues, " +
	"introductions, self-identifications, or references by other speakers. " +
	"Look for patterns like: 'Hi, I'm John', 'This is Sarah speaking', 'John mentioned...', etc. " +
	"If a name cannot be determined with reasonable confidence, keep the original label. " +
	"Output only a JSON mapping of speaker labels to names."

// SpeakerMapResult is the outcome of a speaker name inference. A degraded
// result carries an empty mapping and the reason inference was skipped;
// callers treat it as "keep the original labels", never as a failure.
type SpeakerMapResult struct {
	Mapping  map[string]string
	Degraded bool
	Reason   string
}

// SpeakerInference infers real speaker names from transcript context
type SpeakerInference struct {
	llm    Completer
	logger *zap.Logger
}

// NewSpeakerInference creates a speaker inference stage
func NewSpeakerInference(llm Completer, logger *zap.Logger) *SpeakerInference {
	return &SpeakerInference{llm: llm, logger: logger}
}

// InferNames asks the model for a speaker-label-to-name mapping based on the
// transcript. Completion and parse failures degrade to an empty mapping.
func (s *SpeakerInference) InferNames(ctx context.Context, transcript *entities.MeetingTranscript) SpeakerMapResult {
	prompt := fmt.Sprintf(`
Please analyze this meeting transcript and infer the real names for each speaker:

%s

Provide a JSON mapping of speaker labels to inferred names. For example:
{
  "A": "John Smith",
  "B": "Sarah Johnson",
  "C": "C"
}

Only change labels where you can confidently infer a name from the context.
Look for:
- Self-introductions ("Hi, I'm Alex")
- Direct references ("Hey Jessica")
- Context clues that reveal names
`, formatForInference(transcript))

	return s.infer(ctx, prompt)
}

// AnalyzeTranscriptText infers speaker names from raw transcript text that
// did not come out of our own transcription stage.
func (s *SpeakerInference) AnalyzeTranscriptText(ctx context.Context, transcriptText string) SpeakerMapResult {
	prompt := fmt.Sprintf(`
Please analyze this meeting transcript and infer the real names for each speaker:

%s

Provide a JSON mapping of speaker labels to inferred names. For example:
{
  "Speaker A": "John Smith",
  "Speaker B": "Sarah Johnson",
  "Speaker C": "Speaker C"
}

Only change labels where you can confidently infer a name from the context.
`, transcriptText)

	return s.infer(ctx, prompt)
}

func (s *SpeakerInference) infer(ctx context.Context, prompt string) SpeakerMapResult {
	response, err := s.llm.Complete(ctx, prompt, speakerInferenceSystemPrompt)
	if err != nil {
		s.logger.Warn("⚠️ Speaker inference completion failed", zap.Error(err))
		return degradedMapping(fmt.Sprintf("completion failed: %v", err))
	}

	mapping, err := parseSpeakerMapping(response)
	if err != nil {
		s.logger.Warn("⚠️ Speaker inference response unparseable",
			zap.Error(err),
			zap.String("raw_response", response))
		return degradedMapping(fmt.Sprintf("parse failed: %v", err))
	}

	s.logger.Info("🔍 Inferred speaker mapping", zap.Any("mapping", mapping))
	return SpeakerMapResult{Mapping: mapping}
}

// parseSpeakerMapping extracts the label-to-name mapping from a model
// response, keeping only entries whose values are strings.
func parseSpeakerMapping(response string) (map[string]string, error) {
	var raw map[string]any
	if err := ExtractJSON(response, &raw); err != nil {
		return nil, err
	}

	mapping := make(map[string]string, len(raw))
	for label, value := range raw {
		if name, ok := value.(string); ok {
			mapping[label] = name
		}
	}
	if len(mapping) == 0 && len(raw) > 0 {
		return nil, ErrNotJSONMapping
	}

	return mapping, nil
}

func degradedMapping(reason string) SpeakerMapResult {
	return SpeakerMapResult{
		Mapping:  make(map[string]string),
		Degraded: true,
		Reason:   reason,
	}
}
