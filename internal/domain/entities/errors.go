package entities

import "errors"

// Domain errors
var (
	// Transcript errors
	ErrEmptyTranscript    = errors.New("transcript has no segments")
	ErrInvalidSpeakerName = errors.New("invalid speaker name")

	// Event errors
	ErrInvalidEventTime = errors.New("invalid event time")
)
