package errors

// ErrorCode identifies an application error category
type ErrorCode int32

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_MISSING_AUDIO_PATH
	ErrorCode_UNSUPPORTED_AUDIO_FORMAT
	ErrorCode_TRANSCRIPTION_FAILED
	ErrorCode_COMPLETION_UNAVAILABLE
	ErrorCode_COMPLETION_TIMEOUT
	ErrorCode_MINUTES_FAILED
	ErrorCode_CALENDAR_FAILED
	ErrorCode_PROCESSING_FAILED
	ErrorCode_HTTP_OK
)

var codeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                  "UNKNOWN",
	ErrorCode_INTERNAL:                 "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:         "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:          "INVALID_PAYLOAD",
	ErrorCode_MISSING_AUDIO_PATH:       "MISSING_AUDIO_PATH",
	ErrorCode_UNSUPPORTED_AUDIO_FORMAT: "UNSUPPORTED_AUDIO_FORMAT",
	ErrorCode_TRANSCRIPTION_FAILED:     "TRANSCRIPTION_FAILED",
	ErrorCode_COMPLETION_UNAVAILABLE:   "COMPLETION_UNAVAILABLE",
	ErrorCode_COMPLETION_TIMEOUT:       "COMPLETION_TIMEOUT",
	ErrorCode_MINUTES_FAILED:           "MINUTES_FAILED",
	ErrorCode_CALENDAR_FAILED:          "CALENDAR_FAILED",
	ErrorCode_PROCESSING_FAILED:        "PROCESSING_FAILED",
	ErrorCode_HTTP_OK:                  "HTTP_OK",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
