package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

// Extraction errors
var (
	ErrNoJSONFound    = errors.New("no JSON object found in response")
	ErrMalformedJSON  = errors.New("no valid JSON object found in response")
	ErrNotJSONMapping = errors.New("response is not a JSON object mapping")
)

// FirstJSONBlock scans text for the first balanced top-level JSON object and
// returns its raw bytes. Models often wrap their answer in prose or markdown
// fences, so everything before the first '{' and after its matching '}' is
// ignored. The scanner counts braces only; a '}' inside a string value can
// close the block early, in which case the single decode attempt fails and
// the whole extraction is reported as malformed.
func FirstJSONBlock(text string) (json.RawMessage, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return nil, ErrNoJSONFound
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := []byte(text[start : i+1])
				if !json.Valid(candidate) {
					return nil, ErrMalformedJSON
				}
				return json.RawMessage(candidate), nil
			}
		}
	}

	return nil, ErrMalformedJSON
}

// ExtractJSON locates the first balanced JSON object in text and unmarshals
// it into v. Only one extraction attempt is made per response.
func ExtractJSON(text string, v any) error {
	raw, err := FirstJSONBlock(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return ErrMalformedJSON
	}
	return nil
}
