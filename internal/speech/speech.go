// Package speech defines the narration boundary: turning a reading's
// interpretation text into playable audio. Implementations live under
// internal/platform.
package speech

import (
	"context"
	"errors"
)

// Common errors returned by synthesizers.
var (
	// ErrEmptyText is returned when the text to narrate is empty. Detected
	// before any provider call is made.
	ErrEmptyText = errors.New("text to synthesize cannot be empty")

	// ErrSynthesisFailed is returned when the provider rejects the request or
	// returns an unusable response.
	ErrSynthesisFailed = errors.New("speech synthesis failed")
)

// Synthesizer converts text into a playable audio data URI.
type Synthesizer interface {
	// Synthesize narrates the given text and returns a data URI embedding the
	// encoded audio (e.g. "data:audio/mp3;base64,..."). Returns ErrEmptyText
	// for empty input and ErrSynthesisFailed (wrapped with detail) when the
	// provider fails.
	Synthesize(ctx context.Context, text string) (string, error)
}

// Result is the outward shape of a narration attempt: exactly one of
// AudioDataURI or Error is set, never both and never neither. Callers render
// it as-is instead of surfacing a transport failure, so a narration problem
// degrades the experience rather than breaking it.
type Result struct {
	AudioDataURI string `json:"audioDataUri,omitempty"`
	Error        string `json:"error,omitempty"`
}

// NewResult builds a Result from a synthesis outcome, collapsing any error
// into the fixed user-facing message.
func NewResult(audioDataURI string, err error) Result {
	if err != nil {
		return Result{Error: "Failed to generate audio"}
	}
	return Result{AudioDataURI: audioDataURI}
}
