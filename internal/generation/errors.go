package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrInvalidRequest is returned when the caller asked for a spread the
	// catalog does not define. This is a caller error, not a model error,
	// and is detected before the model is ever contacted.
	ErrInvalidRequest = errors.New("invalid reading request")

	// ErrGenerationFailed is returned when reading generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate reading")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during reading generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// InvalidOutputError describes exactly how a model response failed shape
// validation: the expected and actual cardinality and, when a single card is
// at fault, its index and the reason. It wraps ErrInvalidResponse so callers
// can match with errors.Is while still reading the diagnostic.
type InvalidOutputError struct {
	// ExpectedCards is the cardinality the request demanded.
	ExpectedCards int

	// ActualCards is the cardinality the model returned.
	ActualCards int

	// CardIndex is the index of the offending card, or -1 when the failure
	// is not attributable to a single card (count mismatch, missing
	// interpretation).
	CardIndex int

	// Reason is a short description of what was malformed.
	Reason string
}

// Error implements the error interface for InvalidOutputError.
func (e *InvalidOutputError) Error() string {
	if e.CardIndex >= 0 {
		return fmt.Sprintf("%v: card %d: %s", ErrInvalidResponse, e.CardIndex, e.Reason)
	}
	return fmt.Sprintf("%v: %s (expected %d cards, got %d)",
		ErrInvalidResponse, e.Reason, e.ExpectedCards, e.ActualCards)
}

// Unwrap returns ErrInvalidResponse to support errors.Is.
func (e *InvalidOutputError) Unwrap() error {
	return ErrInvalidResponse
}
