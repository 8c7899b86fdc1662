package generation

import (
	"context"

	"github.com/veladora/arcana-api/internal/domain"
)

// Generator defines the interface for producing a tarot reading from a
// user query and a spread size. This interface serves as a boundary between
// the application core and external AI/LLM services, following the
// hexagonal architecture pattern.
type Generator interface {
	// GenerateReading produces a validated Reading for the given query and
	// card count. An empty query means "let the cards speak freely".
	//
	// The returned Reading is canonical: exactly cardCount cards, each with
	// a non-empty name and a genuine reversal flag, and a non-empty
	// interpretation. Implementations must never return a reading that
	// fails those checks; a malformed model response surfaces as an error
	// (or, under the degrade policy, as the documented zero-card fallback).
	//
	// Returns:
	//   - ErrInvalidRequest if cardCount has no spread defined for it
	//   - ErrInvalidResponse (often as an *InvalidOutputError) if the model
	//     output failed shape validation
	//   - ErrContentBlocked if the model refused the prompt
	//   - ErrTransientFailure for transport-level failures worth retrying
	GenerateReading(ctx context.Context, query string, cardCount int) (*domain.Reading, error)
}
