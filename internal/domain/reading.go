package domain

import (
	"errors"
	"fmt"
)

// Reading-specific validation errors
var (
	// ErrReadingNoInterpretation is returned when a reading carries no interpretation text.
	ErrReadingNoInterpretation = errors.New("reading interpretation cannot be empty")

	// ErrReadingCardCount is returned when the number of drawn cards does not
	// match the requested spread size.
	ErrReadingCardCount = errors.New("reading card count mismatch")

	// ErrCardNameEmpty is returned when a drawn card has no name.
	ErrCardNameEmpty = errors.New("drawn card name cannot be empty")
)

// DrawnCard is one card of a completed reading: the card the model drew,
// the spread position it occupies, and whether it came up reversed.
type DrawnCard struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	IsReversed bool   `json:"is_reversed"`
}

// Reading is the canonical, validated output of a generation request.
// It is constructed once per request and never mutated afterwards; callers
// may render or persist it without further shape checks.
type Reading struct {
	Interpretation string      `json:"interpretation"`
	Cards          []DrawnCard `json:"cards"`
}

// NewReading creates a Reading from interpretation text and drawn cards,
// validating it against the requested card count.
// Returns an error if validation fails.
func NewReading(interpretation string, cards []DrawnCard, cardCount int) (*Reading, error) {
	reading := &Reading{
		Interpretation: interpretation,
		Cards:          cards,
	}

	if err := reading.Validate(cardCount); err != nil {
		return nil, err
	}

	return reading, nil
}

// Validate checks the Reading against the requested card count.
// A reading must carry a non-empty interpretation, exactly cardCount cards,
// and every card must have a non-empty name.
func (r *Reading) Validate(cardCount int) error {
	if r.Interpretation == "" {
		return ErrReadingNoInterpretation
	}

	if len(r.Cards) != cardCount {
		return fmt.Errorf("%w: expected %d, got %d", ErrReadingCardCount, cardCount, len(r.Cards))
	}

	for i, card := range r.Cards {
		if card.Name == "" {
			return fmt.Errorf("%w: card %d", ErrCardNameEmpty, i)
		}
	}

	return nil
}
