package generation

import (
	"github.com/veladora/arcana-api/internal/domain"
)

// Response is the wire shape the model is asked to produce. Field names and
// types are part of the model contract and must match the response schema
// sent with the request.
//
// IsReversed is a *bool so that an absent flag is distinguishable from an
// explicit false: the model omitting the flag is a validation failure, not
// an implicit upright card.
type Response struct {
	// Interpretation is the narrative text synthesizing all drawn cards.
	Interpretation string `json:"interpretation"`

	// Cards is the array of drawn cards, one per spread position.
	Cards []CardResult `json:"cards"`
}

// CardResult is a single drawn card as the model reports it.
type CardResult struct {
	// Name is the Spanish name of the drawn card (e.g. "El Loco").
	Name string `json:"name"`

	// Position is the spread slot label the model attached the card to.
	Position string `json:"position"`

	// IsReversed reports whether the card came up reversed. Nil means the
	// model omitted the flag.
	IsReversed *bool `json:"isReversed"`
}

// ValidateResponse checks a raw model response against the reading contract
// and, on success, returns the canonical immutable Reading built from it
// unchanged: no re-ordering, no clamping, no padding.
//
// The checks are exhaustive and exact, in order:
//   - cards is present and has exactly cardCount entries
//   - every card has a non-empty name
//   - every card has a string position (enforced by the wire type)
//   - every card has a genuine boolean reversal flag
//   - interpretation is a non-empty string
//
// Any failure returns an *InvalidOutputError; the caller decides whether to
// surface it or degrade.
func ValidateResponse(resp *Response, cardCount int) (*domain.Reading, error) {
	if resp == nil {
		return nil, &InvalidOutputError{
			ExpectedCards: cardCount,
			CardIndex:     -1,
			Reason:        "nil response",
		}
	}

	if resp.Cards == nil {
		return nil, &InvalidOutputError{
			ExpectedCards: cardCount,
			CardIndex:     -1,
			Reason:        "cards array missing",
		}
	}

	if len(resp.Cards) != cardCount {
		return nil, &InvalidOutputError{
			ExpectedCards: cardCount,
			ActualCards:   len(resp.Cards),
			CardIndex:     -1,
			Reason:        "card count mismatch",
		}
	}

	cards := make([]domain.DrawnCard, 0, len(resp.Cards))
	for i, card := range resp.Cards {
		if card.Name == "" {
			return nil, &InvalidOutputError{
				ExpectedCards: cardCount,
				ActualCards:   len(resp.Cards),
				CardIndex:     i,
				Reason:        "missing card name",
			}
		}

		if card.IsReversed == nil {
			return nil, &InvalidOutputError{
				ExpectedCards: cardCount,
				ActualCards:   len(resp.Cards),
				CardIndex:     i,
				Reason:        "missing or non-boolean isReversed",
			}
		}

		cards = append(cards, domain.DrawnCard{
			Name:       card.Name,
			Position:   card.Position,
			IsReversed: *card.IsReversed,
		})
	}

	if resp.Interpretation == "" {
		return nil, &InvalidOutputError{
			ExpectedCards: cardCount,
			ActualCards:   len(resp.Cards),
			CardIndex:     -1,
			Reason:        "missing interpretation",
		}
	}

	return domain.NewReading(resp.Interpretation, cards, cardCount)
}
