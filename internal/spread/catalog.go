// Package spread holds the fixed spread catalog: for each supported card
// count, the ordered list of named positions a reading is laid out into.
// The tables are compiled in and never regenerated at request time; the
// prompt sent to the language model restates these exact labels so the
// model's position strings can be checked against them downstream.
package spread

import (
	"errors"
	"fmt"
)

// ErrUnsupportedCardCount is returned when a requested card count has no
// spread defined for it. Supported counts are 3, 5 and 7.
var ErrUnsupportedCardCount = errors.New("unsupported card count")

// Position is one slot in a named spread. Index fixes the ordering; Label is
// the human-readable name of the slot; Meaning describes what the card in
// this slot speaks to and is restated verbatim in the model prompt.
type Position struct {
	Index   int
	Label   string
	Meaning string
}

// Spread couples a name with its ordered positions.
type Spread struct {
	Name      string
	Positions []Position
}

// The three built-in spreads, after the traditional layouts: Triad (3),
// Path (5) and Horseshoe (7).
var spreads = map[int]Spread{
	3: {
		Name: "Triad",
		Positions: []Position{
			{0, "Past", "Origins of the situation, prior influences."},
			{1, "Present", "Current state, immediate challenges and resources."},
			{2, "Future", "Likely outcome or path if things continue as they are."},
		},
	},
	5: {
		Name: "Path",
		Positions: []Position{
			{0, "Current Context", "The situation or question as it presents itself."},
			{1, "Main Obstacle", "The principal challenge or blockage."},
			{2, "Support/Resource", "Inner or outer forces that help."},
			{3, "Card's Advice", "The recommended action or perspective."},
			{4, "Potential Outcome", "Where the energy is heading if the advice is followed."},
		},
	},
	7: {
		Name: "Horseshoe",
		Positions: []Position{
			{0, "Querent/Question", "Central energy of the matter or the querent."},
			{1, "Immediate Past", "Recent events or influences that led to the present."},
			{2, "Present Influences", "What is active and in play right now."},
			{3, "Obstacles and Challenges", "Hurdles that must be overcome."},
			{4, "External Environment/Influences", "Outside factors or people affecting the situation."},
			{5, "Key Advice/Action", "The best course of action or the lesson to learn."},
			{6, "Probable Future", "The most likely outcome if the current course holds."},
		},
	},
}

// SupportedCounts lists the card counts the catalog defines spreads for,
// in ascending order.
func SupportedCounts() []int {
	return []int{3, 5, 7}
}

// IsSupported reports whether a spread is defined for the given card count.
func IsSupported(cardCount int) bool {
	_, ok := spreads[cardCount]
	return ok
}

// For returns the spread for the given card count.
// Returns ErrUnsupportedCardCount for any count without a defined spread.
func For(cardCount int) (Spread, error) {
	s, ok := spreads[cardCount]
	if !ok {
		return Spread{}, fmt.Errorf("%w: %d", ErrUnsupportedCardCount, cardCount)
	}
	return s, nil
}

// PositionsFor returns the fixed ordered list of positions for the given
// card count. Returns ErrUnsupportedCardCount for any count without a
// defined spread.
func PositionsFor(cardCount int) ([]Position, error) {
	s, err := For(cardCount)
	if err != nil {
		return nil, err
	}

	// Copy so callers cannot mutate the compiled-in table.
	positions := make([]Position, len(s.Positions))
	copy(positions, s.Positions)
	return positions, nil
}
