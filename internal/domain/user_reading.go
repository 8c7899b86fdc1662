package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// UserReading-specific validation errors
var (
	// ErrUserReadingIDEmpty is returned when a stored reading ID is empty or nil.
	ErrUserReadingIDEmpty = errors.New("reading ID cannot be empty")

	// ErrUserReadingUserIDEmpty is returned when a stored reading's user ID is empty or nil.
	ErrUserReadingUserIDEmpty = errors.New("reading user ID cannot be empty")

	// ErrUserReadingNoCards is returned when a stored reading carries no cards.
	ErrUserReadingNoCards = errors.New("stored reading must carry at least one card")
)

// SavedCard is a drawn card enriched with the derived image asset path and
// a short alt-text hint for the image. Both are persistence-layer concerns
// and not part of the canonical Reading produced by the generator.
type SavedCard struct {
	DrawnCard
	ImagePath string `json:"image_path"`
	ImageHint string `json:"image_hint"`
}

// UserReading is a completed reading persisted for a user: the query that
// prompted it, the interpretation, the ordered card list with derived image
// paths, and a creation timestamp.
type UserReading struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	Query          string      `json:"query"`
	Interpretation string      `json:"interpretation"`
	Cards          []SavedCard `json:"cards"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewUserReading creates a UserReading for the given user from a validated
// reading's parts. It generates a new UUID and sets the creation timestamp.
// Returns an error if validation fails.
func NewUserReading(
	userID uuid.UUID,
	query string,
	interpretation string,
	cards []SavedCard,
) (*UserReading, error) {
	reading := &UserReading{
		ID:             uuid.New(),
		UserID:         userID,
		Query:          query,
		Interpretation: interpretation,
		Cards:          cards,
		CreatedAt:      time.Now().UTC(),
	}

	if err := reading.Validate(); err != nil {
		return nil, err
	}

	return reading, nil
}

// Validate checks if the UserReading has valid data.
// Returns an error if any field fails validation.
func (r *UserReading) Validate() error {
	if r.ID == uuid.Nil {
		return ErrUserReadingIDEmpty
	}

	if r.UserID == uuid.Nil {
		return ErrUserReadingUserIDEmpty
	}

	if r.Interpretation == "" {
		return ErrReadingNoInterpretation
	}

	if len(r.Cards) == 0 {
		return ErrUserReadingNoCards
	}

	return nil
}
