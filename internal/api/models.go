package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/veladora/arcana-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateReadingRequest defines the payload for requesting a new reading.
// CardCount selects the spread; only the cataloged counts are accepted.
type CreateReadingRequest struct {
	Query     string `json:"query"      validate:"max=1000"`
	CardCount int    `json:"card_count" validate:"required"`
}

// ReadingResponse is a persisted (or degraded) reading as returned to clients.
type ReadingResponse struct {
	ID             uuid.UUID    `json:"id"`
	Query          string       `json:"query"`
	Interpretation string       `json:"interpretation"`
	Cards          []CardResult `json:"cards"`
	CreatedAt      time.Time    `json:"created_at"`
}

// CardResult is a single drawn card in a ReadingResponse.
type CardResult struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	IsReversed bool   `json:"is_reversed"`
	ImagePath  string `json:"image_path"`
	ImageHint  string `json:"image_hint"`
}

// ReadingListResponse wraps a page of readings.
type ReadingListResponse struct {
	Readings []ReadingResponse `json:"readings"`
}

// SynthesizeRequest defines the payload for the narration endpoint.
type SynthesizeRequest struct {
	Text string `json:"text" validate:"required,min=1,max=5000"`
}

// NewReadingResponse maps a domain reading into its outward shape.
func NewReadingResponse(reading *domain.UserReading) ReadingResponse {
	cards := make([]CardResult, 0, len(reading.Cards))
	for _, card := range reading.Cards {
		cards = append(cards, CardResult{
			Name:       card.Name,
			Position:   card.Position,
			IsReversed: card.IsReversed,
			ImagePath:  card.ImagePath,
			ImageHint:  card.ImageHint,
		})
	}

	return ReadingResponse{
		ID:             reading.ID,
		Query:          reading.Query,
		Interpretation: reading.Interpretation,
		Cards:          cards,
		CreatedAt:      reading.CreatedAt,
	}
}
