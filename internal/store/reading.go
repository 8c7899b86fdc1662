package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/veladora/arcana-api/internal/domain"
)

// ReadingStore defines the interface for persisted reading data.
// All retrieval operations are scoped to the owning user: a reading is
// never visible to, or deletable by, anyone but its owner.
type ReadingStore interface {
	// Create saves a completed reading to the store.
	// Returns ErrInvalidEntity wrapping the domain validation error if the
	// reading is invalid.
	Create(ctx context.Context, reading *domain.UserReading) error

	// GetByID retrieves a reading owned by the given user.
	// Returns ErrReadingNotFound if no such reading exists for that user,
	// including when the reading exists but belongs to someone else.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.UserReading, error)

	// ListByUser retrieves the user's readings, newest first.
	// Returns an empty slice, not an error, when the user has no readings.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.UserReading, error)

	// Delete removes a reading owned by the given user.
	// Returns ErrReadingNotFound if no such reading exists for that user.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
