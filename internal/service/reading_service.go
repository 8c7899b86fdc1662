package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/veladora/arcana-api/internal/deck"
	"github.com/veladora/arcana-api/internal/domain"
	"github.com/veladora/arcana-api/internal/generation"
	"github.com/veladora/arcana-api/internal/store"
)

// List pagination bounds.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ReadingService orchestrates a tarot consultation: it asks the generator for
// a reading, attaches card imagery, and persists the result to the user's
// history.
type ReadingService struct {
	generator    generation.Generator
	readingStore store.ReadingStore
	logger       *slog.Logger
}

// NewReadingService creates a ReadingService with the given dependencies.
// If logger is nil, the default logger is used.
func NewReadingService(
	generator generation.Generator,
	readingStore store.ReadingStore,
	logger *slog.Logger,
) *ReadingService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ReadingService{
		generator:    generator,
		readingStore: readingStore,
		logger:       logger.With(slog.String("component", "reading_service")),
	}
}

// CreateReading performs a full consultation for the user's query and card
// count, persists the completed reading, and returns it.
//
// A degraded reading (zero cards, produced when the generator is configured
// to absorb invalid model output) is returned to the caller but never
// persisted: incomplete readings are not part of a user's history.
func (s *ReadingService) CreateReading(
	ctx context.Context,
	userID uuid.UUID,
	query string,
	cardCount int,
) (*domain.UserReading, error) {
	reading, err := s.generator.GenerateReading(ctx, query, cardCount)
	if err != nil {
		return nil, err
	}

	if len(reading.Cards) == 0 {
		s.logger.WarnContext(ctx, "returning degraded reading",
			slog.String("user_id", userID.String()),
			slog.Int("card_count", cardCount))
		return &domain.UserReading{
			ID:             uuid.New(),
			UserID:         userID,
			Query:          query,
			Interpretation: reading.Interpretation,
			Cards:          []domain.SavedCard{},
			CreatedAt:      time.Now().UTC(),
		}, nil
	}

	cards := make([]domain.SavedCard, 0, len(reading.Cards))
	for _, drawn := range reading.Cards {
		asset := deck.Resolve(drawn.Name)
		cards = append(cards, domain.SavedCard{
			DrawnCard: drawn,
			ImagePath: asset.ImagePath,
			ImageHint: asset.Hint,
		})
	}

	userReading, err := domain.NewUserReading(userID, query, reading.Interpretation, cards)
	if err != nil {
		return nil, fmt.Errorf("failed to build user reading: %w", err)
	}

	if err := s.readingStore.Create(ctx, userReading); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "reading created",
		slog.String("reading_id", userReading.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("card_count", len(cards)))

	return userReading, nil
}

// GetReading retrieves one of the user's readings.
// Returns store.ErrReadingNotFound for missing or foreign readings.
func (s *ReadingService) GetReading(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.UserReading, error) {
	return s.readingStore.GetByID(ctx, userID, id)
}

// ListReadings retrieves a page of the user's readings, newest first.
// A non-positive limit selects the default page size; oversized limits are
// clamped.
func (s *ReadingService) ListReadings(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.UserReading, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	return s.readingStore.ListByUser(ctx, userID, limit, offset)
}

// DeleteReading removes one of the user's readings.
// Returns store.ErrReadingNotFound for missing or foreign readings.
func (s *ReadingService) DeleteReading(ctx context.Context, userID, id uuid.UUID) error {
	return s.readingStore.Delete(ctx, userID, id)
}
