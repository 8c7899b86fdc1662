package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/veladora/arcana-api/internal/domain"
	"github.com/veladora/arcana-api/internal/store"
)

// PostgresReadingStore implements the store.ReadingStore interface
// using a PostgreSQL database as the storage backend. The card list is
// persisted as a JSONB column since cards are always read and written as
// one ordered unit with their reading.
type PostgresReadingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReadingStore creates a new PostgreSQL implementation of the
// ReadingStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// the default logger is used.
func NewPostgresReadingStore(db store.DBTX, logger *slog.Logger) *PostgresReadingStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReadingStore{
		db:     db,
		logger: logger.With(slog.String("component", "reading_store")),
	}
}

// Ensure PostgresReadingStore implements store.ReadingStore interface
var _ store.ReadingStore = (*PostgresReadingStore)(nil)

// Create implements store.ReadingStore.Create
func (s *PostgresReadingStore) Create(ctx context.Context, reading *domain.UserReading) error {
	if err := reading.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	cardsJSON, err := json.Marshal(reading.Cards)
	if err != nil {
		return fmt.Errorf("failed to marshal reading cards: %w", err)
	}

	query := `
		INSERT INTO readings (id, user_id, query, interpretation, cards, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = s.db.ExecContext(ctx, query,
		reading.ID,
		reading.UserID,
		reading.Query,
		reading.Interpretation,
		cardsJSON,
		reading.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to create reading",
			slog.String("reading_id", reading.ID.String()),
			slog.String("user_id", reading.UserID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.ReadingStore.GetByID
// The user ID is part of the lookup key, so a reading owned by another user
// is indistinguishable from a missing one.
func (s *PostgresReadingStore) GetByID(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.UserReading, error) {
	query := `
		SELECT id, user_id, query, interpretation, cards, created_at
		FROM readings
		WHERE id = $1 AND user_id = $2
	`

	reading, err := scanReading(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrReadingNotFound
		}
		return nil, err
	}

	return reading, nil
}

// ListByUser implements store.ReadingStore.ListByUser
func (s *PostgresReadingStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.UserReading, error) {
	query := `
		SELECT id, user_id, query, interpretation, cards, created_at
		FROM readings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	readings := make([]*domain.UserReading, 0)
	for rows.Next() {
		reading, err := scanReadingRow(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return readings, nil
}

// Delete implements store.ReadingStore.Delete
func (s *PostgresReadingStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `
		DELETE FROM readings
		WHERE id = $1 AND user_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "reading"); err != nil {
		return store.ErrReadingNotFound
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row *sql.Row) (*domain.UserReading, error) {
	return scanReadingRow(row)
}

func scanReadingRow(row rowScanner) (*domain.UserReading, error) {
	var (
		reading   domain.UserReading
		cardsJSON []byte
		createdAt time.Time
	)

	err := row.Scan(
		&reading.ID,
		&reading.UserID,
		&reading.Query,
		&reading.Interpretation,
		&cardsJSON,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, MapError(err)
	}

	if err := json.Unmarshal(cardsJSON, &reading.Cards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reading cards: %w", err)
	}

	reading.CreatedAt = createdAt.UTC()
	return &reading, nil
}
