package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veladora/arcana-api/internal/store"
)

func TestMapErrorNil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MapError(nil))
}

func TestMapErrorNoRows(t *testing.T) {
	t.Parallel()

	err := MapError(sql.ErrNoRows)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMapErrorUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"}
	err := MapError(fmt.Errorf("insert failed: %w", pgErr))
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestMapErrorForeignKeyViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "readings_user_id_fkey"}
	err := MapError(pgErr)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Contains(t, err.Error(), "readings_user_id_fkey")
}

func TestMapErrorPassthrough(t *testing.T) {
	t.Parallel()

	original := errors.New("connection reset")
	assert.Equal(t, original, MapError(original))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("not a pg error")))
	assert.False(t, IsUniqueViolation(nil))
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "reading"))

	err := CheckRowsAffected(fakeResult{rows: 0}, "reading")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "reading")

	err = CheckRowsAffected(fakeResult{rows: 0}, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = CheckRowsAffected(fakeResult{rows: 0, err: errors.New("driver does not report rows")}, "reading")
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	assert.Error(t, CheckRowsAffected(nil, "reading"))
}
