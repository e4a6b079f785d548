package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "saving user")

	assert.Equal(t, "saving user: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := Validation("bad input")
	assert.Equal(t, "bad input", plain.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "whatever"))
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("x")))
	assert.True(t, IsConflict(Conflict("x")))
	assert.True(t, IsValidation(ValidationField("email", "required")))

	// Predicates see through wrapping
	wrapped := fmt.Errorf("outer: %w", Conflict("inner"))
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(errors.New("plain")))
}

func TestMapDBError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, MapDBError(nil))
	})

	t.Run("no rows", func(t *testing.T) {
		err := MapDBError(pgx.ErrNoRows)
		assert.True(t, IsNotFound(err))
	})

	t.Run("deadline", func(t *testing.T) {
		err := MapDBError(context.DeadlineExceeded)
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, ErrCodeTimeout, appErr.Code)
	})

	t.Run("canceled", func(t *testing.T) {
		err := MapDBError(context.Canceled)
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, ErrCodeCanceled, appErr.Code)
	})

	t.Run("unique violation extracts field", func(t *testing.T) {
		err := MapDBError(&pgconn.PgError{
			Code:   pgerrcode.UniqueViolation,
			Detail: "Key (vau_id)=(1001) already exists.",
		})
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, ErrCodeConflict, appErr.Code)
		assert.Equal(t, "vau_id", appErr.Field)
	})

	t.Run("not null violation", func(t *testing.T) {
		err := MapDBError(&pgconn.PgError{
			Code:       pgerrcode.NotNullViolation,
			ColumnName: "vau_id",
		})
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, ErrCodeValidation, appErr.Code)
		assert.Equal(t, "vau_id", appErr.Field)
	})

	t.Run("unknown pg error is internal", func(t *testing.T) {
		err := MapDBError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, ErrCodeInternal, appErr.Code)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		plain := errors.New("dial tcp: refused")
		assert.Equal(t, plain, MapDBError(plain))
	})
}
