package data

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rahvusarhiiv/vaugate/internal/errors"
	"github.com/rahvusarhiiv/vaugate/internal/ports"
	"github.com/rahvusarhiiv/vaugate/internal/testutil"
)

func TestUserRepo_CreateAndFind(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		ctx := context.Background()

		rec := repo.New("vau")
		rec.SetAttribute("vau_id", int64(1001))
		rec.SetAttribute("full_name", "Mari Maasikas")
		rec.SetAttribute("email", "mari@example.com")
		require.NoError(t, repo.Save(ctx, rec))

		// Surrogate id assigned on insert
		id, ok := rec.Attribute("id")
		require.True(t, ok)
		assert.NotZero(t, id)

		found, err := repo.FindOne(ctx, "vau_id", int64(1001))
		require.NoError(t, err)
		v, ok := found.Attribute("email")
		require.True(t, ok)
		assert.Equal(t, "mari@example.com", v)
	})
}

func TestUserRepo_FindOne_NotFound(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)

		_, err := repo.FindOne(context.Background(), "vau_id", int64(999999))
		require.ErrorIs(t, err, ports.ErrUserNotFound)
	})
}

func TestUserRepo_FindOne_RejectsBadAttribute(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)

		_, err := repo.FindOne(context.Background(), "vau_id; DROP TABLE users", int64(1))
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestUserRepo_UpdateDirtyColumnsOnly(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		ctx := context.Background()

		rec := repo.New("")
		rec.SetAttribute("vau_id", int64(1002))
		rec.SetAttribute("full_name", "Old Name")
		rec.SetAttribute("email", "old@example.com")
		require.NoError(t, repo.Save(ctx, rec))

		found, err := repo.FindOne(ctx, "vau_id", int64(1002))
		require.NoError(t, err)
		found.SetAttribute("full_name", "New Name")
		require.NoError(t, repo.Save(ctx, found))

		again, err := repo.FindOne(ctx, "vau_id", int64(1002))
		require.NoError(t, err)
		name, _ := again.Attribute("full_name")
		email, _ := again.Attribute("email")
		assert.Equal(t, "New Name", name)
		assert.Equal(t, "old@example.com", email)
	})
}

func TestUserRepo_SaveCleanPersistedIsNoop(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		ctx := context.Background()

		rec := repo.New("")
		rec.SetAttribute("vau_id", int64(1003))
		require.NoError(t, repo.Save(ctx, rec))

		found, err := repo.FindOne(ctx, "vau_id", int64(1003))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, found))
	})
}

func TestUserRepo_DuplicateVauIDConflicts(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		ctx := context.Background()

		first := repo.New("")
		first.SetAttribute("vau_id", int64(1004))
		require.NoError(t, repo.Save(ctx, first))

		second := repo.New("")
		second.SetAttribute("vau_id", int64(1004))
		err := repo.Save(ctx, second)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestUserRepo_ValidateHook(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		repo.Validate = func(scenario string, attrs map[string]any) error {
			if scenario == "strict" {
				if v, ok := attrs["email"]; !ok || v == nil || v == "" {
					return errors.New("email is required")
				}
			}
			return nil
		}
		ctx := context.Background()

		rec := repo.New("strict")
		rec.SetAttribute("vau_id", int64(1005))
		err := repo.Save(ctx, rec)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))

		rec.SetAttribute("email", "ok@example.com")
		require.NoError(t, repo.Save(ctx, rec))
	})
}

func TestUserRepo_SaveForeignRecord(t *testing.T) {
	repo := NewUserRepo(nil)

	err := repo.Save(context.Background(), &foreignRecord{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

type foreignRecord struct{}

func (foreignRecord) Attribute(string) (any, bool) { return nil, false }
func (foreignRecord) SetAttribute(string, any)     {}
