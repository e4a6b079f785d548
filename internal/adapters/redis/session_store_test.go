package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/rahvusarhiiv/vaugate/internal/domain/auth"
	"github.com/rahvusarhiiv/vaugate/internal/testutil"
)

func testSession() domainauth.Session {
	return domainauth.Session{
		ID:        uuid.New().String(),
		VauID:     3,
		FullName:  "Mari Maasikas",
		Email:     "mari@example.com",
		Claims:    domainauth.Claims{"id": float64(3), "fullname": "Mari Maasikas"},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client, "vaugate-test")
	ctx := context.Background()

	sess := testSession()
	require.NoError(t, store.Save(ctx, sess))
	t.Cleanup(func() { _ = store.Delete(context.Background(), sess.ID) })

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.VauID, got.VauID)
	assert.Equal(t, sess.Email, got.Email)
	assert.Equal(t, sess.Claims, got.Claims)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_SaveValidation(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client, "vaugate-test")
	ctx := context.Background()

	sess := testSession()
	sess.ID = ""
	require.Error(t, store.Save(ctx, sess))

	sess = testSession()
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	require.Error(t, store.Save(ctx, sess))
}

func TestSessionStore_GetMissing(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client, "vaugate-test")
	ctx := context.Background()

	_, err := store.Get(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, uuid.New().String())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_KeysAreNamespaced(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	a := NewSessionStore(client, "deploy-a")
	b := NewSessionStore(client, "deploy-b")
	ctx := context.Background()

	sess := testSession()
	require.NoError(t, a.Save(ctx, sess))
	t.Cleanup(func() { _ = a.Delete(context.Background(), sess.ID) })

	_, err := b.Get(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
