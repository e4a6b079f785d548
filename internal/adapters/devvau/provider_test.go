package devvau

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahvusarhiiv/vaugate/internal/cryptoutil"
	domainauth "github.com/rahvusarhiiv/vaugate/internal/domain/auth"
)

func TestNewProvider_Validation(t *testing.T) {
	cipher, err := cryptoutil.NewLegacyCipher("dev key")
	require.NoError(t, err)

	_, err = NewProvider(Config{}, cipher)
	require.Error(t, err)

	_, err = NewProvider(Config{UserID: 7}, nil)
	require.Error(t, err)
}

func TestPostbackPayload_RoundTrips(t *testing.T) {
	cipher, err := cryptoutil.NewLegacyCipher("dev key")
	require.NoError(t, err)

	p, err := NewProvider(Config{
		UserID:    7,
		FirstName: "Dev",
		LastName:  "User",
		Email:     "dev@example.com",
		Employee:  true,
		SafeLogin: true,
		Roles:     []string{"Admin"},
	}, cipher)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	posted, err := p.PostbackPayload()
	require.NoError(t, err)

	plaintext, err := cipher.Decrypt(posted)
	require.NoError(t, err)
	claims, err := domainauth.DecodeClaims(plaintext)
	require.NoError(t, err)

	id, ok := claims.ID()
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, 1, claims.Type())
	assert.True(t, claims.SafeLogin())
	assert.True(t, claims.SafeHost())
	assert.Equal(t, "Dev User", claims.String("fullname"))
	assert.Equal(t, []string{"Admin"}, claims.Roles())
	assert.Equal(t, now.Format(time.RFC3339), claims.Timestamp())
}

func TestPostbackPayload_NonEmployee(t *testing.T) {
	cipher, err := cryptoutil.NewLegacyCipher("dev key")
	require.NoError(t, err)

	p, err := NewProvider(Config{UserID: 8}, cipher)
	require.NoError(t, err)

	posted, err := p.PostbackPayload()
	require.NoError(t, err)

	plaintext, err := cipher.Decrypt(posted)
	require.NoError(t, err)
	claims, err := domainauth.DecodeClaims(plaintext)
	require.NoError(t, err)

	assert.Equal(t, 0, claims.Type())
}
