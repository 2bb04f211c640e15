package tokens

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cachi0001/simplified-hrm-agent/pkg/encryption"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/file"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	encryptionManager, err := encryption.NewEncryptionManager([]byte("machine-secret"), []byte("0123456789abcdef"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tokens.enc")
	return NewManager(path, file.NewFileService(), encryptionManager)
}

// signedToken builds a backend-style HS256 token expiring at exp. The signing
// key is irrelevant here; only the exp claim is inspected.
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "emp-9",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}

// TestManager_SaveAndLoad tests the encrypted persistence round trip.
func TestManager_SaveAndLoad(t *testing.T) {
	manager := newTestManager(t)
	access := signedToken(t, time.Now().Add(time.Hour))

	require.NoError(t, manager.SaveTokens(access, "refresh-opaque"))

	reloaded := NewManager(manager.tokenFilePath, manager.fileOps, manager.encryptionManager)
	require.NoError(t, reloaded.Load())

	assert.Equal(t, access, reloaded.AccessToken())
	assert.Equal(t, "refresh-opaque", reloaded.RefreshToken())
	assert.True(t, reloaded.IsAccessTokenValid())
}

// TestManager_MissingFile tests that a never-written token file means not
// logged in, not an error.
func TestManager_MissingFile(t *testing.T) {
	manager := newTestManager(t)

	require.NoError(t, manager.Load())
	assert.Empty(t, manager.AccessToken())
	assert.Empty(t, manager.RefreshToken())
	assert.False(t, manager.IsAccessTokenValid())
}

// TestManager_ExpiredToken tests that an expired access token is withheld
// while the refresh token stays available.
func TestManager_ExpiredToken(t *testing.T) {
	manager := newTestManager(t)
	expired := signedToken(t, time.Now().Add(-time.Hour))

	require.NoError(t, manager.SaveTokens(expired, "refresh-opaque"))

	assert.Empty(t, manager.AccessToken())
	assert.False(t, manager.IsAccessTokenValid())
	assert.Equal(t, "refresh-opaque", manager.RefreshToken())
}

// TestManager_MalformedToken tests that a token that is not a JWT at all is
// treated as invalid.
func TestManager_MalformedToken(t *testing.T) {
	manager := newTestManager(t)

	require.NoError(t, manager.SaveTokens("not-a-jwt", "refresh-opaque"))
	assert.False(t, manager.IsAccessTokenValid())
}

// TestManager_Clear tests logout: both tokens dropped from memory and disk.
func TestManager_Clear(t *testing.T) {
	manager := newTestManager(t)
	require.NoError(t, manager.SaveTokens(signedToken(t, time.Now().Add(time.Hour)), "refresh-opaque"))

	require.NoError(t, manager.Clear())
	assert.Empty(t, manager.AccessToken())
	assert.Empty(t, manager.RefreshToken())

	reloaded := NewManager(manager.tokenFilePath, manager.fileOps, manager.encryptionManager)
	require.NoError(t, reloaded.Load())
	assert.Empty(t, reloaded.RefreshToken())
}
