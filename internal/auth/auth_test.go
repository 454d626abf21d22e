package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clients.json")
	clients := `[{"name":"reporter","password":"s3cret"},{"name":"importer","password":"hunter2"}]`
	require.NoError(t, os.WriteFile(path, []byte(clients), 0o600))

	a, err := New("test-signing-key", time.Minute, path, zerolog.Nop())
	require.NoError(t, err)
	return a
}

func TestAuthenticate(t *testing.T) {
	a := newTestAuthenticator(t)

	client, ok := a.Authenticate("reporter", "s3cret")
	require.True(t, ok)
	assert.Equal(t, "reporter", client.Name)

	_, ok = a.Authenticate("reporter", "wrong")
	assert.False(t, ok)

	_, ok = a.Authenticate("nobody", "s3cret")
	assert.False(t, ok)
}

func TestTokenRoundTrip(t *testing.T) {
	a := newTestAuthenticator(t)

	signed, err := a.CreateAccessToken("importer")
	require.NoError(t, err)

	client, err := a.ParseToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "importer", client.Name)
}

func TestParseToken_Rejects(t *testing.T) {
	a := newTestAuthenticator(t)

	t.Run("garbage", func(t *testing.T) {
		_, err := a.ParseToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := New("another-key", time.Minute, filepath.Join(t.TempDir(), "missing.json"), zerolog.Nop())
		require.NoError(t, err)
		signed, err := other.CreateAccessToken("reporter")
		require.NoError(t, err)

		_, err = a.ParseToken(signed)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		short, err := New("test-signing-key", -time.Minute, filepath.Join(t.TempDir(), "missing.json"), zerolog.Nop())
		require.NoError(t, err)
		signed, err := short.CreateAccessToken("reporter")
		require.NoError(t, err)

		_, err = a.ParseToken(signed)
		assert.Error(t, err)
	})

	t.Run("unknown subject", func(t *testing.T) {
		other, err := New("test-signing-key", time.Minute, filepath.Join(t.TempDir(), "missing.json"), zerolog.Nop())
		require.NoError(t, err)
		signed, err := other.CreateAccessToken("ghost")
		require.NoError(t, err)

		_, err = a.ParseToken(signed)
		assert.Error(t, err)
	})
}

func TestMissingClientsFile(t *testing.T) {
	a, err := New("key", time.Minute, filepath.Join(t.TempDir(), "missing.json"), zerolog.Nop())
	require.NoError(t, err)

	_, ok := a.Authenticate("reporter", "s3cret")
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	a := newTestAuthenticator(t)

	var seen *Client
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClientFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	guarded := a.Middleware(next)

	t.Run("valid token", func(t *testing.T) {
		signed, err := a.CreateAccessToken("reporter")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "reporter", seen.Name)
	})

	t.Run("no header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
