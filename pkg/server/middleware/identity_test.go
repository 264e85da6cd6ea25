package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/credstore/pkg/config"
	"github.com/doodlesbykumbi/credstore/pkg/identity"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("CREDSTORE_CONFIG_PATH", filepath.Join(t.TempDir(), "nope"))
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

// captureHandler records the identity the middleware injected.
func captureHandler(got *identity.Identity, ok *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *ok = identity.Get(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityRequiresUserHeader(t *testing.T) {
	m, err := NewIdentity(testConfig(t))
	require.NoError(t, err)

	var got identity.Identity
	var ok bool
	handler := m.Middleware(captureHandler(&got, &ok))

	req := httptest.NewRequest("GET", "/credentials", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
	assert.Contains(t, rec.Body.String(), "X-User-ID")
}

func TestIdentityInjectsCaller(t *testing.T) {
	m, err := NewIdentity(testConfig(t))
	require.NoError(t, err)

	var got identity.Identity
	var ok bool
	handler := m.Middleware(captureHandler(&got, &ok))

	req := httptest.NewRequest("GET", "/credentials", nil)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("User-Agent", "credstore-test")
	req.RemoteAddr = "192.0.2.10:52234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, "192.0.2.10", got.RemoteIP)
	assert.Equal(t, "credstore-test", got.UserAgent)
}

func TestIdentityForwardedForOnlyFromTrustedProxy(t *testing.T) {
	cfg := testConfig(t)
	cfg.TrustedProxies = []string{"10.0.0.0/8"}
	m, err := NewIdentity(cfg)
	require.NoError(t, err)

	var got identity.Identity
	var ok bool
	handler := m.Middleware(captureHandler(&got, &ok))

	// Trusted peer: the forwarded address wins.
	req := httptest.NewRequest("GET", "/credentials", nil)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.RemoteAddr = "10.1.2.3:1000"
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, ok)
	assert.Equal(t, "203.0.113.7", got.RemoteIP)

	// Untrusted peer: the header is ignored.
	req = httptest.NewRequest("GET", "/credentials", nil)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.RemoteAddr = "198.51.100.9:1000"
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, ok)
	assert.Equal(t, "198.51.100.9", got.RemoteIP)
}

func TestIdentityGatewayToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	keyPath := filepath.Join(t.TempDir(), "gateway.pem")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{
		Type: "PUBLIC KEY", Bytes: der,
	}), 0o600))

	cfg := testConfig(t)
	cfg.GatewayJWTPublicKeyPath = keyPath
	m, err := NewIdentity(cfg)
	require.NoError(t, err)

	sign := func(subject string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"sub": subject,
			"exp": time.Now().Add(time.Minute).Unix(),
		})
		signed, err := token.SignedString(key)
		require.NoError(t, err)
		return signed
	}

	var got identity.Identity
	var ok bool
	handler := m.Middleware(captureHandler(&got, &ok))

	// Valid token with matching subject passes.
	req := httptest.NewRequest("GET", "/credentials", nil)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-Gateway-Token", sign("alice"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, "alice", got.UserID)

	// Missing token is refused.
	req = httptest.NewRequest("GET", "/credentials", nil)
	req.Header.Set("X-User-ID", "alice")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Subject mismatch is refused.
	req = httptest.NewRequest("GET", "/credentials", nil)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-Gateway-Token", sign("mallory"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token is refused.
	req = httptest.NewRequest("GET", "/credentials", nil)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-Gateway-Token", "not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
