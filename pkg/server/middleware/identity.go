// Package middleware provides the HTTP middleware for the API surface.
package middleware

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doodlesbykumbi/credstore/pkg/config"
	"github.com/doodlesbykumbi/credstore/pkg/identity"
)

// Identity resolves the caller from headers set by the upstream gateway.
// X-User-ID is mandatory on every request. When a gateway public key is
// configured, X-Gateway-Token must carry an RS256 JWT signed by the gateway
// whose subject matches the user id; without a key the header is trusted
// as-is (the gateway is assumed to terminate authentication).
type Identity struct {
	cfg       *config.Config
	publicKey *rsa.PublicKey
}

// NewIdentity creates the identity middleware, loading the gateway's public
// key if one is configured.
func NewIdentity(cfg *config.Config) (*Identity, error) {
	m := &Identity{cfg: cfg}
	if cfg.GatewayJWTPublicKeyPath != "" {
		pem, err := os.ReadFile(cfg.GatewayJWTPublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("identity middleware: read gateway public key: %w", err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("identity middleware: parse gateway public key: %w", err)
		}
		m.publicKey = key
	}
	return m, nil
}

// Middleware wraps a handler with identity resolution.
func (m *Identity) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			unauthorized(w, "missing X-User-ID header")
			return
		}

		if m.publicKey != nil {
			raw := r.Header.Get("X-Gateway-Token")
			if raw == "" {
				unauthorized(w, "missing X-Gateway-Token header")
				return
			}
			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return m.publicKey, nil
			})
			if err != nil || !token.Valid {
				unauthorized(w, "invalid gateway token")
				return
			}
			subject, err := token.Claims.GetSubject()
			if err != nil || subject != userID {
				unauthorized(w, "gateway token subject mismatch")
				return
			}
		}

		who := identity.Identity{
			UserID:    userID,
			RemoteIP:  m.clientIP(r),
			UserAgent: r.UserAgent(),
		}
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), who)))
	})
}

// clientIP resolves the caller's address. X-Forwarded-For is honored only
// when the direct peer is a trusted proxy; the rightmost entry is the
// closest hop and the one the proxy vouches for.
func (m *Identity) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !m.cfg.IsTrustedProxy(host) {
		return host
	}
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return host
	}
	parts := strings.Split(forwarded, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": message})
}
