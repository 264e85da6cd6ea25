package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// KeySize is the master key length in bytes (AES-256).
const KeySize = 32

// kdfIterations is fixed; changing it invalidates every previously derived
// key, so treat it as part of the on-disk format.
const kdfIterations = 100000

// LoadKey resolves the master encryption key. A base64-encoded key takes
// precedence; otherwise the key is derived from password and salt with
// PBKDF2-SHA256. The key is loaded once at startup and held for the process
// lifetime; master-key rotation is an out-of-band operational procedure.
func LoadKey(encodedKey, password, salt string) ([]byte, error) {
	if encodedKey != "" {
		key, err := base64.StdEncoding.DecodeString(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("encryption key is not valid base64: %w", err)
		}
		if len(key) != KeySize {
			return nil, fmt.Errorf("encryption key must decode to %d bytes, got %d", KeySize, len(key))
		}
		return key, nil
	}

	if password == "" || salt == "" {
		return nil, errors.New("either an encryption key or a password and salt must be configured")
	}

	return pbkdf2.Key([]byte(password), []byte(salt), kdfIterations, KeySize, sha256.New), nil
}

// GenerateKey returns a fresh random master key, base64-encoded for use in
// the server environment.
func GenerateKey() (string, error) {
	key, err := randomBytes(KeySize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.Strict().EncodeToString(key), nil
}
