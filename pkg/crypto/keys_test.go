package crypto

import (
	"encoding/base64"
	"testing"
)

func TestLoadKeyDirect(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(testKey())

	key, err := LoadKey(encoded, "", "")
	if err != nil {
		t.Fatalf("LoadKey error: %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("key length = %d, want %d", len(key), KeySize)
	}
}

func TestLoadKeyRejectsBadKeys(t *testing.T) {
	// Not base64
	if _, err := LoadKey("!!not-base64!!", "", ""); err == nil {
		t.Error("expected error for non-base64 key")
	}

	// Wrong length
	short := base64.StdEncoding.EncodeToString(make([]byte, 16))
	if _, err := LoadKey(short, "", ""); err == nil {
		t.Error("expected error for 16-byte key")
	}
}

func TestLoadKeyDerived(t *testing.T) {
	key1, err := LoadKey("", "password", "salt")
	if err != nil {
		t.Fatalf("LoadKey error: %v", err)
	}
	if len(key1) != KeySize {
		t.Errorf("derived key length = %d, want %d", len(key1), KeySize)
	}

	// Derivation is deterministic for the same inputs
	key2, _ := LoadKey("", "password", "salt")
	if string(key1) != string(key2) {
		t.Error("derived keys should match for identical password and salt")
	}

	// Different salt yields a different key
	key3, _ := LoadKey("", "password", "other-salt")
	if string(key1) == string(key3) {
		t.Error("derived keys should differ for different salts")
	}
}

func TestLoadKeyRequiresSomeSource(t *testing.T) {
	if _, err := LoadKey("", "", ""); err == nil {
		t.Error("expected error when no key material is configured")
	}
	if _, err := LoadKey("", "password", ""); err == nil {
		t.Error("expected error when salt is missing")
	}
}

func TestGenerateKey(t *testing.T) {
	encoded, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey error: %v", err)
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("generated key is not valid base64: %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("generated key length = %d, want %d", len(key), KeySize)
	}

	// And it must be usable directly with LoadKey
	if _, err := LoadKey(encoded, "", ""); err != nil {
		t.Errorf("LoadKey rejected generated key: %v", err)
	}
}
