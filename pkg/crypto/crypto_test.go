package crypto

import (
	"encoding/base64"
	"strings"
	"testing"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNew(t *testing.T) {
	cipher, err := New(testKey())
	if err != nil {
		t.Fatalf("unexpected error with valid key: %v", err)
	}
	if cipher == nil {
		t.Fatal("expected non-nil cipher")
	}

	// Only 32-byte keys are accepted
	for _, size := range []int{0, 15, 16, 24, 31, 33} {
		if _, err := New(make([]byte, size)); err == nil {
			t.Errorf("expected error with %d-byte key", size)
		}
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	cipher, err := New(testKey())
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "simple secret", plaintext: "s3cr3t"},
		{name: "unicode", plaintext: "pässwörd-秘密"},
		{name: "long value", plaintext: strings.Repeat("x", 10000)},
		{name: "whitespace preserved", plaintext: "  spaced  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := cipher.Encrypt(tt.plaintext)
			if err != nil {
				t.Fatalf("encryption failed: %v", err)
			}

			if token == tt.plaintext {
				t.Error("token should differ from plaintext")
			}

			decrypted, err := cipher.Decrypt(token)
			if err != nil {
				t.Fatalf("decryption failed: %v", err)
			}

			if decrypted != tt.plaintext {
				t.Errorf("decrypted doesn't match original: got %q, want %q", decrypted, tt.plaintext)
			}
		})
	}
}

func TestEmptyStringPassthrough(t *testing.T) {
	cipher, _ := New(testKey())

	token, err := cipher.Encrypt("")
	if err != nil {
		t.Fatalf("Encrypt(\"\") error: %v", err)
	}
	if token != "" {
		t.Errorf("Encrypt(\"\") = %q, want \"\"", token)
	}

	plaintext, err := cipher.Decrypt("")
	if err != nil {
		t.Fatalf("Decrypt(\"\") error: %v", err)
	}
	if plaintext != "" {
		t.Errorf("Decrypt(\"\") = %q, want \"\"", plaintext)
	}
}

func TestDecryptTamperedToken(t *testing.T) {
	cipher, _ := New(testKey())

	token, err := cipher.Encrypt("secret data")
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}

	packed, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("token is not valid base64: %v", err)
	}

	// Flipping any single byte must fail decryption, never return wrong
	// plaintext
	for i := range packed {
		corrupted := append([]byte{}, packed...)
		corrupted[i] ^= 0xff

		_, err := cipher.Decrypt(base64.URLEncoding.EncodeToString(corrupted))
		if err == nil {
			t.Errorf("expected decryption to fail with byte %d flipped", i)
		}
	}
}

func TestDecryptMalformedToken(t *testing.T) {
	cipher, _ := New(testKey())

	for _, token := range []string{
		"not-base64!!!",
		base64.URLEncoding.EncodeToString([]byte("short")),
		base64.URLEncoding.EncodeToString(make([]byte, 1+tagSize+nonceSize-1)),
	} {
		_, err := cipher.Decrypt(token)
		if err == nil {
			t.Errorf("expected error decrypting %q", token)
		}
		if err != ErrDecrypt {
			t.Errorf("expected ErrDecrypt, got %v", err)
		}
	}
}

func TestEncryptionIsNonDeterministic(t *testing.T) {
	cipher, _ := New(testKey())

	token1, _ := cipher.Encrypt("same message")
	token2, _ := cipher.Encrypt("same message")

	if token1 == token2 {
		t.Error("encrypting same plaintext twice should produce different tokens")
	}

	decrypted1, _ := cipher.Decrypt(token1)
	decrypted2, _ := cipher.Decrypt(token2)

	if decrypted1 != "same message" || decrypted2 != "same message" {
		t.Error("both tokens should decrypt to original plaintext")
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	cipher1, _ := New(testKey())

	otherKey := testKey()
	otherKey[0] ^= 0xff
	cipher2, _ := New(otherKey)

	token, _ := cipher1.Encrypt("secret data")
	if _, err := cipher2.Decrypt(token); err == nil {
		t.Error("expected decryption to fail with a different key")
	}
}
