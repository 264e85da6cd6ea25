package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const nonceSize = 12
const tagSize = aes.BlockSize
const versionMagic = byte('C')

// ErrDecrypt is returned for any malformed or tampered ciphertext token. It
// deliberately carries no detail about the input or the failure mode.
var ErrDecrypt = errors.New("decryption failed")

// Cipher performs authenticated symmetric encryption of strings.
type Cipher struct {
	aesgcm cipher.AEAD
}

// New creates a Cipher from a 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	return &Cipher{aesgcm: aesgcm}, nil
}

// Encrypt encrypts plaintext into a URL-safe base64 token. The empty string
// maps to the empty string.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce, err := randomBytes(nonceSize)
	if err != nil {
		return "", err
	}

	cipherTextWithTag := c.aesgcm.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(packCipherData(cipherTextWithTag, nonce)), nil
}

// Decrypt reverses Encrypt. The empty string maps to the empty string. Any
// malformed or tampered token fails with ErrDecrypt.
func (c *Cipher) Decrypt(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	packed, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrDecrypt
	}

	if len(packed) < 1+tagSize+nonceSize || packed[0] != versionMagic {
		return "", ErrDecrypt
	}

	cipherText, nonce := unpackCipherData(packed)
	plaintext, err := c.aesgcm.Open(nil, nonce, cipherText, nil)
	if err != nil {
		return "", ErrDecrypt
	}

	return string(plaintext), nil
}

func randomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}

	return value, nil
}

// packCipherData lays out version|tag|nonce|ciphertext.
func packCipherData(cipherTextWithTag []byte, nonce []byte) []byte {
	tagStartIndex := len(cipherTextWithTag) - tagSize
	tag := cipherTextWithTag[tagStartIndex:]
	cipherText := cipherTextWithTag[:tagStartIndex]

	data := make([]byte, 1+tagSize+nonceSize+len(cipherText))
	data[0] = versionMagic
	index := 1

	copy(data[index:], tag)
	index += tagSize

	copy(data[index:], nonce)
	index += nonceSize

	copy(data[index:], cipherText)

	return data
}

func unpackCipherData(packed []byte) ([]byte, []byte) {
	index := 1

	nextIndex := index + tagSize
	tag := packed[index:nextIndex]
	index = nextIndex

	nextIndex = index + nonceSize
	nonce := packed[index:nextIndex]
	index = nextIndex

	// GCM expects ciphertext||tag
	cipherText := append(append([]byte{}, packed[index:]...), tag...)

	return cipherText, nonce
}
