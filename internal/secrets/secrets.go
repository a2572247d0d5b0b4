// Package secrets encrypts account credentials at rest with AES-256-GCM.
// The cipher key is derived from the app key with HKDF so the raw key is
// never used directly.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the required app key length (AES-256).
const KeySize = 32

const derivationInfo = "xedule-credentials-v1"

var (
	ErrInvalidKey        = errors.New("secret key must be 32 bytes")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// Cipher seals and opens strings with a key derived from the app key.
type Cipher struct {
	key []byte
}

func NewCipher(appKey []byte) (*Cipher, error) {
	if len(appKey) != KeySize {
		return nil, ErrInvalidKey
	}

	reader := hkdf.New(sha256.New, appKey, nil, []byte(derivationInfo))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	return &Cipher{key: key}, nil
}

// EncryptString returns base64(nonce + ciphertext + tag).
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString.
func (c *Cipher) DecryptString(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Join(ErrInvalidCiphertext, err)
	}

	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	if len(sealed) < aead.NonceSize() {
		return "", ErrInvalidCiphertext
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Join(ErrInvalidCiphertext, err)
	}

	return string(plaintext), nil
}

func (c *Cipher) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
