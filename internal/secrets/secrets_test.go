package secrets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipher_RoundTrip(t *testing.T) {
	cipher, err := NewCipher(bytes.Repeat([]byte{0x42}, KeySize))
	require.NoError(t, err)

	sealed, err := cipher.EncryptString("super-secret-token")
	require.NoError(t, err)
	assert.NotEqual(t, "super-secret-token", sealed)

	plain, err := cipher.DecryptString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "super-secret-token", plain)
}

func TestCipher_NoncesDiffer(t *testing.T) {
	cipher, err := NewCipher(bytes.Repeat([]byte{0x42}, KeySize))
	require.NoError(t, err)

	first, err := cipher.EncryptString("same input")
	require.NoError(t, err)
	second, err := cipher.EncryptString("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCipher_WrongKeyFails(t *testing.T) {
	cipher, err := NewCipher(bytes.Repeat([]byte{0x42}, KeySize))
	require.NoError(t, err)

	sealed, err := cipher.EncryptString("secret")
	require.NoError(t, err)

	other, err := NewCipher(bytes.Repeat([]byte{0x43}, KeySize))
	require.NoError(t, err)

	_, err = other.DecryptString(sealed)
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestNewCipher_RejectsShortKey(t *testing.T) {
	_, err := NewCipher([]byte("too short"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestCipher_RejectsGarbage(t *testing.T) {
	cipher, err := NewCipher(bytes.Repeat([]byte{0x42}, KeySize))
	require.NoError(t, err)

	_, err = cipher.DecryptString("not base64!!!")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = cipher.DecryptString("c2hvcnQ=")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}
