package security

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNewEncryptor_RejectsShortKey(t *testing.T) {
	_, err := NewEncryptor([]byte("too-short"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	enc, err := NewEncryptor(testKey(t))
	require.NoError(t, err)

	plaintexts := []string{
		"slept badly, long commute",
		"",
		"unicode: 天気が良い ☀️",
		strings.Repeat("long note ", 500),
	}

	for _, pt := range plaintexts {
		ct, err := enc.Encrypt(pt)
		require.NoError(t, err)

		got, err := enc.Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
}

func TestEncrypt_NonDeterministicNonce(t *testing.T) {
	enc, err := NewEncryptor(testKey(t))
	require.NoError(t, err)

	a, err := enc.Encrypt("same note")
	require.NoError(t, err)
	b, err := enc.Encrypt("same note")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	enc1, err := NewEncryptor(testKey(t))
	require.NoError(t, err)
	enc2, err := NewEncryptor(testKey(t))
	require.NoError(t, err)

	ct, err := enc1.Encrypt("private")
	require.NoError(t, err)

	_, err = enc2.Decrypt(ct)
	assert.Error(t, err)
}

func TestDecrypt_GarbageInput(t *testing.T) {
	enc, err := NewEncryptor(testKey(t))
	require.NoError(t, err)

	_, err = enc.Decrypt("not base64 at all!!!")
	assert.Error(t, err)

	_, err = enc.Decrypt("YWJj") // valid base64, too short for a nonce
	assert.Error(t, err)
}
