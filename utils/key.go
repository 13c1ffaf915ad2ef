package utils

import (
	"crypto/rand"
)

const (
	// AppKeyLength is the length of generated app keys and secrets
	AppKeyLength = 20
	// StLength is the length of generated session tokens
	StLength = 60
	// KeyCharset is the character set used for generated keys (a-zA-Z0-9)
	KeyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateKey generates a random key of n characters from a-zA-Z0-9.
// Uses crypto/rand so keys are safe to hand out as credentials.
func GenerateKey(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	result := make([]byte, n)
	charsetLen := len(KeyCharset)

	for i := 0; i < n; i++ {
		result[i] = KeyCharset[int(bytes[i])%charsetLen]
	}

	return string(result), nil
}

// GenerateAppKey generates a new app key.
func GenerateAppKey() (string, error) {
	return GenerateKey(AppKeyLength)
}

// GenerateAppSecret generates a new app secret.
func GenerateAppSecret() (string, error) {
	return GenerateKey(AppKeyLength)
}

// GenerateSt generates a new session token.
func GenerateSt() (string, error) {
	return GenerateKey(StLength)
}
