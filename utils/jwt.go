package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AppClaims represents JWT claims for an authenticated tenant app
type AppClaims struct {
	AppKey string `json:"app_key"` // Protected by signature - cannot be tampered without detection
	jwt.RegisteredClaims
}

// GenerateAppToken generates a JWT token for a tenant app identified by its
// appKey. The appKey claim is protected by the HMAC-SHA256 signature.
func GenerateAppToken(appKey string, secret string, expiration time.Duration) (string, error) {
	claims := AppClaims{
		AppKey: appKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "fort",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAppToken validates a JWT token and verifies its signature.
// Returns claims only if the token signature is valid.
func ValidateAppToken(tokenString, secret string) (*AppClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AppClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method to prevent algorithm confusion attacks
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AppClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
