// Package token mints and verifies the bearer tokens issued at signup and
// login. Tokens are stateless HS256 JWTs carrying the user id in the sub
// claim; nothing is persisted server-side.
package token

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Lifetime is fixed at one day from issuance.
const Lifetime = 24 * time.Hour

// Issue signs a fresh token bound to userID.
func Issue(userID string) (string, error) {
	return issue(userID, Lifetime)
}

func issue(userID string, ttl time.Duration) (string, error) {
	secret, err := signingSecret()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse validates tokenString and returns the user id it was issued to.
// Malformed, tampered, and expired tokens all fail.
func Parse(tokenString string) (string, error) {
	secret, err := signingSecret()
	if err != nil {
		return "", err
	}
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("could not parse token claims")
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user id (sub) claim is missing or invalid")
	}
	return userID, nil
}

func signingSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return []byte(secret), nil
}
