package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

var ErrNoSubject = errors.New("token has no subject")

// Subject returns the sub claim of token without verifying the signature.
// The storefront never holds the API's signing key; the API verifies.
func Subject(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrNoSubject
	}
	return sub, nil
}
