package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-our-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestSubject(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "seller", "exp": time.Now().Add(time.Hour).Unix()})
	sub, err := Subject(tok)
	if err != nil {
		t.Fatalf("subject failed: %v", err)
	}
	if sub != "seller" {
		t.Fatalf("expected seller, got %s", sub)
	}
}

func TestSubject_ExpiredTokenStillDecodes(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "old", "exp": time.Now().Add(-time.Hour).Unix()})
	if sub, err := Subject(tok); err != nil || sub != "old" {
		t.Fatalf("expected old, got %q %v", sub, err)
	}
}

func TestSubject_Missing(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"user_id": 7})
	if _, err := Subject(tok); !errors.Is(err, ErrNoSubject) {
		t.Fatalf("expected ErrNoSubject, got %v", err)
	}
}

func TestSubject_Garbage(t *testing.T) {
	if _, err := Subject("random.invalid.token.12345"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
