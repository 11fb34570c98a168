package utils

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewInviteToken(t *testing.T) {
	tok, err := NewInviteToken()
	if err != nil {
		t.Fatalf("NewInviteToken() error = %v", err)
	}
	if len(tok) != 64 {
		t.Errorf("token length = %d, want 64", len(tok))
	}
	if _, err := hex.DecodeString(tok); err != nil {
		t.Errorf("token is not hex: %v", err)
	}
}

func TestNewInviteTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		tok, err := NewInviteToken()
		if err != nil {
			t.Fatalf("NewInviteToken() error = %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[tok] = true
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, 42, "ADMIN", 15)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}
	if !at.Exp.After(time.Now()) {
		t.Error("access token already expired")
	}

	parsed, err := jwt.Parse(at.Token, func(tk *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse signed token: valid=%v err=%v", parsed != nil && parsed.Valid, err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Errorf("sub claim = %v, want 42", claims["sub"])
	}
	if claims["role"] != "ADMIN" {
		t.Errorf("role claim = %v, want ADMIN", claims["role"])
	}

	if _, err := jwt.Parse(at.Token, func(tk *jwt.Token) (any, error) {
		return []byte("wrong-secret"), nil
	}); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken() error = %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Errorf("raw length = %d, want 96", len(rt.Raw))
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
		t.Error("hash is not deterministic")
	}
	other, _ := NewRefreshToken(30)
	if HashRefreshRaw(rt.Raw) == HashRefreshRaw(other.Raw) {
		t.Error("distinct tokens share a hash")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !VerifyPassword(hash, "correct horse") {
		t.Error("hash does not verify against its own password")
	}
	if VerifyPassword(hash, "battery staple") {
		t.Error("hash verified against the wrong password")
	}
}
