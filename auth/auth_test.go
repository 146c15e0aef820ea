// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"testing"

	"github.com/pollstream/live-polls/models"
)

func TestTokenRoundTrip(t *testing.T) {
	user := models.User{
		ID:    "user-123",
		Email: "alice@example.com",
		Role:  models.RoleMember,
	}

	token, err := GenerateToken(user, "secret")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	sub, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if sub != user.ID {
		t.Errorf("Expected subject %s, got %s", user.ID, sub)
	}
}

func TestParseTokenRejectsBad(t *testing.T) {
	user := models.User{ID: "user-123", Email: "a@example.com", Role: models.RoleMember}
	token, err := GenerateToken(user, "secret")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", token, "other-secret"},
		{"garbage", "not.a.token", "secret"},
		{"empty", "", "secret"},
		{"tampered", token + "x", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.token, tt.secret); err != ErrInvalidToken {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter2" {
		t.Error("Expected hash to differ from plaintext")
	}

	if !CheckPassword(hash, "hunter2") {
		t.Error("Expected correct password to verify")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("Expected wrong password to fail")
	}
	if CheckPassword("not-a-hash", "hunter2") {
		t.Error("Expected malformed hash to fail")
	}
}
