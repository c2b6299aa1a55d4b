package utils

import (
	"testing"

	"github.com/kartlane/ecommerce-api/models"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	user := &models.User{
		ID:    "11111111-1111-1111-1111-111111111111",
		Email: "user@example.com",
		Role:  models.RoleAdmin,
	}

	token, err := GenerateAccessToken("secret", user)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.Subject != user.ID {
		t.Errorf("expected subject %q, got %q", user.ID, claims.Subject)
	}
	if claims.Email != user.Email {
		t.Errorf("expected email %q, got %q", user.Email, claims.Email)
	}
	if claims.Role != string(models.RoleAdmin) {
		t.Errorf("expected role ADMIN, got %q", claims.Role)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: "u1", Email: "user@example.com", Role: models.RoleUser}

	token, err := GenerateAccessToken("secret", user)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	a := HashToken("some-refresh-token")
	b := HashToken("some-refresh-token")
	if a != b {
		t.Fatal("expected identical input to hash identically")
	}
	if a == HashToken("another-token") {
		t.Fatal("expected different input to hash differently")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}
