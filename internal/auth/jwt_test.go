package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gogo-cafe/api/internal/auth"
	"github.com/gogo-cafe/api/internal/enum"
	"github.com/google/uuid"
)

func testUser() auth.User {
	return auth.User{ID: uuid.New(), Name: "Bob Brown", Role: enum.UserRoleBarista}
}

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"
	user := testUser()

	token, err := auth.GenerateToken(secret, user, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := auth.ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}

	if claims.UserID != user.ID {
		t.Errorf("user ID: got %v, want %v", claims.UserID, user.ID)
	}
	if claims.Name != user.Name {
		t.Errorf("name: got %v, want %v", claims.Name, user.Name)
	}
	if claims.Role != user.Role {
		t.Errorf("role: got %v, want %v", claims.Role, user.Role)
	}
}

func TestValidateTokenWithWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("secret-a", testUser(), 0)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = auth.ValidateToken("secret-b", token)
	if err == nil {
		t.Fatal("expected error validating with wrong secret")
	}
}

func TestValidateTokenWithInvalidString(t *testing.T) {
	_, err := auth.ValidateToken("secret", "not-a-jwt")
	if err == nil {
		t.Fatal("expected error validating invalid token string")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	id := uuid.New()
	token, err := auth.GenerateRefreshToken("secret", id)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}
	got, err := auth.ValidateRefreshToken("secret", token)
	if err != nil {
		t.Fatalf("validate refresh token: %v", err)
	}
	if got != id {
		t.Errorf("subject: got %v, want %v", got, id)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	token, _ := auth.GenerateRefreshToken("secret", uuid.New())
	if _, err := auth.ValidateToken("secret", token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
