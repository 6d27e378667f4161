package auth

import (
	"testing"

	"github.com/google/uuid"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(testSecret, userID, "ADMIN")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ValidateToken(testSecret, token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("user_id: got %s, want %s", claims.UserID, userID)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("role: got %s, want ADMIN", claims.Role)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), "ADMIN")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := ValidateToken("other-secret", token); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	if _, err := ValidateToken(testSecret, "not.a.token"); err == nil {
		t.Error("expected validation to fail for malformed token")
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateRefreshToken(testSecret, userID)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	// Refresh tokens carry only registered claims; ValidateToken still parses
	// them because Claims embeds RegisteredClaims.
	claims, err := ValidateToken(testSecret, token)
	if err != nil {
		t.Fatalf("validate refresh token: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("subject: got %s, want %s", claims.Subject, userID)
	}
}
