package jwt

import (
	"testing"
	"time"

	"github.com/fixora/backoffice/internal/ports"
)

func TestJWTService(t *testing.T) {
	service, err := NewJWTService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create JWT service: %v", err)
	}

	t.Run("GenerateAccessToken", func(t *testing.T) {
		token, err := service.GenerateAccessToken(ports.TokenClaims{UserID: "usr_1001"})
		if err != nil {
			t.Errorf("Failed to generate access token: %v", err)
		}
		if token == "" {
			t.Error("Access token should not be empty")
		}
	})

	t.Run("ValidateAccessToken", func(t *testing.T) {
		tokenString, err := service.GenerateAccessToken(ports.TokenClaims{UserID: "usr_1001", Name: "Omar Haddad", Role: "super_admin"})
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}

		claims, err := service.ValidateAccessToken(tokenString)
		if err != nil {
			t.Fatalf("Failed to validate token: %v", err)
		}
		if claims.UserID != "usr_1001" {
			t.Errorf("Expected user ID 'usr_1001', got '%s'", claims.UserID)
		}
		if claims.Role != "super_admin" {
			t.Errorf("Expected role 'super_admin', got '%s'", claims.Role)
		}
	})

	t.Run("ValidateInvalidToken", func(t *testing.T) {
		if _, err := service.ValidateAccessToken("invalid-token"); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("ValidateWrongSecret", func(t *testing.T) {
		other, _ := NewJWTService("other-secret", time.Hour)
		tokenString, _ := other.GenerateAccessToken(ports.TokenClaims{UserID: "usr_1001"})
		if _, err := service.ValidateAccessToken(tokenString); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("ValidateExpiredToken", func(t *testing.T) {
		issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		shortService, _ := NewJWTService("test-secret", time.Minute)
		shortService.now = func() time.Time { return issued }

		tokenString, err := shortService.GenerateAccessToken(ports.TokenClaims{UserID: "usr_1001"})
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}

		shortService.now = func() time.Time { return issued.Add(2 * time.Minute) }
		if _, err := shortService.ValidateAccessToken(tokenString); err != ErrTokenExpired {
			t.Errorf("Expected ErrTokenExpired, got %v", err)
		}
	})
}

func TestNewJWTService_Validation(t *testing.T) {
	if _, err := NewJWTService("", time.Hour); err == nil {
		t.Error("Expected error for empty secret")
	}
	if _, err := NewJWTService("s", 0); err == nil {
		t.Error("Expected error for zero ttl")
	}
}
