package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestSignJWTCarriesIdentityClaims(t *testing.T) {
	userID := uuid.New()
	secret := "test-secret"

	signed, err := signJWT(userID, []string{RoleUser, RoleAdmin}, 15*time.Minute, accessTokenType, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != userID.String() {
		t.Fatalf("expected sub %s, got %v", userID, claims["sub"])
	}
	if claims["type"] != accessTokenType {
		t.Fatalf("expected access token type, got %v", claims["type"])
	}

	roles, ok := claims["roles"].([]interface{})
	if !ok || len(roles) != 2 {
		t.Fatalf("expected two roles, got %v", claims["roles"])
	}
}

func TestSignJWTExpiresAfterTTL(t *testing.T) {
	signed, err := signJWT(uuid.New(), nil, -time.Minute, accessTokenType, "test-secret")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Maria@Example.COM "); got != "maria@example.com" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
