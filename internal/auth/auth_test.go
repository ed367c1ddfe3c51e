package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Error("correct password must verify")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Error("wrong password must not verify")
	}
}

func TestGenerateJWTCarriesClaims(t *testing.T) {
	Init("test-secret")

	tokenString, err := GenerateJWT("budi", "Budi", "technician", "div-fo", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtSecret, nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parse error = %v, valid = %v", err, token != nil && token.Valid)
	}

	if claims.Username != "budi" || claims.Name != "Budi" || claims.Role != "technician" || claims.DivisionID != "div-fo" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > time.Hour {
		t.Error("expiration must honor the requested duration")
	}
}
