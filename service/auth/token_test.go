package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestGenerateJWT(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	tokenString, err := GenerateJWT(42)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !token.Valid {
		t.Fatal("token invalid")
	}

	if claims.Subject != "42" {
		t.Errorf("subject = %q, want %q", claims.Subject, "42")
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != tokenTTL {
		t.Errorf("ttl = %v, want %v", ttl, tokenTTL)
	}
	if claims.ExpiresAt.Before(time.Now()) {
		t.Error("token already expired")
	}
}

func TestGenerateJWTRejectsWrongKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	tokenString, err := GenerateJWT(7)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	_, err = jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("a-different-secret"), nil
	})
	if err == nil {
		t.Fatal("expected verification failure with wrong key")
	}
}
