package app

import (
	"testing"
	"time"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	cfg := TokenConfig{
		SecretKey: "user-secret",
		Expiry:    1 * time.Hour,
		Issuer:    "test-issuer",
	}
	tm := NewTokenManager(cfg)

	uid := int64(1001)
	token, err := tm.Generate(uid, "user@example.com", "127.0.0.1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if claims.UID != uid {
		t.Errorf("Expected UID %d, got %d", uid, claims.UID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Expected email user@example.com, got %s", claims.Email)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("Expected issuer test-issuer, got %s", claims.Issuer)
	}

	// 验证 ExpiresAt（秒级 Unix 戳，允许 1 秒内的误差）
	expectedExp := time.Now().Add(cfg.Expiry)
	if claims.ExpiresAt.Unix() < expectedExp.Unix()-1 || claims.ExpiresAt.Unix() > expectedExp.Unix()+1 {
		t.Errorf("Expected ExpiresAt around %v, got %v", expectedExp, claims.ExpiresAt)
	}
}

func TestTokenManager_WrongKey(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "right-secret"})
	tmWrong := NewTokenManager(TokenConfig{SecretKey: "wrong-secret"})

	token, err := tmWrong.Generate(1, "a@b.c", "127.0.0.1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := tm.Parse(token); err == nil {
		t.Error("Expected error when parsing token with wrong secret key, but got nil")
	}
}

func TestTokenManager_Tampered(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "secret"})

	token, err := tm.Generate(7, "a@b.c", "127.0.0.1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if err := tm.Validate(token + "tampered"); err == nil {
		t.Error("Expected error when validating tampered token, but got nil")
	}
}
