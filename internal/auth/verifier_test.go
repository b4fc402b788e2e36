package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret   = "test-secret-key-for-unit-tests"
	testAudience = "authenticated"
)

// signTestToken はテスト用のHS256署名済みトークンを生成する。
func signTestToken(t *testing.T, secret string, c jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("トークンの署名に失敗: %v", err)
	}
	return signed
}

// TestVerify_ValidToken は有効なトークンから身元が取り出せることを検証する。
func TestVerify_ValidToken(t *testing.T) {
	verifier := NewJWTVerifier(Config{Secret: testSecret, Audience: testAudience})

	tokenString := signTestToken(t, testSecret, claims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	identity, err := verifier.Verify(tokenString)
	if err != nil {
		t.Fatalf("Verify returned unexpected error: %v", err)
	}
	if identity.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", identity.UserID, "user-123")
	}
	if identity.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", identity.Email, "alice@example.com")
	}
}

// TestVerify_ExpiredToken は期限切れトークンが拒否されることを検証する。
func TestVerify_ExpiredToken(t *testing.T) {
	verifier := NewJWTVerifier(Config{Secret: testSecret, Audience: testAudience})

	tokenString := signTestToken(t, testSecret, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	if _, err := verifier.Verify(tokenString); err == nil {
		t.Error("expected error for expired token")
	}
}

// TestVerify_WrongSecret は異なるシークレットで署名されたトークンが拒否されることを検証する。
func TestVerify_WrongSecret(t *testing.T) {
	verifier := NewJWTVerifier(Config{Secret: testSecret, Audience: testAudience})

	tokenString := signTestToken(t, "another-secret", claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := verifier.Verify(tokenString); err == nil {
		t.Error("expected error for token signed with wrong secret")
	}
}

// TestVerify_WrongAudience はaudienceが一致しないトークンが拒否されることを検証する。
func TestVerify_WrongAudience(t *testing.T) {
	verifier := NewJWTVerifier(Config{Secret: testSecret, Audience: testAudience})

	tokenString := signTestToken(t, testSecret, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{"anon"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := verifier.Verify(tokenString); err == nil {
		t.Error("expected error for token with wrong audience")
	}
}

// TestVerify_MissingSubject はsubクレームのないトークンが拒否されることを検証する。
func TestVerify_MissingSubject(t *testing.T) {
	verifier := NewJWTVerifier(Config{Secret: testSecret, Audience: testAudience})

	tokenString := signTestToken(t, testSecret, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := verifier.Verify(tokenString); err == nil {
		t.Error("expected error for token without subject claim")
	}
	if _, err := verifier.Verify(tokenString); err != nil && !strings.Contains(err.Error(), "subject") {
		t.Errorf("error should mention missing subject: %v", err)
	}
}

// TestVerify_MissingExpiration は有効期限のないトークンが拒否されることを検証する。
func TestVerify_MissingExpiration(t *testing.T) {
	verifier := NewJWTVerifier(Config{Secret: testSecret, Audience: testAudience})

	tokenString := signTestToken(t, testSecret, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "user-123",
			Audience: jwt.ClaimStrings{testAudience},
		},
	})

	if _, err := verifier.Verify(tokenString); err == nil {
		t.Error("expected error for token without expiration")
	}
}

// TestVerify_UnsignedToken は署名なしトークンが拒否されることを検証する。
func TestVerify_UnsignedToken(t *testing.T) {
	verifier := NewJWTVerifier(Config{Secret: testSecret, Audience: testAudience})

	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("トークンの生成に失敗: %v", err)
	}

	if _, err := verifier.Verify(tokenString); err == nil {
		t.Error("expected error for unsigned token")
	}
}

// TestVerify_Garbage はトークンとして解釈できない文字列が拒否されることを検証する。
func TestVerify_Garbage(t *testing.T) {
	verifier := NewJWTVerifier(Config{Secret: testSecret, Audience: testAudience})

	if _, err := verifier.Verify("not-a-jwt"); err == nil {
		t.Error("expected error for garbage input")
	}
}
