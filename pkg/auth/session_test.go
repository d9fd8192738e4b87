package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func newTestIssuer(t *testing.T, ttl time.Duration) *SessionIssuer {
	t.Helper()
	issuer, err := NewSessionIssuer("test-secret", ttl, SessionOptions{})
	if err != nil {
		t.Fatalf("NewSessionIssuer() error: %v", err)
	}
	return issuer
}

func TestSessionRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)
	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	subject, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if subject != "user-1" {
		t.Fatalf("Verify() subject = %q, want %q", subject, "user-1")
	}
}

func TestSessionRejectsWrongSecret(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)
	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	other, err := NewSessionIssuer("different-secret", time.Hour, SessionOptions{})
	if err != nil {
		t.Fatalf("NewSessionIssuer() error: %v", err)
	}
	if _, err := other.Verify(token); err == nil {
		t.Fatal("token signed with another secret should be rejected")
	}
}

func TestSessionRejectsExpired(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)
	now := time.Now().UTC().Add(-2 * time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    defaultJWTIssuer,
		Audience:  jwt.ClaimStrings{defaultJWTAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        "expired-1",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Fatal("expired token should be rejected")
	}
}

func TestSessionRejectsUnexpectedAlgorithm(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:  "user-1",
		Issuer:   defaultJWTIssuer,
		Audience: jwt.ClaimStrings{defaultJWTAudience},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	if _, err := issuer.Verify(signed); err == nil {
		t.Fatal("alg=none token should be rejected")
	}
}

func TestSessionRejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)
	for _, token := range []string{"", "   ", "not.a.jwt"} {
		if _, err := issuer.Verify(token); err == nil {
			t.Fatalf("Verify(%q) should fail", token)
		}
	}
}

func TestNewSessionIssuerValidation(t *testing.T) {
	if _, err := NewSessionIssuer("", time.Hour, SessionOptions{}); err == nil {
		t.Fatal("empty secret should be rejected")
	}
	if _, err := NewSessionIssuer("secret", 0, SessionOptions{}); err == nil {
		t.Fatal("zero ttl should be rejected")
	}
}
