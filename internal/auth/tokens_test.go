package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func testTokens(now time.Time) Tokens {
	return Tokens{
		Secret:   []byte("super-secret-key"),
		Issuer:   "backend-receipt",
		Audience: "receipthub",
		TTL:      time.Minute,
		Now:      func() time.Time { return now },
	}
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := testTokens(time.Now())
	raw, expiresAt, err := tokens.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiry in the past: %v", expiresAt)
	}
	id, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != 42 {
		t.Fatalf("unexpected subject: %d", id)
	}
}

func TestTokensRejectAlgorithmMismatch(t *testing.T) {
	now := time.Now()
	tokens := testTokens(now)
	built, err := jwt.NewBuilder().
		Subject("42").
		Issuer(tokens.Issuer).
		Audience([]string{tokens.Audience}).
		IssuedAt(now).
		Expiration(now.Add(time.Minute)).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS384, tokens.Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := tokens.Parse(string(signed)); err == nil {
		t.Fatal("expected algorithm mismatch error")
	}
}

func TestTokensRejectForeignIssuerAndSecret(t *testing.T) {
	now := time.Now()
	issuer := testTokens(now)
	issuer.Issuer = "someone-else"
	raw, _, err := issuer.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := testTokens(now).Parse(raw); err == nil {
		t.Fatal("expected issuer mismatch error")
	}

	other := testTokens(now)
	other.Secret = []byte("another-secret")
	raw, _, err = other.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := testTokens(now).Parse(raw); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestTokensRejectNonNumericSubject(t *testing.T) {
	now := time.Now()
	tokens := testTokens(now)
	built, _ := jwt.NewBuilder().
		Subject("user-id").
		Issuer(tokens.Issuer).
		Audience([]string{tokens.Audience}).
		Expiration(now.Add(time.Minute)).
		Build()
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS256, tokens.Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := tokens.Parse(string(signed)); err == nil {
		t.Fatal("expected subject error")
	}
}
