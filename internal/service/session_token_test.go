package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testAPIKey    = "api-key"
	testAPISecret = "api-secret"
)

func signSessionToken(t *testing.T, secret string, mutate func(c *SessionTokenClaims)) string {
	t.Helper()
	now := time.Now().UTC()
	claims := SessionTokenClaims{
		Dest:      "https://demo.myshopify.com",
		SessionID: "sid-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://demo.myshopify.com/admin",
			Subject:   "42",
			Audience:  jwt.ClaimStrings{testAPIKey},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	if mutate != nil {
		mutate(&claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestSessionTokenVerifier_Valid(t *testing.T) {
	v := NewSessionTokenVerifier(testAPIKey, testAPISecret)
	token := signSessionToken(t, testAPISecret, nil)

	session, err := v.Verify(token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if session.Shop != "demo.myshopify.com" || session.UserID != "42" || session.SessionID != "sid-1" {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.Token != token {
		t.Fatalf("expected raw token to be kept")
	}
}

func TestSessionTokenVerifier_Rejects(t *testing.T) {
	v := NewSessionTokenVerifier(testAPIKey, testAPISecret)

	cases := map[string]string{
		"wrong secret": signSessionToken(t, "other", nil),
		"wrong audience": signSessionToken(t, testAPISecret, func(c *SessionTokenClaims) {
			c.Audience = jwt.ClaimStrings{"someone-else"}
		}),
		"foreign dest": signSessionToken(t, testAPISecret, func(c *SessionTokenClaims) {
			c.Dest = "https://evil.example.com"
			c.Issuer = "https://evil.example.com/admin"
		}),
		"issuer mismatch": signSessionToken(t, testAPISecret, func(c *SessionTokenClaims) {
			c.Issuer = "https://other.myshopify.com/admin"
		}),
		"missing exp": signSessionToken(t, testAPISecret, func(c *SessionTokenClaims) {
			c.ExpiresAt = nil
		}),
		"garbage": "not-a-jwt",
	}
	for name, token := range cases {
		if _, err := v.Verify(token); !errors.Is(err, ErrSessionTokenInvalid) {
			t.Fatalf("%s: expected ErrSessionTokenInvalid, got %v", name, err)
		}
	}

	expired := signSessionToken(t, testAPISecret, func(c *SessionTokenClaims) {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	})
	if _, err := v.Verify(expired); !errors.Is(err, ErrSessionTokenExpired) {
		t.Fatalf("expected ErrSessionTokenExpired, got %v", err)
	}

	unconfigured := NewSessionTokenVerifier("", "")
	if _, err := unconfigured.Verify(signSessionToken(t, testAPISecret, nil)); !errors.Is(err, ErrSessionTokenInvalid) {
		t.Fatalf("expected unconfigured verifier to reject, got %v", err)
	}
}

func TestSessionTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/app?id_token=from-query", nil)
	req.Header.Set("Authorization", "bearer from-header")
	if got := SessionTokenFromRequest(req); got != "from-header" {
		t.Fatalf("expected header token first, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/app?id_token=from-query", nil)
	if got := SessionTokenFromRequest(req); got != "from-query" {
		t.Fatalf("expected query token, got %q", got)
	}

	form := url.Values{"id_token": {"from-form"}, "messageText": {"hola"}}
	req = httptest.NewRequest(http.MethodPost, "/app/messages/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if got := SessionTokenFromRequest(req); got != "from-form" {
		t.Fatalf("expected form token, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/app", nil)
	if _, err := NewSessionTokenVerifier(testAPIKey, testAPISecret).AuthenticateAdmin(req); !errors.Is(err, ErrSessionTokenMissing) {
		t.Fatalf("expected ErrSessionTokenMissing, got %v", err)
	}
}

func TestStaticAuthenticator(t *testing.T) {
	a := NewStaticAuthenticator("dev-shop.myshopify.com")
	session, err := a.AuthenticateAdmin(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || session.Shop != "dev-shop.myshopify.com" {
		t.Fatalf("unexpected result %+v, %v", session, err)
	}
}
