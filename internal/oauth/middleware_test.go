package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"siren/internal/config"
)

func newTestGate() *Authenticator {
	return NewAuthenticator(testOAuthConfig())
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	gate := newTestGate()

	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not run without a credential")
	}))

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var oauthErr Error
	if err := json.Unmarshal(rec.Body.Bytes(), &oauthErr); err != nil {
		t.Fatalf("failed to decode error payload: %v", err)
	}
	if oauthErr.Code != ErrorUnauthorized {
		t.Errorf("expected code %q, got %q", ErrorUnauthorized, oauthErr.Code)
	}
	want := "http://localhost:8586/login?response_type=code"
	if oauthErr.AuthorizationURL != want {
		t.Errorf("expected authorization_url %q, got %q", want, oauthErr.AuthorizationURL)
	}
}

func TestMiddlewareRejectsEmptyBearer(t *testing.T) {
	gate := newTestGate()

	for _, header := range []string{"Bearer ", "Bearer    "} {
		handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("next handler must not run for header %q", header)
		}))

		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, rec.Code)
			continue
		}

		var oauthErr Error
		if err := json.Unmarshal(rec.Body.Bytes(), &oauthErr); err != nil {
			t.Fatalf("failed to decode error payload: %v", err)
		}
		if oauthErr.Code != ErrorInvalidToken {
			t.Errorf("header %q: expected code %q, got %q", header, ErrorInvalidToken, oauthErr.Code)
		}
		if oauthErr.AuthorizationURL != "" {
			t.Errorf("header %q: malformed credentials must not carry a hint", header)
		}
	}
}

func TestMiddlewareAcceptsAnyNonEmptyBearer(t *testing.T) {
	gate := newTestGate()

	var got *Credential
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred, ok := CredentialFromContext(r.Context())
		if !ok {
			t.Fatal("expected credential in request context")
		}
		got = cred
		w.WriteHeader(http.StatusNoContent)
	}))

	before := time.Now()
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer opaque-token-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected request to pass the gate, got %d", rec.Code)
	}
	if got.Token != "opaque-token-123" {
		t.Errorf("expected token to be carried verbatim, got %q", got.Token)
	}
	if got.Subject != credentialSubject {
		t.Errorf("expected subject %q, got %q", credentialSubject, got.Subject)
	}
	if got.Scopes == nil || len(got.Scopes) != 0 {
		t.Errorf("expected empty scope list, got %v", got.Scopes)
	}

	wantExpiry := before.Add(config.DefaultTokenTTL)
	if got.ExpiresAt.Before(wantExpiry) || got.ExpiresAt.After(wantExpiry.Add(time.Second)) {
		t.Errorf("expected expiry near %v, got %v", wantExpiry, got.ExpiresAt)
	}
}

func TestMiddlewareAcceptsSchemeLessToken(t *testing.T) {
	gate := newTestGate()

	var got *Credential
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CredentialFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "raw-value")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("expected credential for a scheme-less header")
	}
	if got.Token != "raw-value" {
		t.Errorf("expected the raw header value as token, got %q", got.Token)
	}
}

func TestCredentialFromContextWithoutCredential(t *testing.T) {
	if _, ok := CredentialFromContext(context.Background()); ok {
		t.Error("expected no credential in a bare context")
	}
}
