package oauth

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
)

var clientIDPattern = regexp.MustCompile(`^client-\d+-\d+$`)

func TestRegisterRejectsEmptyRedirectURIs(t *testing.T) {
	cr := NewClientRegistry()
	defer cr.Close()

	for _, req := range []RegistrationRequest{
		{},
		{RedirectURIs: []string{}},
	} {
		_, err := cr.Register(req)
		if err == nil {
			t.Fatal("expected registration without redirect_uris to fail")
		}

		var oauthErr *Error
		if !errors.As(err, &oauthErr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if oauthErr.Code != ErrorInvalidClientMetadata {
			t.Errorf("expected code %q, got %q", ErrorInvalidClientMetadata, oauthErr.Code)
		}
	}

	if cr.Count() != 0 {
		t.Errorf("expected registry to stay empty after rejected registrations, got %d records", cr.Count())
	}
}

func TestRegisterAppliesDefaults(t *testing.T) {
	cr := NewClientRegistry()
	defer cr.Close()

	client, err := cr.Register(RegistrationRequest{
		RedirectURIs: []string{"https://a/cb"},
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if !clientIDPattern.MatchString(client.ClientID) {
		t.Errorf("client ID %q does not match client-<timestamp>-<int>", client.ClientID)
	}
	if client.ClientSecret == "" {
		t.Error("expected a generated client secret")
	}
	if len(client.GrantTypes) != 1 || client.GrantTypes[0] != "authorization_code" {
		t.Errorf("expected default grant types, got %v", client.GrantTypes)
	}
	if len(client.ResponseTypes) != 1 || client.ResponseTypes[0] != "code" {
		t.Errorf("expected default response types, got %v", client.ResponseTypes)
	}
	if client.TokenEndpointAuthMethod != "client_secret_basic" {
		t.Errorf("expected default auth method, got %q", client.TokenEndpointAuthMethod)
	}
	if client.ClientIDIssuedAt == 0 {
		t.Error("expected issuance timestamp to be set")
	}
	if client.ClientSecretExpiresAt != 0 {
		t.Errorf("expected non-expiring secret marker 0, got %d", client.ClientSecretExpiresAt)
	}
	if client.AccessToken != "" {
		t.Errorf("registration must not populate an access token, got %q", client.AccessToken)
	}
}

func TestRegisterKeepsExplicitMetadata(t *testing.T) {
	cr := NewClientRegistry()
	defer cr.Close()

	client, err := cr.Register(RegistrationRequest{
		RedirectURIs:            []string{"https://a/cb", "https://b/cb"},
		ClientName:              "dashboard",
		GrantTypes:              []string{"authorization_code", "refresh_token"},
		ResponseTypes:           []string{"code", "token"},
		TokenEndpointAuthMethod: "none",
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if client.ClientName != "dashboard" {
		t.Errorf("expected client name to survive, got %q", client.ClientName)
	}
	if len(client.GrantTypes) != 2 {
		t.Errorf("expected explicit grant types to survive, got %v", client.GrantTypes)
	}
	if client.TokenEndpointAuthMethod != "none" {
		t.Errorf("expected explicit auth method to survive, got %q", client.TokenEndpointAuthMethod)
	}
}

func TestClientIDsAreUnique(t *testing.T) {
	cr := NewClientRegistry()
	defer cr.Close()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		client, err := cr.Register(RegistrationRequest{
			RedirectURIs: []string{fmt.Sprintf("https://client-%d/cb", i)},
		})
		if err != nil {
			t.Fatalf("registration %d failed: %v", i, err)
		}
		if seen[client.ClientID] {
			t.Fatalf("duplicate client ID %q", client.ClientID)
		}
		seen[client.ClientID] = true
	}

	if cr.Count() != 100 {
		t.Errorf("expected 100 records, got %d", cr.Count())
	}
}

func TestConsumeIsOneTimeUse(t *testing.T) {
	cr := NewClientRegistry()
	defer cr.Close()

	client, err := cr.Register(RegistrationRequest{
		RedirectURIs: []string{"https://a/cb"},
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	consumed, ok := cr.Consume(client.ClientID)
	if !ok {
		t.Fatal("expected first consume to succeed")
	}
	if consumed.ClientID != client.ClientID {
		t.Errorf("consumed wrong record: %q", consumed.ClientID)
	}

	if _, ok := cr.Consume(client.ClientID); ok {
		t.Error("expected second consume of the same code to fail")
	}
	if cr.Count() != 0 {
		t.Errorf("expected registry to be empty after consume, got %d", cr.Count())
	}
}

func TestConsumeUnknownCode(t *testing.T) {
	cr := NewClientRegistry()
	defer cr.Close()

	if _, ok := cr.Consume("client-0-0"); ok {
		t.Error("expected consume of unknown code to fail")
	}
}

func TestGet(t *testing.T) {
	cr := NewClientRegistry()
	defer cr.Close()

	client, err := cr.Register(RegistrationRequest{
		RedirectURIs: []string{"https://a/cb"},
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	got, ok := cr.Get(client.ClientID)
	if !ok || got.ClientID != client.ClientID {
		t.Errorf("expected to retrieve registered client, got %v (ok=%v)", got, ok)
	}

	// Get must not consume the record.
	if _, ok := cr.Get(client.ClientID); !ok {
		t.Error("expected second Get to still find the record")
	}
}

func TestCloseClearsRegistry(t *testing.T) {
	cr := NewClientRegistry()

	if _, err := cr.Register(RegistrationRequest{RedirectURIs: []string{"https://a/cb"}}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	cr.Close()
	if cr.Count() != 0 {
		t.Errorf("expected registry to be empty after Close, got %d", cr.Count())
	}
}
