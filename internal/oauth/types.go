package oauth

import (
	"time"
)

// Error codes returned by the gateway and the request gate.
const (
	// ErrorInvalidClientMetadata indicates a registration request with
	// missing or invalid metadata.
	ErrorInvalidClientMetadata = "invalid_client_metadata"

	// ErrorInvalidGrant indicates an unknown, expired, or already
	// consumed authorization code.
	ErrorInvalidGrant = "invalid_grant"

	// ErrorUnauthorized indicates a request without any credential.
	ErrorUnauthorized = "unauthorized"

	// ErrorInvalidToken indicates a credential that is present but
	// malformed (empty after stripping the Bearer prefix).
	ErrorInvalidToken = "invalid_token"
)

// Error is the OAuth-style error payload written on failures.
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`

	// AuthorizationURL is a self-remediation hint included when a
	// request carries no credential at all.
	AuthorizationURL string `json:"authorization_url,omitempty"`
}

// Error makes Error satisfy the error interface.
func (e *Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// RegistrationRequest is the client metadata submitted for dynamic client
// registration (RFC 7591 subset).
type RegistrationRequest struct {
	RedirectURIs            []string `json:"redirect_uris"`
	ClientName              string   `json:"client_name,omitempty"`
	GrantTypes              []string `json:"grant_types,omitempty"`
	ResponseTypes           []string `json:"response_types,omitempty"`
	TokenEndpointAuthMethod string   `json:"token_endpoint_auth_method,omitempty"`
}

// RegisteredClient is the identity record created on registration.
//
// The record doubles as the exchangeable authorization code: the code
// presented at the token endpoint is looked up directly as a client_id.
// AccessToken and TokenExpiresAt exist for the exchange path but are never
// populated by registration itself.
type RegisteredClient struct {
	ClientID                string   `json:"client_id"`
	ClientSecret            string   `json:"client_secret"`
	RedirectURIs            []string `json:"redirect_uris"`
	ClientName              string   `json:"client_name,omitempty"`
	GrantTypes              []string `json:"grant_types"`
	ResponseTypes           []string `json:"response_types"`
	TokenEndpointAuthMethod string   `json:"token_endpoint_auth_method"`

	// ClientIDIssuedAt is the registration time as a Unix timestamp.
	ClientIDIssuedAt int64 `json:"client_id_issued_at"`

	// ClientSecretExpiresAt is zero for non-expiring secrets.
	ClientSecretExpiresAt int64 `json:"client_secret_expires_at"`

	AccessToken    string `json:"access_token,omitempty"`
	TokenExpiresAt int64  `json:"token_expires_at,omitempty"`
}

// TokenRequest is the body accepted by the token endpoint.
type TokenRequest struct {
	Code string `json:"code"`
}

// TokenResponse is the successful token exchange payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Metadata is the authorization server discovery document (RFC 8414
// subset).
type Metadata struct {
	Issuer                 string   `json:"issuer"`
	AuthorizationEndpoint  string   `json:"authorization_endpoint"`
	TokenEndpoint          string   `json:"token_endpoint"`
	RegistrationEndpoint   string   `json:"registration_endpoint"`
	ResponseTypesSupported []string `json:"response_types_supported"`
}

// Credential is the validated bearer credential attached to a request by
// the gate. Scopes is always empty in this design.
type Credential struct {
	Token     string
	Subject   string
	Scopes    []string
	ExpiresAt time.Time
}
